package repository

import (
	"context"
	"stem_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Create(subject).Error
}

func (r *SubjectRepository) FindByID(ctx context.Context, id uint) (*model.Subject, error) {
	var s model.Subject
	err := r.DB.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *SubjectRepository) FindByName(ctx context.Context, name string) (*model.Subject, error) {
	var s model.Subject
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&s).Error
	return &s, err
}

// FindByIDs 返回存在的科目，调用方自行比较数量判断是否缺失
func (r *SubjectRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Subject, error) {
	var subjects []model.Subject
	if len(ids) == 0 {
		return subjects, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.WithContext(ctx).Order("name asc").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Save(subject).Error
}

func (r *SubjectRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Subject{}, id).Error
}
