package repository

import (
	"context"
	"stem_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

type AnswerFilter struct {
	UserID     uint
	QuestionID uint
}

// SubjectRow 一条答题记录对应的用户与科目
type SubjectRow struct {
	UserID      uint
	SubjectID   uint
	SubjectName string
}

func (r *AnswerRepository) Create(ctx context.Context, a *model.Answer) error {
	return r.DB.WithContext(ctx).Omit("Question").Create(a).Error
}

func (r *AnswerRepository) FindByID(ctx context.Context, id uint) (*model.Answer, error) {
	var a model.Answer
	err := r.DB.WithContext(ctx).Preload("Question").First(&a, id).Error
	return &a, err
}

func (r *AnswerRepository) List(ctx context.Context, f AnswerFilter, page, limit int) ([]model.Answer, int64, error) {
	var answers []model.Answer
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Answer{})
	if f.UserID > 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.QuestionID > 0 {
		query = query.Where("question_id = ?", f.QuestionID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at desc, id desc").Offset((page - 1) * limit).Limit(limit).Find(&answers).Error
	return answers, total, err
}

// SubjectRows 返回每条答题记录的科目，userID 为 nil 时返回全部用户
func (r *AnswerRepository) SubjectRows(ctx context.Context, userID *uint) ([]SubjectRow, error) {
	var rows []SubjectRow
	query := r.DB.WithContext(ctx).Table("answers").
		Select("answers.user_id AS user_id, subjects.id AS subject_id, subjects.name AS subject_name").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("JOIN subjects ON subjects.id = questions.subject_id").
		Where("questions.deleted_at IS NULL")
	if userID != nil {
		query = query.Where("answers.user_id = ?", *userID)
	}
	err := query.Order("answers.id asc").Scan(&rows).Error
	return rows, err
}

func (r *AnswerRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Answer{}, id).Error
}
