package repository

import (
	"context"
	"stem_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	return r.DB.WithContext(ctx).Omit("Subject").Create(p).Error
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project
	err := r.DB.WithContext(ctx).Preload("Subject").First(&p, id).Error
	return &p, err
}

func (r *ProjectRepository) List(ctx context.Context, subjectID uint, difficulty string) ([]model.Project, error) {
	var projects []model.Project
	query := r.DB.WithContext(ctx).Preload("Subject")
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Order("id asc").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	return r.DB.WithContext(ctx).Omit("Subject").Save(p).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Project{}, id).Error
}
