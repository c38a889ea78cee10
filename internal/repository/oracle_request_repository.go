package repository

import (
	"context"
	"stem_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type OracleRequestRepository struct {
	DB *gorm.DB
}

func NewOracleRequestRepository(db *gorm.DB) *OracleRequestRepository {
	return &OracleRequestRepository{DB: db}
}

// Record 实现 oracle.Recorder
func (r *OracleRequestRepository) Record(ctx context.Context, req *model.OracleRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *OracleRequestRepository) List(ctx context.Context, purpose string, limit int) ([]model.OracleRequest, error) {
	var list []model.OracleRequest
	query := r.DB.WithContext(ctx)
	if purpose != "" {
		query = query.Where("purpose = ?", purpose)
	}
	err := query.Order("id desc").Limit(limit).Find(&list).Error
	return list, err
}
