package repository

import (
	"context"
	"stem_tutor_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QARepository struct {
	DB *gorm.DB
}

func NewQARepository(db *gorm.DB) *QARepository {
	return &QARepository{DB: db}
}

func (r *QARepository) Create(ctx context.Context, qa *model.QAPair) error {
	return r.DB.WithContext(ctx).Create(qa).Error
}

func (r *QARepository) FindByID(ctx context.Context, id uint) (*model.QAPair, error) {
	var qa model.QAPair
	err := r.DB.WithContext(ctx).First(&qa, id).Error
	return &qa, err
}

func (r *QARepository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]model.QAPair, int64, error) {
	var list []model.QAPair
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.QAPair{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at desc, id desc").Offset((page - 1) * limit).Limit(limit).Find(&list).Error
	return list, total, err
}

// ListPersonalized 按年级与学科筛选问答，最新的在前
func (r *QARepository) ListPersonalized(ctx context.Context, gradeLevel string, subjects []string, limit int) ([]model.QAPair, error) {
	list := []model.QAPair{}
	if len(subjects) == 0 {
		return list, nil
	}
	err := r.DB.WithContext(ctx).
		Where("grade_level = ? AND subject IN ?", gradeLevel, subjects).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *QARepository) SetFeedback(ctx context.Context, id uint, helpful bool, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.QAPair{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"helpful":            helpful,
			"feedback_timestamp": at,
		}).Error
}

func (r *QARepository) FindChallenge(ctx context.Context, date string) (*model.DailyChallenge, error) {
	var dc model.DailyChallenge
	err := r.DB.WithContext(ctx).Where("date = ?", date).First(&dc).Error
	return &dc, err
}

// CreateChallenge 并发生成同一天挑战时保留先写入的记录
func (r *QARepository) CreateChallenge(ctx context.Context, dc *model.DailyChallenge) (*model.DailyChallenge, error) {
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "date"}}, DoNothing: true}).
		Create(dc).Error
	if err != nil {
		return nil, err
	}
	return r.FindChallenge(ctx, dc.Date)
}
