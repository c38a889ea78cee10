package repository

import (
	"context"
	"stem_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

type ProgressFilter struct {
	UserID         uint
	LearningPathID uint
}

func (r *ProgressRepository) Create(ctx context.Context, p *model.Progress) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *ProgressRepository) FindByID(ctx context.Context, id uint) (*model.Progress, error) {
	var p model.Progress
	err := r.DB.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *ProgressRepository) List(ctx context.Context, f ProgressFilter, page, limit int) ([]model.Progress, int64, error) {
	var list []model.Progress
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Progress{})
	if f.UserID > 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.LearningPathID > 0 {
		query = query.Where("learning_path_id = ?", f.LearningPathID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at desc, id desc").Offset((page - 1) * limit).Limit(limit).Find(&list).Error
	return list, total, err
}

// MasteredQuestionIDs 返回该路径下至少答对过一次的题目
func (r *ProgressRepository) MasteredQuestionIDs(ctx context.Context, userID, learningPathID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Progress{}).
		Where("user_id = ? AND learning_path_id = ? AND is_correct = ?", userID, learningPathID, true).
		Distinct().
		Pluck("question_id", &ids).Error
	return ids, err
}

// RecentByPath 按时间倒序返回最近 limit 条记录
func (r *ProgressRepository) RecentByPath(ctx context.Context, userID, learningPathID uint, limit int) ([]model.Progress, error) {
	var list []model.Progress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND learning_path_id = ?", userID, learningPathID).
		Order("id desc").
		Limit(limit).
		Find(&list).Error
	return list, err
}
