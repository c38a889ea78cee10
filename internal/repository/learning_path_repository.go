package repository

import (
	"context"
	"stem_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

// Create 创建学习路径并关联科目
func (r *LearningPathRepository) Create(ctx context.Context, lp *model.LearningPath) error {
	return r.DB.WithContext(ctx).Create(lp).Error
}

func (r *LearningPathRepository) FindByID(ctx context.Context, id uint) (*model.LearningPath, error) {
	var lp model.LearningPath
	err := r.DB.WithContext(ctx).Preload("Subjects").First(&lp, id).Error
	return &lp, err
}

func (r *LearningPathRepository) FindByUserID(ctx context.Context, userID uint) (*model.LearningPath, error) {
	var lp model.LearningPath
	err := r.DB.WithContext(ctx).Preload("Subjects").Where("user_id = ?", userID).First(&lp).Error
	return &lp, err
}

func (r *LearningPathRepository) List(ctx context.Context) ([]model.LearningPath, error) {
	var paths []model.LearningPath
	err := r.DB.WithContext(ctx).Preload("Subjects").Order("id asc").Find(&paths).Error
	return paths, err
}

func (r *LearningPathRepository) UpdateLevel(ctx context.Context, id uint, level string) error {
	return r.DB.WithContext(ctx).Model(&model.LearningPath{}).
		Where("id = ?", id).
		Update("current_level", level).
		Error
}

func (r *LearningPathRepository) ReplaceSubjects(ctx context.Context, lp *model.LearningPath, subjects []model.Subject) error {
	return r.DB.WithContext(ctx).Model(lp).Association("Subjects").Replace(subjects)
}

// Delete 删除路径及其科目关联；需要硬删除以释放 user_id 唯一索引
func (r *LearningPathRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lp := &model.LearningPath{BaseModel: model.BaseModel{ID: id}}
		if err := tx.Model(lp).Association("Subjects").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.LearningPath{}, id).Error
	})
}
