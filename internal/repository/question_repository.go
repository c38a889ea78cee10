package repository

import (
	"context"
	"stem_tutor_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

// likeEscaper 转义 LIKE 通配符，配合 ESCAPE '!' 使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

type QuestionFilter struct {
	SubjectID  uint
	Difficulty string
	Tag        string
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Preload("Subject").First(&q, id).Error
	return &q, err
}

func (r *QuestionRepository) List(ctx context.Context, f QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	var qs []model.Question
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Question{})
	if f.SubjectID > 0 {
		query = query.Where("subject_id = ?", f.SubjectID)
	}
	if f.Difficulty != "" {
		query = query.Where("difficulty = ?", f.Difficulty)
	}
	if f.Tag != "" {
		// tags 以 JSON 数组存储
		query = query.Where("tags LIKE ? ESCAPE '!'", "%\""+likeEscaper.Replace(f.Tag)+"\"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Subject").Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&qs).Error
	return qs, total, err
}

func (r *QuestionRepository) FindBySubject(ctx context.Context, subjectID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).Preload("Subject").Where("subject_id = ?", subjectID).Order("id asc").Find(&qs).Error
	return qs, err
}

// FindCandidates 返回属于给定科目、难度匹配且不在 excludeIDs 中的题目
func (r *QuestionRepository) FindCandidates(ctx context.Context, subjectIDs []uint, difficulty string, excludeIDs []uint) ([]model.Question, error) {
	var qs []model.Question
	if len(subjectIDs) == 0 {
		return qs, nil
	}
	query := r.DB.WithContext(ctx).Preload("Subject").
		Where("subject_id IN ? AND difficulty = ?", subjectIDs, difficulty)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Order("id asc").Find(&qs).Error
	return qs, err
}

// FindMissingExplanation 返回讲解为空的题目
func (r *QuestionRepository) FindMissingExplanation(ctx context.Context, limit int) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).Preload("Subject").
		Where("explanation IS NULL OR explanation = ''").
		Order("id asc").
		Limit(limit).
		Find(&qs).Error
	return qs, err
}

// SetExplanationIfEmpty 仅在 explanation 为空时写入，返回是否写入成功
func (r *QuestionRepository) SetExplanationIfEmpty(ctx context.Context, id uint, explanation string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("id = ? AND (explanation IS NULL OR explanation = '')", id).
		Update("explanation", explanation)
	return res.RowsAffected > 0, res.Error
}

// Update 不写 explanation 列，讲解只能通过 SetExplanationIfEmpty 写入
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Omit("Subject", "Explanation").Save(q).Error
}

func (r *QuestionRepository) UpdateImage(ctx context.Context, id uint, url string) error {
	return r.DB.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Update("image_url", url).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Question{}, id).Error
}
