package service

import (
	"context"
	"errors"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"

	"gorm.io/gorm"
)

// AnswerService 答案的查询与删除；创建走 EvaluationService
type AnswerService struct {
	Repo *repository.AnswerRepository
}

func NewAnswerService(repo *repository.AnswerRepository) *AnswerService {
	return &AnswerService{Repo: repo}
}

func (s *AnswerService) Get(ctx context.Context, id uint) (*model.Answer, error) {
	a, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return a, err
}

func (s *AnswerService) List(ctx context.Context, f repository.AnswerFilter, page, limit int) ([]model.Answer, int64, error) {
	return s.Repo.List(ctx, f, page, limit)
}

// Delete 只有答案作者或管理员可以删除
func (s *AnswerService) Delete(ctx context.Context, id, actorID uint, isAdmin bool) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.UserID != actorID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.Repo.Delete(ctx, id)
}
