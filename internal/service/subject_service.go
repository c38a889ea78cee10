package service

import (
	"context"
	"errors"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type SubjectService struct {
	Repo *repository.SubjectRepository
}

func NewSubjectService(repo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{Repo: repo}
}

type SubjectRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*model.Subject, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, util.ErrValidation
	}
	if _, err := s.Repo.FindByName(ctx, name); err == nil {
		return nil, util.ErrSubjectExists
	}
	subject := &model.Subject{Name: name}
	if err := s.Repo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Get(ctx context.Context, id uint) (*model.Subject, error) {
	subject, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubjectNotFound
	}
	return subject, err
}

func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	return s.Repo.List(ctx)
}

func (s *SubjectService) Update(ctx context.Context, id uint, req SubjectRequest) (*model.Subject, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	subject.Name = strings.TrimSpace(req.Name)
	if err := s.Repo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
