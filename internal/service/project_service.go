package service

import (
	"context"
	"errors"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"

	"gorm.io/gorm"
)

type ProjectService struct {
	Repo        *repository.ProjectRepository
	SubjectRepo *repository.SubjectRepository
}

func NewProjectService(repo *repository.ProjectRepository, subjectRepo *repository.SubjectRepository) *ProjectService {
	return &ProjectService{Repo: repo, SubjectRepo: subjectRepo}
}

type ProjectRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	SubjectID   uint   `json:"subjectId" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	Resources   string `json:"resources"`
}

func (s *ProjectService) apply(ctx context.Context, p *model.Project, req ProjectRequest) error {
	subject, err := s.SubjectRepo.FindByID(ctx, req.SubjectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrSubjectNotFound
	}
	if err != nil {
		return err
	}
	p.Title = req.Title
	p.Description = req.Description
	p.SubjectID = subject.ID
	p.Subject = *subject
	p.Difficulty = model.Difficulty(req.Difficulty)
	p.Resources = req.Resources
	return nil
}

func (s *ProjectService) Create(ctx context.Context, req ProjectRequest) (*model.Project, error) {
	p := &model.Project{}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*model.Project, error) {
	p, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return p, err
}

func (s *ProjectService) List(ctx context.Context, subjectID uint, difficulty string) ([]model.Project, error) {
	return s.Repo.List(ctx, subjectID, difficulty)
}

func (s *ProjectService) Update(ctx context.Context, id uint, req ProjectRequest) (*model.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
