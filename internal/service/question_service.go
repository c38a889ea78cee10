package service

import (
	"context"
	"errors"
	"fmt"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	Repo        *repository.QuestionRepository
	SubjectRepo *repository.SubjectRepository
	AnswerRepo  *repository.AnswerRepository
}

func NewQuestionService(
	repo *repository.QuestionRepository,
	subjectRepo *repository.SubjectRepository,
	answerRepo *repository.AnswerRepository,
) *QuestionService {
	return &QuestionService{
		Repo:        repo,
		SubjectRepo: subjectRepo,
		AnswerRepo:  answerRepo,
	}
}

type CreateQuestionRequest struct {
	Text               string   `json:"text" binding:"required"`
	SubjectID          uint     `json:"subjectId" binding:"required"`
	Difficulty         string   `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	Explanation        string   `json:"explanation"`
	LearningObjectives []string `json:"learningObjectives"`
	Tags               []string `json:"tags"`
}

// UpdateQuestionRequest 讲解一旦生成不可通过更新覆盖，只能在为空时写入
type UpdateQuestionRequest struct {
	Text               *string  `json:"text"`
	SubjectID          *uint    `json:"subjectId"`
	Difficulty         *string  `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
	Explanation        *string  `json:"explanation"`
	LearningObjectives []string `json:"learningObjectives"`
	Tags               []string `json:"tags"`
}

func (s *QuestionService) ensureSubject(ctx context.Context, id uint) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubjectNotFound
	}
	return subject, err
}

func (s *QuestionService) Create(ctx context.Context, req CreateQuestionRequest) (*model.Question, error) {
	difficulty := model.Difficulty(req.Difficulty)
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", util.ErrValidation, req.Difficulty)
	}
	subject, err := s.ensureSubject(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}

	q := &model.Question{
		Text:               req.Text,
		SubjectID:          subject.ID,
		Difficulty:         difficulty,
		Explanation:        req.Explanation,
		LearningObjectives: req.LearningObjectives,
		Tags:               req.Tags,
	}
	if err := s.Repo.Create(ctx, q); err != nil {
		return nil, err
	}
	q.Subject = *subject
	return q, nil
}

func (s *QuestionService) Get(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionService) List(ctx context.Context, f repository.QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	return s.Repo.List(ctx, f, page, limit)
}

func (s *QuestionService) BySubject(ctx context.Context, subjectID uint) ([]model.Question, error) {
	if _, err := s.ensureSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.Repo.FindBySubject(ctx, subjectID)
}

func (s *QuestionService) Answers(ctx context.Context, questionID uint, page, limit int) ([]model.Answer, int64, error) {
	if _, err := s.Get(ctx, questionID); err != nil {
		return nil, 0, err
	}
	return s.AnswerRepo.List(ctx, repository.AnswerFilter{QuestionID: questionID}, page, limit)
}

func (s *QuestionService) Update(ctx context.Context, id uint, req UpdateQuestionRequest) (*model.Question, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		q.Text = *req.Text
	}
	if req.SubjectID != nil {
		subject, err := s.ensureSubject(ctx, *req.SubjectID)
		if err != nil {
			return nil, err
		}
		q.SubjectID = subject.ID
		q.Subject = *subject
	}
	if req.Difficulty != nil {
		d := model.Difficulty(*req.Difficulty)
		if !d.Valid() {
			return nil, fmt.Errorf("%w: unknown difficulty %q", util.ErrValidation, *req.Difficulty)
		}
		q.Difficulty = d
	}
	if req.LearningObjectives != nil {
		q.LearningObjectives = req.LearningObjectives
	}
	if req.Tags != nil {
		q.Tags = req.Tags
	}

	if err := s.Repo.Update(ctx, q); err != nil {
		return nil, err
	}

	if req.Explanation != nil && *req.Explanation != "" && q.Explanation == "" {
		written, err := s.Repo.SetExplanationIfEmpty(ctx, q.ID, *req.Explanation)
		if err != nil {
			return nil, err
		}
		if written {
			q.Explanation = *req.Explanation
		}
	}
	return q, nil
}

func (s *QuestionService) SetImage(ctx context.Context, id uint, url string) (*model.Question, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateImage(ctx, id, url); err != nil {
		return nil, err
	}
	q.ImageURL = url
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
