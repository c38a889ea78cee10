package service

import (
	"context"
	"errors"
	"fmt"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type LearningPathService struct {
	Repo        *repository.LearningPathRepository
	UserRepo    *repository.UserRepository
	SubjectRepo *repository.SubjectRepository
	Curriculum  *CurriculumService
}

func NewLearningPathService(
	repo *repository.LearningPathRepository,
	userRepo *repository.UserRepository,
	subjectRepo *repository.SubjectRepository,
	curriculum *CurriculumService,
) *LearningPathService {
	return &LearningPathService{
		Repo:        repo,
		UserRepo:    userRepo,
		SubjectRepo: subjectRepo,
		Curriculum:  curriculum,
	}
}

type CreateLearningPathRequest struct {
	UserID       uint   `json:"userId"`
	SubjectIDs   []uint `json:"subjectIds" binding:"required,min=1"`
	CurrentLevel string `json:"currentLevel"`
}

type UpdateLearningPathRequest struct {
	SubjectIDs   []uint  `json:"subjectIds"`
	CurrentLevel *string `json:"currentLevel"`
}

func (s *LearningPathService) loadSubjects(ctx context.Context, ids []uint) ([]model.Subject, error) {
	subjects, err := s.SubjectRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(subjects) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("%w: unknown subject id", util.ErrSubjectNotFound)
	}
	return subjects, nil
}

// Create 每个用户最多一条学习路径，等级缺省为 Beginner
func (s *LearningPathService) Create(ctx context.Context, req CreateLearningPathRequest) (*model.LearningPath, error) {
	if _, err := s.UserRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.Repo.FindByUserID(ctx, req.UserID); err == nil {
		return nil, util.ErrLearningPathExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subjects, err := s.loadSubjects(ctx, req.SubjectIDs)
	if err != nil {
		return nil, err
	}

	level := strings.TrimSpace(req.CurrentLevel)
	if level == "" {
		level = model.DefaultLearningLevel
	}

	lp := &model.LearningPath{
		UserID:       req.UserID,
		Subjects:     subjects,
		CurrentLevel: level,
	}
	if err := s.Repo.Create(ctx, lp); err != nil {
		// 并发创建时由 user_id 唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrLearningPathExists
		}
		return nil, err
	}
	return lp, nil
}

func (s *LearningPathService) Get(ctx context.Context, id uint) (*model.LearningPath, error) {
	lp, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return lp, err
}

func (s *LearningPathService) GetByUser(ctx context.Context, userID uint) (*model.LearningPath, error) {
	lp, err := s.Repo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNoLearningPath
	}
	return lp, err
}

func (s *LearningPathService) List(ctx context.Context) ([]model.LearningPath, error) {
	return s.Repo.List(ctx)
}

// Update 修改科目或等级；等级变化会发布等级事件
func (s *LearningPathService) Update(ctx context.Context, lp *model.LearningPath, req UpdateLearningPathRequest) (*model.LearningPath, error) {
	if req.SubjectIDs != nil {
		if len(req.SubjectIDs) == 0 {
			return nil, fmt.Errorf("%w: a learning path needs at least one subject", util.ErrValidation)
		}
		subjects, err := s.loadSubjects(ctx, req.SubjectIDs)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.ReplaceSubjects(ctx, lp, subjects); err != nil {
			return nil, err
		}
		lp.Subjects = subjects
	}

	if req.CurrentLevel != nil {
		level := strings.TrimSpace(*req.CurrentLevel)
		if level == "" {
			return nil, fmt.Errorf("%w: current level must not be empty", util.ErrValidation)
		}
		if level != lp.CurrentLevel {
			if err := s.Curriculum.SetLevel(ctx, lp, level); err != nil {
				return nil, err
			}
		}
	}
	return lp, nil
}

func (s *LearningPathService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
