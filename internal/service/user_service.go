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

// UserService 处理用户资料相关的业务逻辑
type UserService struct {
	UserRepo    *repository.UserRepository
	SubjectRepo *repository.SubjectRepository
}

func NewUserService(userRepo *repository.UserRepository, subjectRepo *repository.SubjectRepository) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		SubjectRepo: subjectRepo,
	}
}

// UpdateUserRequest 只更新非空字段
type UpdateUserRequest struct {
	Bio           *string         `json:"bio"`
	LearningStyle *string         `json:"learningStyle"`
	GradeLevel    *string         `json:"gradeLevel"`
	Role          *model.UserRole `json:"role" binding:"omitempty,oneof=student teacher admin"`
	InterestIDs   []uint          `json:"interestIds"`
}

func (s *UserService) GetUsers(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.List(ctx, page, limit)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// UpdateUser 更新资料；修改角色需要管理员权限，由调用方传入 isAdmin
func (s *UserService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest, isAdmin bool) (*model.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.LearningStyle != nil {
		user.LearningStyle = *req.LearningStyle
	}
	if req.GradeLevel != nil {
		user.GradeLevel = *req.GradeLevel
	}
	if req.Role != nil {
		if !isAdmin {
			return nil, util.ErrPermissionDenied
		}
		user.Role = *req.Role
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.InterestIDs != nil {
		subjects, err := s.loadSubjects(ctx, req.InterestIDs)
		if err != nil {
			return nil, err
		}
		if err := s.UserRepo.ReplaceInterests(ctx, user, subjects); err != nil {
			return nil, err
		}
		user.Interests = subjects
	}
	return user, nil
}

func (s *UserService) loadSubjects(ctx context.Context, ids []uint) ([]model.Subject, error) {
	subjects, err := s.SubjectRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(subjects) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("%w: unknown subject id", util.ErrSubjectNotFound)
	}
	return subjects, nil
}

func (s *UserService) SetProfilePicture(ctx context.Context, id uint, url string) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.UserRepo.UpdateProfilePicture(ctx, id, url)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.UserRepo.Delete(ctx, id)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
