package service

import (
	"context"
	"errors"
	"stem_tutor_backend/internal/config"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultTokenTTL 未配置 jwt.expire_hours 时使用
const defaultTokenTTL = 24 * time.Hour

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type RegisterRequest struct {
	Username      string `json:"username" binding:"required,min=3,max=150"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	GradeLevel    string `json:"gradeLevel"`
	LearningStyle string `json:"learningStyle"`
	Bio           string `json:"bio"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 新用户默认为学生角色
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	_, err := s.UserRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	_, err = s.UserRepo.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:      req.Username,
		Email:         req.Email,
		Password:      string(hashedPassword),
		Role:          model.Student,
		GradeLevel:    req.GradeLevel,
		LearningStyle: req.LearningStyle,
		Bio:           req.Bio,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.tokenTTL())
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user}, nil
}

func (s *AuthService) tokenTTL() time.Duration {
	if s.Cfg.JWT.ExpireTime <= 0 {
		return defaultTokenTTL
	}
	return s.Cfg.JWT.ExpireTime
}
