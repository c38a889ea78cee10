package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/oracle"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"
	"stem_tutor_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dailyChallengePrompt = "Generate a challenging STEM question suitable for high school students."

// AskService 自由提问与每日挑战
type AskService struct {
	Oracle   oracle.Oracle
	Repo     *repository.QARepository
	UserRepo *repository.UserRepository

	timeout   atomic.Int64
	maxTokens int
	now       func() time.Time
}

func NewAskService(o oracle.Oracle, repo *repository.QARepository, userRepo *repository.UserRepository, timeout time.Duration, maxTokens int) *AskService {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	s := &AskService{
		Oracle:    o,
		Repo:      repo,
		UserRepo:  userRepo,
		maxTokens: maxTokens,
		now:       time.Now,
	}
	s.SetTimeout(timeout)
	return s
}

func (s *AskService) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = defaultOracleTimeout
	}
	s.timeout.Store(int64(d))
}

type AskRequest struct {
	Text       string `json:"text" binding:"required"`
	Subject    string `json:"subject"`
	GradeLevel string `json:"gradeLevel"`
}

type FeedbackRequest struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

func (s *AskService) complete(ctx context.Context, purpose, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(oracle.WithPurpose(ctx, purpose), time.Duration(s.timeout.Load()))
	defer cancel()
	return s.Oracle.Complete(ctx, prompt, s.maxTokens)
}

// SplitAnswer 回复按第一个空行拆成答案和讲解
func SplitAnswer(reply string) (answer, explanation string) {
	parts := strings.SplitN(reply, "\n\n", 2)
	answer = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		explanation = strings.TrimSpace(parts[1])
	}
	return answer, explanation
}

// Ask 向 AI 提问并保存问答记录。这里没有可用的降级内容，AI 失败直接返回错误。
func (s *AskService) Ask(ctx context.Context, userID uint, req AskRequest) (*model.QAPair, error) {
	prompt := fmt.Sprintf("Question: %s\nProvide a concise answer and a brief explanation.", req.Text)
	reply, err := s.complete(ctx, oracle.PurposeAsk, prompt)
	if err != nil {
		logger.Log.Warn("AI问答失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("ask oracle: %w", err)
	}

	answer, explanation := SplitAnswer(reply)
	qa := &model.QAPair{
		UserID:      userID,
		Question:    req.Text,
		Answer:      answer,
		Explanation: explanation,
		Subject:     req.Subject,
		GradeLevel:  req.GradeLevel,
	}
	if err := s.Repo.Create(ctx, qa); err != nil {
		return nil, err
	}
	return qa, nil
}

func (s *AskService) History(ctx context.Context, userID uint, page, limit int) ([]model.QAPair, int64, error) {
	return s.Repo.ListByUser(ctx, userID, page, limit)
}

// Personalized 返回与用户年级和兴趣学科匹配的历史问答，没有兴趣学科时为空
func (s *AskService) Personalized(ctx context.Context, userID uint, limit int) ([]model.QAPair, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	subjects := make([]string, 0, len(user.Interests))
	for _, sub := range user.Interests {
		subjects = append(subjects, sub.Name)
	}
	return s.Repo.ListPersonalized(ctx, user.GradeLevel, subjects, limit)
}

// Feedback 只有提问者本人可以评价
func (s *AskService) Feedback(ctx context.Context, id, userID uint, helpful bool) (*model.QAPair, error) {
	qa, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if qa.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	at := s.now()
	if err := s.Repo.SetFeedback(ctx, id, helpful, at); err != nil {
		return nil, err
	}
	qa.Helpful = &helpful
	qa.FeedbackTimestamp = &at
	return qa, nil
}

// DailyChallenge 返回当天的挑战题，不存在时生成一次并保存
func (s *AskService) DailyChallenge(ctx context.Context) (*model.DailyChallenge, error) {
	today := s.now().Format(util.DateFormat)

	dc, err := s.Repo.FindChallenge(ctx, today)
	if err == nil {
		return dc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	question, err := s.complete(ctx, oracle.PurposeDailyChallenge, dailyChallengePrompt)
	if err != nil {
		logger.Log.Warn("每日挑战生成失败", zap.String("date", today), zap.Error(err))
		return nil, fmt.Errorf("generate daily challenge: %w", err)
	}

	return s.Repo.CreateChallenge(ctx, &model.DailyChallenge{
		Date:     today,
		Question: strings.TrimSpace(question),
	})
}
