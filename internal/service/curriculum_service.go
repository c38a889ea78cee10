package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"stem_tutor_backend/internal/event"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"
	"stem_tutor_backend/pkg/logger"
	"stem_tutor_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CurriculumService 选择下一道题，并维护学习路径的难度等级
type CurriculumService struct {
	PathRepo     *repository.LearningPathRepository
	QuestionRepo *repository.QuestionRepository
	ProgressRepo *repository.ProgressRepository
	Publisher    event.Publisher

	mu  sync.Mutex
	rnd *rand.Rand

	advanceAfter atomic.Int64
}

type CurriculumOption func(*CurriculumService)

// WithRandSource 替换随机源，测试中用固定种子
func WithRandSource(src rand.Source) CurriculumOption {
	return func(s *CurriculumService) {
		s.rnd = rand.New(src)
	}
}

// WithAdvanceAfter 连续答对 n 题后自动升级，0 表示关闭
func WithAdvanceAfter(n int) CurriculumOption {
	return func(s *CurriculumService) {
		s.SetAdvanceAfter(n)
	}
}

func WithCurriculumPublisher(p event.Publisher) CurriculumOption {
	return func(s *CurriculumService) {
		s.Publisher = p
	}
}

func NewCurriculumService(
	pathRepo *repository.LearningPathRepository,
	questionRepo *repository.QuestionRepository,
	progressRepo *repository.ProgressRepository,
	opts ...CurriculumOption,
) *CurriculumService {
	s := &CurriculumService{
		PathRepo:     pathRepo,
		QuestionRepo: questionRepo,
		ProgressRepo: progressRepo,
		Publisher:    event.NoopPublisher{},
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CurriculumService) SetAdvanceAfter(n int) {
	if n < 0 {
		n = 0
	}
	s.advanceAfter.Store(int64(n))
}

func (s *CurriculumService) AdvanceAfter() int {
	return int(s.advanceAfter.Load())
}

// NextQuestion 从学习路径的科目中随机挑选一道当前等级、尚未答对过的题目
func (s *CurriculumService) NextQuestion(ctx context.Context, userID uint) (*model.Question, error) {
	ctx, span := tracing.Start(ctx, "curriculum.NextQuestion", attribute.Int64("user.id", int64(userID)))
	defer span.End()

	path, err := s.PathRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNoLearningPath
	}
	if err != nil {
		return nil, fmt.Errorf("load learning path: %w", err)
	}

	mastered, err := s.ProgressRepo.MasteredQuestionIDs(ctx, userID, path.ID)
	if err != nil {
		return nil, fmt.Errorf("load mastered questions: %w", err)
	}

	candidates, err := s.QuestionRepo.FindCandidates(ctx, path.SubjectIDs(), path.CurrentLevel, mastered)
	if err != nil {
		return nil, fmt.Errorf("load candidate questions: %w", err)
	}
	if len(candidates) == 0 {
		return nil, util.ErrNoQuestionsAvailable
	}

	q := candidates[s.intn(len(candidates))]
	span.SetAttributes(attribute.Int("candidates", len(candidates)), attribute.Int64("question.id", int64(q.ID)))
	return &q, nil
}

func (s *CurriculumService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// RecordOutcome 为有学习路径的用户追加一条进度记录，并按策略尝试升级。
// 用户没有学习路径时返回 nil, nil。
func (s *CurriculumService) RecordOutcome(ctx context.Context, userID, questionID uint, isCorrect bool) (*model.Progress, error) {
	path, err := s.PathRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load learning path: %w", err)
	}

	p := &model.Progress{
		UserID:         userID,
		LearningPathID: path.ID,
		QuestionID:     questionID,
		IsCorrect:      isCorrect,
		Level:          path.CurrentLevel,
	}
	if err := s.ProgressRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create progress: %w", err)
	}

	if isCorrect {
		if _, err := s.MaybeAdvance(ctx, path); err != nil {
			// 升级失败不影响本次答题
			logger.Log.Warn("学习路径升级失败", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return p, nil
}

// MaybeAdvance 最近 N 条进度都在当前等级且全部答对时升级，返回是否升级
func (s *CurriculumService) MaybeAdvance(ctx context.Context, path *model.LearningPath) (bool, error) {
	n := s.AdvanceAfter()
	if n <= 0 {
		return false, nil
	}

	next := model.NextLevel(path.CurrentLevel)
	if next == path.CurrentLevel {
		return false, nil
	}

	recent, err := s.ProgressRepo.RecentByPath(ctx, path.UserID, path.ID, n)
	if err != nil {
		return false, err
	}
	if len(recent) < n {
		return false, nil
	}
	for _, p := range recent {
		if !p.IsCorrect || p.Level != path.CurrentLevel {
			return false, nil
		}
	}

	if err := s.SetLevel(ctx, path, next); err != nil {
		return false, err
	}
	return true, nil
}

// SetLevel 修改学习路径等级；升级发布 level.advanced，降级或平移发布 level.changed
func (s *CurriculumService) SetLevel(ctx context.Context, path *model.LearningPath, level string) error {
	from := path.CurrentLevel
	if err := s.PathRepo.UpdateLevel(ctx, path.ID, level); err != nil {
		return err
	}
	path.CurrentLevel = level

	logger.Log.Info("学习路径等级变更",
		zap.Uint("user_id", path.UserID),
		zap.String("from", from),
		zap.String("to", level))

	typ := event.LevelChanged
	if model.LevelRank(level) > model.LevelRank(from) {
		typ = event.LevelAdvanced
	}
	err := s.Publisher.Publish(ctx, &event.Event{
		Type:       typ,
		UserID:     path.UserID,
		OccurredAt: time.Now(),
		Payload: map[string]interface{}{
			"learningPathId": path.ID,
			"from":           from,
			"to":             level,
		},
	})
	if err != nil {
		logger.Log.Warn("Failed to publish event", zap.String("type", string(typ)), zap.Error(err))
	}
	return nil
}
