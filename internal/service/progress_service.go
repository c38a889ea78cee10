package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"
	"stem_tutor_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100

	leaderboardCacheKey = "leaderboard:all"
)

// Summary 用户的答题汇总
type Summary struct {
	TotalQuestions  int      `json:"totalQuestions"`
	SubjectsCovered []string `json:"subjectsCovered"`
}

type LeaderboardEntry struct {
	UserID          uint   `json:"userId"`
	Username        string `json:"username"`
	GradeLevel      string `json:"gradeLevel"`
	TotalQuestions  int    `json:"totalQuestions"`
	SubjectsCovered int    `json:"subjectsCovered"`
}

// ProgressService 汇总答题记录并生成排行榜，同时管理手动录入的进度
type ProgressService struct {
	AnswerRepo   *repository.AnswerRepository
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	QuestionRepo *repository.QuestionRepository
	Curriculum   *CurriculumService
	Redis        *redis.Client

	cacheTTL atomic.Int64
}

func NewProgressService(
	answerRepo *repository.AnswerRepository,
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	questionRepo *repository.QuestionRepository,
	curriculum *CurriculumService,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *ProgressService {
	s := &ProgressService{
		AnswerRepo:   answerRepo,
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		QuestionRepo: questionRepo,
		Curriculum:   curriculum,
		Redis:        rdb,
	}
	s.SetCacheTTL(cacheTTL)
	return s
}

// SetCacheTTL 排行榜缓存时间，0 表示不缓存
func (s *ProgressService) SetCacheTTL(d time.Duration) {
	s.cacheTTL.Store(int64(d))
}

func (s *ProgressService) CacheTTL() time.Duration {
	return time.Duration(s.cacheTTL.Load())
}

// Summarize 统计用户的答题总数和涉及的科目
func (s *ProgressService) Summarize(ctx context.Context, userID uint) (*Summary, error) {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	rows, err := s.AnswerRepo.SubjectRows(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("load answer subjects: %w", err)
	}

	agg := aggregate(rows)[userID]
	if agg == nil {
		return &Summary{TotalQuestions: 0, SubjectsCovered: []string{}}, nil
	}
	return agg.summary(), nil
}

type userAggregate struct {
	total    int
	subjects map[uint]string
}

func (a *userAggregate) summary() *Summary {
	names := make([]string, 0, len(a.subjects))
	for _, name := range a.subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Summary{TotalQuestions: a.total, SubjectsCovered: names}
}

func aggregate(rows []repository.SubjectRow) map[uint]*userAggregate {
	out := make(map[uint]*userAggregate)
	for _, r := range rows {
		a, ok := out[r.UserID]
		if !ok {
			a = &userAggregate{subjects: make(map[uint]string)}
			out[r.UserID] = a
		}
		a.total++
		a.subjects[r.SubjectID] = r.SubjectName
	}
	return out
}

// Leaderboard 按答题总数降序、科目数降序、用户 ID 升序排名，取前 limit 名
func (s *ProgressService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	entries, ok := s.cachedLeaderboard(ctx)
	if !ok {
		var err error
		entries, err = s.buildLeaderboard(ctx)
		if err != nil {
			return nil, err
		}
		s.storeLeaderboard(ctx, entries)
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *ProgressService) buildLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := s.UserRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	rows, err := s.AnswerRepo.SubjectRows(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load answer subjects: %w", err)
	}
	aggs := aggregate(rows)

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		e := LeaderboardEntry{UserID: u.ID, Username: u.Username, GradeLevel: u.GradeLevel}
		if a := aggs[u.ID]; a != nil {
			e.TotalQuestions = a.total
			e.SubjectsCovered = len(a.subjects)
		}
		entries = append(entries, e)
	}
	SortLeaderboard(entries)
	return entries, nil
}

// SortLeaderboard 排行榜排序规则
func SortLeaderboard(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalQuestions != b.TotalQuestions {
			return a.TotalQuestions > b.TotalQuestions
		}
		if a.SubjectsCovered != b.SubjectsCovered {
			return a.SubjectsCovered > b.SubjectsCovered
		}
		return a.UserID < b.UserID
	})
}

func (s *ProgressService) cachedLeaderboard(ctx context.Context) ([]LeaderboardEntry, bool) {
	if s.Redis == nil || s.CacheTTL() <= 0 {
		return nil, false
	}
	val, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		logger.Log.Warn("读取排行榜缓存失败", zap.Error(err))
		return nil, false
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *ProgressService) storeLeaderboard(ctx context.Context, entries []LeaderboardEntry) {
	ttl := s.CacheTTL()
	if s.Redis == nil || ttl <= 0 {
		return
	}
	val, _ := json.Marshal(entries)
	if err := s.Redis.Set(ctx, leaderboardCacheKey, val, ttl).Err(); err != nil {
		logger.Log.Warn("写入排行榜缓存失败", zap.Error(err))
	}
}

// InvalidateLeaderboard 新答案写入后清除缓存
func (s *ProgressService) InvalidateLeaderboard(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, leaderboardCacheKey)
}

type CreateProgressRequest struct {
	UserID     uint `json:"userId"`
	QuestionID uint `json:"questionId" binding:"required"`
	IsCorrect  bool `json:"isCorrect"`
}

// CreateProgress 手动录入一条进度，需要用户已有学习路径
func (s *ProgressService) CreateProgress(ctx context.Context, req CreateProgressRequest) (*model.Progress, error) {
	if _, err := s.QuestionRepo.FindByID(ctx, req.QuestionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	p, err := s.Curriculum.RecordOutcome(ctx, req.UserID, req.QuestionID, req.IsCorrect)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, util.ErrNoLearningPath
	}
	return p, nil
}

func (s *ProgressService) GetProgress(ctx context.Context, id uint) (*model.Progress, error) {
	p, err := s.ProgressRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return p, err
}

func (s *ProgressService) ListProgress(ctx context.Context, f repository.ProgressFilter, page, limit int) ([]model.Progress, int64, error) {
	return s.ProgressRepo.List(ctx, f, page, limit)
}
