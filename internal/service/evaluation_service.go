package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"stem_tutor_backend/internal/event"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/oracle"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/util"
	"stem_tutor_backend/pkg/logger"
	"stem_tutor_backend/pkg/monitoring"
	"stem_tutor_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FallbackFeedback 在 AI 不可用时作为反馈写入答案
const FallbackFeedback = "Error getting response from the AI. Please try again later."

const (
	defaultOracleTimeout = 30 * time.Second
	defaultMaxTokens     = 300
	explanationMaxTokens = 150
)

// Verdict 一次答题评估的结果
type Verdict struct {
	IsCorrect   bool   `json:"isCorrect"`
	Feedback    string `json:"feedback"`
	Explanation string `json:"explanation,omitempty"`
}

// AnswerResult 提交答案后返回给客户端的内容
type AnswerResult struct {
	Answer   *model.Answer   `json:"answer"`
	Verdict  Verdict         `json:"verdict"`
	Progress *model.Progress `json:"progress,omitempty"`
}

type EvaluationService struct {
	Oracle       oracle.Oracle
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRepository
	UserRepo     *repository.UserRepository
	Curriculum   *CurriculumService
	Publisher    event.Publisher

	timeout   atomic.Int64
	maxTokens int
}

func NewEvaluationService(
	o oracle.Oracle,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	userRepo *repository.UserRepository,
	curriculum *CurriculumService,
	publisher event.Publisher,
	timeout time.Duration,
	maxTokens int,
) *EvaluationService {
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	s := &EvaluationService{
		Oracle:       o,
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		UserRepo:     userRepo,
		Curriculum:   curriculum,
		Publisher:    publisher,
		maxTokens:    maxTokens,
	}
	s.SetTimeout(timeout)
	return s
}

// SetTimeout 修改单次 AI 调用超时，配置热更新时调用
func (s *EvaluationService) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = defaultOracleTimeout
	}
	s.timeout.Store(int64(d))
}

func (s *EvaluationService) Timeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

func explanationPrompt(q *model.Question) string {
	return fmt.Sprintf("Explain this %s concept in a way that is easy to understand: '%s'", q.Subject.Name, q.Text)
}

func feedbackPrompt(q *model.Question, learner *model.User, answerText string) string {
	return fmt.Sprintf(
		"Evaluate this answer for the question '%s' by a %s grade student with a %s learning style: '%s'. "+
			"Provide detailed feedback explaining why it is correct or incorrect, "+
			"and suggest improvements or additional information if applicable.",
		q.Text, learner.GradeLevel, learner.LearningStyle, answerText)
}

// IsCorrectFeedback 反馈中出现 "correct" 或 "right"（不区分大小写）即视为答对。
// 这是粗略的关键字判断："incorrect" 同样会命中。
func IsCorrectFeedback(feedback string) bool {
	lower := strings.ToLower(feedback)
	return strings.Contains(lower, "correct") || strings.Contains(lower, "right")
}

func (s *EvaluationService) complete(ctx context.Context, purpose, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(oracle.WithPurpose(ctx, purpose), s.Timeout())
	defer cancel()
	return s.Oracle.Complete(ctx, prompt, maxTokens)
}

// Evaluate 补全题目讲解（如缺失）并让 AI 评价答案。AI 失败不会返回错误。
func (s *EvaluationService) Evaluate(ctx context.Context, q *model.Question, learner *model.User, answerText string) Verdict {
	ctx, span := tracing.Start(ctx, "evaluation.Evaluate",
		attribute.Int64("question.id", int64(q.ID)),
		attribute.Int64("user.id", int64(learner.ID)))
	defer span.End()

	var v Verdict
	v.Explanation = s.ensureExplanation(ctx, q)

	feedback, err := s.complete(ctx, oracle.PurposeFeedback, feedbackPrompt(q, learner, answerText), s.maxTokens)
	if err != nil {
		logger.Log.Warn("AI反馈获取失败，使用默认反馈",
			zap.Uint("question_id", q.ID),
			zap.Uint("user_id", learner.ID),
			zap.Error(err))
		feedback = FallbackFeedback
	}
	v.Feedback = feedback
	v.IsCorrect = IsCorrectFeedback(feedback)

	verdict := "incorrect"
	if v.IsCorrect {
		verdict = "correct"
	}
	monitoring.AnswersEvaluated.WithLabelValues(verdict).Inc()
	span.SetAttributes(attribute.Bool("answer.correct", v.IsCorrect))
	return v
}

// ensureExplanation 返回题目讲解，为空时向 AI 请求并以条件更新写回
func (s *EvaluationService) ensureExplanation(ctx context.Context, q *model.Question) string {
	if q.Explanation != "" {
		return q.Explanation
	}

	text, err := s.complete(ctx, oracle.PurposeExplanation, explanationPrompt(q), explanationMaxTokens)
	if err != nil {
		logger.Log.Warn("AI讲解生成失败", zap.Uint("question_id", q.ID), zap.Error(err))
		return ""
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	written, err := s.QuestionRepo.SetExplanationIfEmpty(ctx, q.ID, text)
	if err != nil {
		logger.Log.Warn("保存题目讲解失败", zap.Uint("question_id", q.ID), zap.Error(err))
		return text
	}
	if written {
		q.Explanation = text
		return text
	}

	// 并发请求已先写入讲解，以已存储的为准
	stored, err := s.QuestionRepo.FindByID(ctx, q.ID)
	if err == nil && stored.Explanation != "" {
		q.Explanation = stored.Explanation
		return stored.Explanation
	}
	return text
}

// SubmitAnswer 评估并保存答案；用户有学习路径时同时追加进度记录
func (s *EvaluationService) SubmitAnswer(ctx context.Context, userID, questionID uint, text string) (*AnswerResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: answer text is required", util.ErrValidation)
	}

	learner, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	q, err := s.QuestionRepo.FindByID(ctx, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	v := s.Evaluate(ctx, q, learner, text)

	answer := &model.Answer{
		QuestionID: q.ID,
		UserID:     learner.ID,
		Text:       text,
		IsCorrect:  v.IsCorrect,
		Feedback:   v.Feedback,
	}
	if err := s.AnswerRepo.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}

	result := &AnswerResult{Answer: answer, Verdict: v}

	if s.Curriculum != nil {
		p, err := s.Curriculum.RecordOutcome(ctx, learner.ID, q.ID, v.IsCorrect)
		if err != nil {
			logger.Log.Warn("记录学习进度失败", zap.Uint("answer_id", answer.ID), zap.Error(err))
		}
		result.Progress = p
	}

	logger.Log.Info("Answer evaluated",
		zap.Uint("answer_id", answer.ID),
		zap.Uint("user_id", learner.ID),
		zap.Uint("question_id", q.ID),
		zap.Bool("is_correct", v.IsCorrect))

	err = s.Publisher.Publish(ctx, &event.Event{
		Type:       event.AnswerEvaluated,
		UserID:     learner.ID,
		OccurredAt: answer.CreatedAt,
		Payload: map[string]interface{}{
			"answerId":   answer.ID,
			"questionId": q.ID,
			"isCorrect":  v.IsCorrect,
		},
	})
	if err != nil {
		logger.Log.Warn("Failed to publish event", zap.String("type", string(event.AnswerEvaluated)), zap.Error(err))
	}

	return result, nil
}

// BackfillExplanations 为讲解为空的题目批量生成讲解，返回成功写入的数量。
// pause 为两次 AI 调用之间的间隔，避免触发限流。
func (s *EvaluationService) BackfillExplanations(ctx context.Context, limit int, pause time.Duration) (int, error) {
	qs, err := s.QuestionRepo.FindMissingExplanation(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("load questions without explanation: %w", err)
	}
	if len(qs) == 0 {
		return 0, nil
	}

	logger.Log.Info("开始补全题目讲解", zap.Int("count", len(qs)))

	filled := 0
	for i := range qs {
		if err := ctx.Err(); err != nil {
			return filled, err
		}
		if s.ensureExplanation(ctx, &qs[i]) != "" {
			filled++
		}
		if pause > 0 && i < len(qs)-1 {
			select {
			case <-ctx.Done():
				return filled, ctx.Err()
			case <-time.After(pause):
			}
		}
	}

	logger.Log.Info("题目讲解补全完成", zap.Int("filled", filled), zap.Int("total", len(qs)))
	return filled, nil
}
