package service

import (
	"math/rand"
	"testing"
	"time"

	"stem_tutor_backend/internal/event"
	"stem_tutor_backend/internal/oracle"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/testutil"

	"gorm.io/gorm"
)

type testEnv struct {
	DB        *gorm.DB
	Oracle    *oracle.MockOracle
	Events    *event.RecordingPublisher
	Questions *repository.QuestionRepository
	Answers   *repository.AnswerRepository
	Users     *repository.UserRepository
	Paths     *repository.LearningPathRepository
	Progress  *repository.ProgressRepository

	Curriculum *CurriculumService
	Evaluation *EvaluationService
	Summary    *ProgressService
}

func newTestEnv(t *testing.T, opts ...CurriculumOption) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	env := &testEnv{
		DB:        db,
		Oracle:    oracle.NewMockOracle(),
		Events:    &event.RecordingPublisher{},
		Questions: repository.NewQuestionRepository(db),
		Answers:   repository.NewAnswerRepository(db),
		Users:     repository.NewUserRepository(db),
		Paths:     repository.NewLearningPathRepository(db),
		Progress:  repository.NewProgressRepository(db),
	}

	opts = append([]CurriculumOption{
		WithRandSource(rand.NewSource(1)),
		WithCurriculumPublisher(env.Events),
	}, opts...)
	env.Curriculum = NewCurriculumService(env.Paths, env.Questions, env.Progress, opts...)
	env.Evaluation = NewEvaluationService(env.Oracle, env.Questions, env.Answers, env.Users,
		env.Curriculum, env.Events, time.Second, 0)
	env.Summary = NewProgressService(env.Answers, env.Users, env.Progress, env.Questions,
		env.Curriculum, nil, 0)
	return env
}
