package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stem_tutor_backend/internal/event"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/oracle"
	"stem_tutor_backend/internal/testutil"
	"stem_tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCorrectFeedback(t *testing.T) {
	tests := []struct {
		feedback string
		want     bool
	}{
		{"Correct! Good job.", true},
		{"You got it RIGHT", true},
		{"That is incorrect.", true}, // 关键字判断的已知缺陷
		{"Almost there, but check your units.", false},
		{"", false},
		{FallbackFeedback, false},
	}
	for _, tt := range tests {
		t.Run(tt.feedback, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrectFeedback(tt.feedback))
		})
	}
}

func TestSubmitAnswer_GeneratesExplanationAndPersists(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.DB, "alice")
	math := testutil.CreateSubject(t, env.DB, "Mathematics")
	q := testutil.CreateQuestion(t, env.DB, math, model.Easy, "What is 2+2?")

	env.Oracle.AddResponse(oracle.MockResponse{Text: "Addition combines quantities."})
	env.Oracle.AddResponse(oracle.MockResponse{Text: "Correct, 2+2 is 4."})

	res, err := env.Evaluation.SubmitAnswer(context.Background(), user.ID, q.ID, "4")
	require.NoError(t, err)

	assert.True(t, res.Verdict.IsCorrect)
	assert.Equal(t, "Correct, 2+2 is 4.", res.Verdict.Feedback)
	assert.Equal(t, "Addition combines quantities.", res.Verdict.Explanation)
	assert.Nil(t, res.Progress, "no learning path")

	require.Len(t, env.Oracle.Prompts, 2)
	assert.Equal(t, "Explain this Mathematics concept in a way that is easy to understand: 'What is 2+2?'", env.Oracle.Prompts[0])
	assert.Contains(t, env.Oracle.Prompts[1], "by a 9 grade student with a Visual learning style: '4'")

	stored, err := env.Questions.FindByID(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Addition combines quantities.", stored.Explanation)

	answer, err := env.Answers.FindByID(context.Background(), res.Answer.ID)
	require.NoError(t, err)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, "Correct, 2+2 is 4.", answer.Feedback)
	assert.Equal(t, "4", answer.Text)

	assert.Equal(t, []event.Type{event.AnswerEvaluated}, env.Events.Types())
}

func TestSubmitAnswer_KeepsExistingExplanation(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.DB, "bob")
	phys := testutil.CreateSubject(t, env.DB, "Physics")
	q := testutil.CreateQuestion(t, env.DB, phys, model.Easy, "What is inertia?")
	_, err := env.Questions.SetExplanationIfEmpty(context.Background(), q.ID, "Resistance to change in motion.")
	require.NoError(t, err)

	env.Oracle.AddResponse(oracle.MockResponse{Text: "Not quite."})

	res, err := env.Evaluation.SubmitAnswer(context.Background(), user.ID, q.ID, "mass")
	require.NoError(t, err)

	assert.Equal(t, 1, env.Oracle.CallCount(), "only the feedback call")
	assert.Equal(t, "Resistance to change in motion.", res.Verdict.Explanation)
	assert.False(t, res.Verdict.IsCorrect)
}

func TestSetExplanationIfEmpty_NeverOverwrites(t *testing.T) {
	env := newTestEnv(t)
	s := testutil.CreateSubject(t, env.DB, "Chemistry")
	q := testutil.CreateQuestion(t, env.DB, s, model.Easy, "What is H2O?")
	ctx := context.Background()

	written, err := env.Questions.SetExplanationIfEmpty(ctx, q.ID, "first")
	require.NoError(t, err)
	assert.True(t, written)

	written, err = env.Questions.SetExplanationIfEmpty(ctx, q.ID, "second")
	require.NoError(t, err)
	assert.False(t, written)

	stored, err := env.Questions.FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Explanation)
}

func TestSubmitAnswer_OracleFailureUsesFallback(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.DB, "carol")
	s := testutil.CreateSubject(t, env.DB, "Biology")
	q := testutil.CreateQuestion(t, env.DB, s, model.Easy, "What is a cell?")

	env.Oracle.AddResponse(oracle.MockResponse{Err: &oracle.ErrUnavailable{Err: errors.New("down")}})
	env.Oracle.AddResponse(oracle.MockResponse{Err: &oracle.ErrRateLimit{Err: errors.New("429")}})

	res, err := env.Evaluation.SubmitAnswer(context.Background(), user.ID, q.ID, "a unit of life")
	require.NoError(t, err)

	assert.False(t, res.Verdict.IsCorrect)
	assert.Equal(t, FallbackFeedback, res.Verdict.Feedback)
	assert.Empty(t, res.Verdict.Explanation)

	answer, err := env.Answers.FindByID(context.Background(), res.Answer.ID)
	require.NoError(t, err)
	assert.Equal(t, FallbackFeedback, answer.Feedback)
	assert.False(t, answer.IsCorrect)

	stored, err := env.Questions.FindByID(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Explanation, "failed explanation is not stored")
}

type blockingOracle struct{}

func (blockingOracle) Complete(ctx context.Context, _ string, _ int) (string, error) {
	<-ctx.Done()
	return "", &oracle.ErrUnavailable{Err: ctx.Err()}
}

func (blockingOracle) Name() string { return "blocking" }

func TestEvaluate_TimeoutFallsBack(t *testing.T) {
	env := newTestEnv(t)
	env.Evaluation.Oracle = blockingOracle{}
	env.Evaluation.SetTimeout(20 * time.Millisecond)

	user := testutil.CreateUser(t, env.DB, "dave")
	s := testutil.CreateSubject(t, env.DB, "Physics")
	q := testutil.CreateQuestion(t, env.DB, s, model.Easy, "What is g?")

	start := time.Now()
	v := env.Evaluation.Evaluate(context.Background(), q, user, "9.8")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, FallbackFeedback, v.Feedback)
	assert.False(t, v.IsCorrect)
}

func TestSubmitAnswer_Errors(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.DB, "erin")
	s := testutil.CreateSubject(t, env.DB, "Mathematics")
	q := testutil.CreateQuestion(t, env.DB, s, model.Easy, "1+1?")
	ctx := context.Background()

	_, err := env.Evaluation.SubmitAnswer(ctx, user.ID, q.ID, "   ")
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = env.Evaluation.SubmitAnswer(ctx, 999, q.ID, "2")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = env.Evaluation.SubmitAnswer(ctx, user.ID, 999, "2")
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	assert.Zero(t, env.Oracle.CallCount())
}

func TestSubmitAnswer_AppendsProgressWithLearningPath(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.DB, "frank")
	s := testutil.CreateSubject(t, env.DB, "Mathematics")
	q := testutil.CreateQuestion(t, env.DB, s, model.Easy, "3*3?")
	lp := testutil.CreateLearningPath(t, env.DB, user, "Easy", s)
	env.Oracle.Default = "That's right."

	res, err := env.Evaluation.SubmitAnswer(context.Background(), user.ID, q.ID, "9")
	require.NoError(t, err)
	require.NotNil(t, res.Progress)
	assert.Equal(t, lp.ID, res.Progress.LearningPathID)
	assert.Equal(t, q.ID, res.Progress.QuestionID)
	assert.True(t, res.Progress.IsCorrect)
	assert.Equal(t, "Easy", res.Progress.Level)

	mastered, err := env.Progress.MasteredQuestionIDs(context.Background(), user.ID, lp.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{q.ID}, mastered)
}

func TestBackfillExplanations(t *testing.T) {
	env := newTestEnv(t)
	s := testutil.CreateSubject(t, env.DB, "Physics")
	q1 := testutil.CreateQuestion(t, env.DB, s, model.Easy, "What is force?")
	q2 := testutil.CreateQuestion(t, env.DB, s, model.Easy, "What is mass?")
	q3 := testutil.CreateQuestion(t, env.DB, s, model.Easy, "What is energy?")
	_, err := env.Questions.SetExplanationIfEmpty(context.Background(), q3.ID, "already there")
	require.NoError(t, err)

	env.Oracle.AddResponse(oracle.MockResponse{Text: "push or pull"})
	env.Oracle.AddResponse(oracle.MockResponse{Err: &oracle.ErrUnavailable{}})

	filled, err := env.Evaluation.BackfillExplanations(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.Equal(t, 2, env.Oracle.CallCount())

	got1, _ := env.Questions.FindByID(context.Background(), q1.ID)
	got2, _ := env.Questions.FindByID(context.Background(), q2.ID)
	got3, _ := env.Questions.FindByID(context.Background(), q3.ID)
	assert.Equal(t, "push or pull", got1.Explanation)
	assert.Empty(t, got2.Explanation)
	assert.Equal(t, "already there", got3.Explanation)
}
