package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/oracle"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/testutil"
	"stem_tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAnswer(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		answer      string
		explanation string
	}{
		{"answer only", "42", "42", ""},
		{"answer and explanation", "42\n\nBecause 6*7.", "42", "Because 6*7."},
		{"extra paragraphs", " A \n\nB\n\nC ", "A", "B\n\nC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, e := SplitAnswer(tt.reply)
			assert.Equal(t, tt.answer, a)
			assert.Equal(t, tt.explanation, e)
		})
	}
}

func newAskService(t *testing.T) (*AskService, *oracle.MockOracle) {
	t.Helper()
	db := testutil.NewDB(t)
	mock := oracle.NewMockOracle()
	return NewAskService(mock, repository.NewQARepository(db), repository.NewUserRepository(db), time.Second, 0), mock
}

func TestAsk(t *testing.T) {
	svc, mock := newAskService(t)
	mock.AddResponse(oracle.MockResponse{Text: "Photosynthesis.\n\nPlants turn light into sugar."})

	qa, err := svc.Ask(context.Background(), 7, AskRequest{Text: "How do plants eat?", Subject: "Biology"})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis.", qa.Answer)
	assert.Equal(t, "Plants turn light into sugar.", qa.Explanation)
	assert.Equal(t, "Question: How do plants eat?\nProvide a concise answer and a brief explanation.", mock.Prompts[0])

	history, total, err := svc.History(context.Background(), 7, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, history, 1)
	assert.Equal(t, qa.ID, history[0].ID)
}

func TestAsk_OracleFailure(t *testing.T) {
	svc, mock := newAskService(t)
	mock.AddResponse(oracle.MockResponse{Err: &oracle.ErrRateLimit{Err: errors.New("429")}})

	_, err := svc.Ask(context.Background(), 7, AskRequest{Text: "?"})
	var rl *oracle.ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	_, total, err := svc.History(context.Background(), 7, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestFeedback_OwnerOnly(t *testing.T) {
	svc, mock := newAskService(t)
	mock.Default = "answer"
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	qa, err := svc.Ask(context.Background(), 1, AskRequest{Text: "?"})
	require.NoError(t, err)

	_, err = svc.Feedback(context.Background(), qa.ID, 2, true)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.Feedback(context.Background(), 999, 1, true)
	assert.ErrorIs(t, err, util.ErrNotFound)

	got, err := svc.Feedback(context.Background(), qa.ID, 1, false)
	require.NoError(t, err)
	require.NotNil(t, got.Helpful)
	assert.False(t, *got.Helpful)
	assert.Equal(t, fixed, *got.FeedbackTimestamp)
}

func TestDailyChallenge_GeneratedOncePerDay(t *testing.T) {
	svc, mock := newAskService(t)
	day := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	mock.AddResponse(oracle.MockResponse{Text: "What is the derivative of x^3?"})
	mock.AddResponse(oracle.MockResponse{Text: "Name the noble gases."})

	first, err := svc.DailyChallenge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", first.Date)
	assert.Equal(t, "What is the derivative of x^3?", first.Question)

	again, err := svc.DailyChallenge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, mock.CallCount())

	day = day.Add(24 * time.Hour)
	next, err := svc.DailyChallenge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", next.Date)
	assert.Equal(t, "Name the noble gases.", next.Question)
}

func TestPersonalized_MatchesGradeAndInterests(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAskService(oracle.NewMockOracle(), repository.NewQARepository(db), repository.NewUserRepository(db), time.Second, 0)
	ctx := context.Background()

	physics := testutil.CreateSubject(t, db, "Physics")
	chemistry := testutil.CreateSubject(t, db, "Chemistry")
	user := testutil.CreateUser(t, db, "dana", func(u *model.User) {
		u.GradeLevel = "10"
		u.Interests = []model.Subject{*physics, *chemistry}
	})
	idle := testutil.CreateUser(t, db, "eve")

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	seed := []struct {
		text, subject, grade string
	}{
		{"old physics", "Physics", "10"},
		{"chemistry", "Chemistry", "10"},
		{"wrong grade", "Physics", "11"},
		{"wrong subject", "Biology", "10"},
		{"new physics", "Physics", "10"},
	}
	for i, s := range seed {
		qa := &model.QAPair{UserID: idle.ID, Question: s.text, Subject: s.subject, GradeLevel: s.grade}
		qa.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Create(qa).Error)
	}

	list, err := svc.Personalized(ctx, user.ID, 10)
	require.NoError(t, err)
	var texts []string
	for _, qa := range list {
		texts = append(texts, qa.Question)
	}
	assert.Equal(t, []string{"new physics", "chemistry", "old physics"}, texts)

	list, err = svc.Personalized(ctx, user.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new physics", list[0].Question)

	// 没有兴趣学科
	list, err = svc.Personalized(ctx, idle.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Personalized(ctx, 999, 10)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
