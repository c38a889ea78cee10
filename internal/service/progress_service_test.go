package service

import (
	"context"
	"testing"
	"time"

	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/testutil"
	"stem_tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_NoHistory(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.DB, "alice")

	sum, err := env.Summary.Summarize(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.TotalQuestions)
	assert.NotNil(t, sum.SubjectsCovered)
	assert.Empty(t, sum.SubjectsCovered)
}

func TestSummarize_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Summary.Summarize(context.Background(), 42)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestSummarize_CountsAnswersAndDistinctSubjects(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.DB, "bob")
	other := testutil.CreateUser(t, env.DB, "carol")
	phys := testutil.CreateSubject(t, env.DB, "Physics")
	math := testutil.CreateSubject(t, env.DB, "Mathematics")
	q1 := testutil.CreateQuestion(t, env.DB, phys, model.Easy, "p1")
	q2 := testutil.CreateQuestion(t, env.DB, math, model.Easy, "m1")

	// 同一题重复作答也计数
	testutil.CreateAnswer(t, env.DB, user, q1, true)
	testutil.CreateAnswer(t, env.DB, user, q1, false)
	testutil.CreateAnswer(t, env.DB, user, q2, false)
	testutil.CreateAnswer(t, env.DB, other, q2, true)

	sum, err := env.Summary.Summarize(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalQuestions)
	assert.Equal(t, []string{"Mathematics", "Physics"}, sum.SubjectsCovered)
}

func TestLeaderboard_OrderingAndLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	math := testutil.CreateSubject(t, env.DB, "Mathematics")
	phys := testutil.CreateSubject(t, env.DB, "Physics")
	qm := testutil.CreateQuestion(t, env.DB, math, model.Easy, "m")
	qp := testutil.CreateQuestion(t, env.DB, phys, model.Easy, "p")

	// 先建 third，使 ID 顺序与期望名次不同
	third := testutil.CreateUser(t, env.DB, "third")
	second := testutil.CreateUser(t, env.DB, "second")
	first := testutil.CreateUser(t, env.DB, "first")
	idle := testutil.CreateUser(t, env.DB, "idle")

	for i := 0; i < 5; i++ {
		testutil.CreateAnswer(t, env.DB, first, qm, true)
	}
	testutil.CreateAnswer(t, env.DB, second, qm, true)
	testutil.CreateAnswer(t, env.DB, second, qm, true)
	testutil.CreateAnswer(t, env.DB, second, qp, true)
	for i := 0; i < 3; i++ {
		testutil.CreateAnswer(t, env.DB, third, qm, false)
	}

	top, err := env.Summary.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "first", top[0].Username)
	assert.Equal(t, 5, top[0].TotalQuestions)
	assert.Equal(t, 1, top[0].SubjectsCovered)
	assert.Equal(t, "second", top[1].Username)
	assert.Equal(t, 3, top[1].TotalQuestions)
	assert.Equal(t, 2, top[1].SubjectsCovered)

	all, err := env.Summary.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "third", all[2].Username)
	assert.Equal(t, idle.ID, all[3].UserID)
	assert.Zero(t, all[3].TotalQuestions)
}

func TestSortLeaderboard_TieBreaksOnUserID(t *testing.T) {
	entries := []LeaderboardEntry{
		{UserID: 3, TotalQuestions: 2, SubjectsCovered: 1},
		{UserID: 1, TotalQuestions: 2, SubjectsCovered: 1},
		{UserID: 2, TotalQuestions: 2, SubjectsCovered: 2},
		{UserID: 4, TotalQuestions: 7, SubjectsCovered: 1},
	}
	SortLeaderboard(entries)

	var ids []uint
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	assert.Equal(t, []uint{4, 2, 1, 3}, ids)
}

func TestLeaderboard_IgnoresDeletedQuestions(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.DB, "dave")
	s := testutil.CreateSubject(t, env.DB, "Biology")
	q := testutil.CreateQuestion(t, env.DB, s, model.Easy, "cell?")
	testutil.CreateAnswer(t, env.DB, user, q, true)
	require.NoError(t, env.Questions.Delete(context.Background(), q.ID))

	sum, err := env.Summary.Summarize(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.TotalQuestions)
}

func TestCreateProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.DB, "erin")
	s := testutil.CreateSubject(t, env.DB, "Physics")
	q := testutil.CreateQuestion(t, env.DB, s, model.Easy, "v=d/t?")

	_, err := env.Summary.CreateProgress(ctx, CreateProgressRequest{UserID: user.ID, QuestionID: 999})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	_, err = env.Summary.CreateProgress(ctx, CreateProgressRequest{UserID: user.ID, QuestionID: q.ID})
	assert.ErrorIs(t, err, util.ErrNoLearningPath)

	lp := testutil.CreateLearningPath(t, env.DB, user, "Easy", s)
	p, err := env.Summary.CreateProgress(ctx, CreateProgressRequest{UserID: user.ID, QuestionID: q.ID, IsCorrect: true})
	require.NoError(t, err)
	assert.Equal(t, lp.ID, p.LearningPathID)

	got, err := env.Summary.GetProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCorrect)

	_, err = env.Summary.GetProgress(ctx, 999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestLeaderboard_RedisCache(t *testing.T) {
	env := newTestEnv(t)
	rdb, mr := testutil.NewRedis(t)
	svc := NewProgressService(env.Answers, env.Users, env.Progress, env.Questions, env.Curriculum, rdb, time.Minute)
	ctx := context.Background()

	math := testutil.CreateSubject(t, env.DB, "Mathematics")
	q := testutil.CreateQuestion(t, env.DB, math, model.Easy, "1+1?")
	alice := testutil.CreateUser(t, env.DB, "alice")
	testutil.CreateAnswer(t, env.DB, alice, q, true)

	board, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.True(t, mr.Exists(leaderboardCacheKey))
	assert.Equal(t, time.Minute, mr.TTL(leaderboardCacheKey))

	// 缓存命中时看不到新用户
	testutil.CreateUser(t, env.DB, "bob")
	board, err = svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, board, 1)

	svc.InvalidateLeaderboard(ctx)
	assert.False(t, mr.Exists(leaderboardCacheKey))
	board, err = svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, alice.ID, board[0].UserID)

	// limit 只截断返回值，缓存保留完整排名
	board, err = svc.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, board, 1)
	board, err = svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, board, 2)
}

func TestLeaderboard_CacheDisabledOrDown(t *testing.T) {
	env := newTestEnv(t)
	rdb, mr := testutil.NewRedis(t)
	svc := NewProgressService(env.Answers, env.Users, env.Progress, env.Questions, env.Curriculum, rdb, 0)
	ctx := context.Background()
	testutil.CreateUser(t, env.DB, "alice")

	_, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.False(t, mr.Exists(leaderboardCacheKey))

	// redis 不可用时直接查库
	svc.SetCacheTTL(time.Minute)
	mr.Close()
	board, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, board, 1)
}
