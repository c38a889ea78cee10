package repository

import (
	"context"
	"testing"

	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChallenge_KeepsFirstOnConflict(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQARepository(db)
	ctx := context.Background()

	first, err := repo.CreateChallenge(ctx, &model.DailyChallenge{Date: "2026-03-01", Question: "first"})
	require.NoError(t, err)

	second, err := repo.CreateChallenge(ctx, &model.DailyChallenge{Date: "2026-03-01", Question: "second"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first", second.Question)
}

func TestLearningPathDelete_ReleasesUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLearningPathRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	s := testutil.CreateSubject(t, db, "Physics")
	lp := testutil.CreateLearningPath(t, db, user, "Easy", s)

	require.NoError(t, repo.Delete(ctx, lp.ID))
	_, err := repo.FindByUserID(ctx, user.ID)
	assert.Error(t, err)

	var links int64
	require.NoError(t, db.Table("learning_path_subjects").Count(&links).Error)
	assert.Zero(t, links)

	require.NoError(t, repo.Create(ctx, &model.LearningPath{UserID: user.ID, CurrentLevel: "Easy", Subjects: []model.Subject{*s}}))
}

func TestFindCandidates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()
	math := testutil.CreateSubject(t, db, "Mathematics")
	phys := testutil.CreateSubject(t, db, "Physics")
	q1 := testutil.CreateQuestion(t, db, math, model.Easy, "a")
	q2 := testutil.CreateQuestion(t, db, math, model.Easy, "b")
	testutil.CreateQuestion(t, db, math, model.Hard, "c")
	testutil.CreateQuestion(t, db, phys, model.Easy, "d")

	qs, err := repo.FindCandidates(ctx, []uint{math.ID}, "Easy", []uint{q1.ID})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, q2.ID, qs[0].ID)
	assert.Equal(t, "Mathematics", qs[0].Subject.Name)

	qs, err = repo.FindCandidates(ctx, nil, "Easy", nil)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestRecentByPath_NewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "bob")
	s := testutil.CreateSubject(t, db, "Physics")
	q := testutil.CreateQuestion(t, db, s, model.Easy, "q")
	lp := testutil.CreateLearningPath(t, db, user, "Easy", s)

	testutil.CreateProgress(t, db, lp, q, false)
	testutil.CreateProgress(t, db, lp, q, true)
	last := testutil.CreateProgress(t, db, lp, q, true)

	recent, err := repo.RecentByPath(ctx, user.ID, lp.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, last.ID, recent[0].ID)

	ids, err := repo.MasteredQuestionIDs(ctx, user.ID, lp.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{q.ID}, ids)
}

func TestQuestionList_TagIsMatchedLiterally(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()
	s := testutil.CreateSubject(t, db, "Chemistry")

	for text, tags := range map[string][]string{
		"underscore": {"a_b"},
		"letter":     {"axb"},
		"percent":    {"50%"},
		"digits":     {"500"},
	} {
		q := &model.Question{Text: text, SubjectID: s.ID, Difficulty: model.Easy, Tags: tags}
		require.NoError(t, db.Omit("Subject").Create(q).Error)
	}

	tests := []struct {
		tag  string
		want string
	}{
		{"a_b", "underscore"},
		{"axb", "letter"},
		{"50%", "percent"},
		{"500", "digits"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			qs, total, err := repo.List(ctx, QuestionFilter{Tag: tt.tag}, 1, 10)
			require.NoError(t, err)
			assert.EqualValues(t, 1, total)
			require.Len(t, qs, 1)
			assert.Equal(t, tt.want, qs[0].Text)
		})
	}
}

func TestListPersonalized_EmptySubjects(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQARepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.QAPair{UserID: 1, Question: "?", Subject: "Physics", GradeLevel: "9"}))

	list, err := repo.ListPersonalized(ctx, "9", nil, 10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	list, err = repo.ListPersonalized(ctx, "9", []string{"Physics"}, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
