// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"

	"stem_tutor_backend/internal/config"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/pkg/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database that lives for the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dialector, err := database.Dialector(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Discard, TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 每个连接都是独立的内存库，只保留一个
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewRedis starts an in-process redis server and returns a client for it.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func CreateUser(t *testing.T, db *gorm.DB, username string, opts ...func(*model.User)) *model.User {
	t.Helper()
	u := &model.User{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "x",
		Role:          model.Student,
		GradeLevel:    "9",
		LearningStyle: "Visual",
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateSubject(t *testing.T, db *gorm.DB, name string) *model.Subject {
	t.Helper()
	s := &model.Subject{Name: name}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateQuestion(t *testing.T, db *gorm.DB, subject *model.Subject, difficulty model.Difficulty, text string) *model.Question {
	t.Helper()
	q := &model.Question{Text: text, SubjectID: subject.ID, Difficulty: difficulty}
	require.NoError(t, db.Omit("Subject").Create(q).Error)
	q.Subject = *subject
	return q
}

func CreateLearningPath(t *testing.T, db *gorm.DB, user *model.User, level string, subjects ...*model.Subject) *model.LearningPath {
	t.Helper()
	lp := &model.LearningPath{UserID: user.ID, CurrentLevel: level}
	for _, s := range subjects {
		lp.Subjects = append(lp.Subjects, *s)
	}
	require.NoError(t, db.Create(lp).Error)
	return lp
}

func CreateAnswer(t *testing.T, db *gorm.DB, user *model.User, question *model.Question, correct bool) *model.Answer {
	t.Helper()
	a := &model.Answer{UserID: user.ID, QuestionID: question.ID, Text: "answer", IsCorrect: correct}
	require.NoError(t, db.Omit("Question").Create(a).Error)
	return a
}

func CreateProgress(t *testing.T, db *gorm.DB, lp *model.LearningPath, question *model.Question, correct bool) *model.Progress {
	t.Helper()
	p := &model.Progress{
		UserID:         lp.UserID,
		LearningPathID: lp.ID,
		QuestionID:     question.ID,
		IsCorrect:      correct,
		Level:          lp.CurrentLevel,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
