package service

import (
	"context"
	"testing"
	"time"

	"stem_tutor_backend/internal/config"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/testutil"
	"stem_tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterAndLogin(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	svc := NewAuthService(repository.NewUserRepository(db), cfg)
	ctx := context.Background()

	req := RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1", GradeLevel: "10"}
	user, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "secret1", user.Password)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	req.Email = "other@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	resp, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := util.ParseJWT(resp.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuth_LoginWithoutExpiryConfigUsesDefault(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	svc := NewAuthService(repository.NewUserRepository(db), cfg)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "secret1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "carol@example.com", "secret1")
	require.NoError(t, err)

	claims, err := util.ParseJWT(resp.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(defaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestUser_RoleChangeRequiresAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewSubjectRepository(db))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "bob")
	math := testutil.CreateSubject(t, db, "Mathematics")

	role := model.Teacher
	_, err := svc.UpdateUser(ctx, user.ID, UpdateUserRequest{Role: &role}, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	bio := "likes proofs"
	updated, err := svc.UpdateUser(ctx, user.ID, UpdateUserRequest{Bio: &bio, Role: &role, InterestIDs: []uint{math.ID, math.ID}}, true)
	require.NoError(t, err)
	assert.Equal(t, model.Teacher, updated.Role)

	got, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "likes proofs", got.Bio)
	require.Len(t, got.Interests, 1)
	assert.Equal(t, math.ID, got.Interests[0].ID)

	_, err = svc.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestSubject_DuplicateName(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubjectService(repository.NewSubjectRepository(db))
	ctx := context.Background()

	_, err := svc.Create(ctx, SubjectRequest{Name: "Physics"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, SubjectRequest{Name: "Physics"})
	assert.ErrorIs(t, err, util.ErrSubjectExists)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestQuestion_UpdateDoesNotOverwriteExplanation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewQuestionService(repository.NewQuestionRepository(db), repository.NewSubjectRepository(db), repository.NewAnswerRepository(db))
	ctx := context.Background()
	s := testutil.CreateSubject(t, db, "Mathematics")

	q, err := svc.Create(ctx, CreateQuestionRequest{Text: "2+2?", SubjectID: s.ID, Difficulty: "Easy", Explanation: "original"})
	require.NoError(t, err)

	text := "3+3?"
	other := "replacement"
	updated, err := svc.Update(ctx, q.ID, UpdateQuestionRequest{Text: &text, Explanation: &other})
	require.NoError(t, err)
	assert.Equal(t, "3+3?", updated.Text)
	assert.Equal(t, "original", updated.Explanation)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Explanation)

	bad := "Impossible"
	_, err = svc.Update(ctx, q.ID, UpdateQuestionRequest{Difficulty: &bad})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.Create(ctx, CreateQuestionRequest{Text: "?", SubjectID: 999, Difficulty: "Easy"})
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}
