package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func tokenFor(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	u := &model.User{Username: "u", Role: role}
	u.ID = id
	token, err := util.GenerateJWT(u, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func serve(r *gin.Engine, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/teach", AuthMiddleware(secret), RoleMiddleware(model.Teacher), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/teach", ""))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/teach", "garbage"))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/teach", tokenFor(t, 1, model.Student)))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/teach", tokenFor(t, 2, model.Teacher)))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/teach", tokenFor(t, 3, model.Admin)))
}

func TestSelfOrRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:id", AuthMiddleware(secret), SelfOrRole(model.Teacher), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name string
		path string
		id   uint
		role model.UserRole
		want int
	}{
		{"self", "/users/5", 5, model.Student, http.StatusOK},
		{"other student", "/users/6", 5, model.Student, http.StatusForbidden},
		{"teacher", "/users/6", 7, model.Teacher, http.StatusOK},
		{"admin", "/users/6", 8, model.Admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(r, http.MethodGet, tt.path, tokenFor(t, tt.id, tt.role)))
		})
	}
}

func TestReadOnlyOrAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ReadOnlyOrAuth(secret))
	handler := func(c *gin.Context) {
		if util.GetUserFromContext(c) != nil {
			c.Status(http.StatusAccepted)
			return
		}
		c.Status(http.StatusOK)
	}
	r.GET("/content", handler)
	r.POST("/content", handler)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/content", ""))
	assert.Equal(t, http.StatusAccepted, serve(r, http.MethodGet, "/content", tokenFor(t, 1, model.Student)))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/content", ""))
	assert.Equal(t, http.StatusAccepted, serve(r, http.MethodPost, "/content", tokenFor(t, 1, model.Student)))
}
