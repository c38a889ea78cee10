package controller

import (
	"errors"
	"net/http"
	"strconv"

	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/oracle"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseID 读取路径参数中的 ID，非法时直接写 400
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

func pageParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit := util.ParseLimit(ctx.Query("limit"), defaultPageSize, maxPageSize)
	return page, limit
}

func isAdmin(claims *util.Claims) bool {
	return claims != nil && claims.Role == model.Admin
}

func isStaff(claims *util.Claims) bool {
	return claims != nil && (claims.Role == model.Admin || claims.Role == model.Teacher)
}

// handleError 在 util.HandleError 基础上把 AI 不可用映射为 503
func handleError(ctx *gin.Context, err error) {
	var unavailable *oracle.ErrUnavailable
	var rateLimited *oracle.ErrRateLimit
	switch {
	case errors.As(err, &rateLimited):
		util.Error(ctx, http.StatusTooManyRequests, "AI service is busy, please try again later")
	case errors.As(err, &unavailable), errors.Is(err, oracle.ErrEmptyCompletion):
		util.Error(ctx, http.StatusServiceUnavailable, "AI service unavailable")
	default:
		util.HandleError(ctx, err)
	}
}
