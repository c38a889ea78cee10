package controller

import (
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Summary godoc
// @Summary 当前用户的学习汇总
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Summary}
// @Router /api/progress/summary [get]
func (c *ProgressController) Summary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	c.summary(ctx, claims.UserID)
}

// UserSummary GET /api/users/:id/progress-summary
func (c *ProgressController) UserSummary(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	c.summary(ctx, id)
}

func (c *ProgressController) summary(ctx *gin.Context, userID uint) {
	summary, err := c.ProgressService.Summarize(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// Leaderboard godoc
// @Summary 排行榜
// @Tags 进度
// @Produce json
// @Param limit query int false "数量，默认 10"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *ProgressController) Leaderboard(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), service.DefaultLeaderboardLimit, service.MaxLeaderboardLimit)
	entries, err := c.ProgressService.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Create 手动录入进度；教师可以替其他学生录入
func (c *ProgressController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.CreateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.UserID == 0 || !isStaff(claims) {
		req.UserID = claims.UserID
	}

	p, err := c.ProgressService.CreateProgress(ctx.Request.Context(), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

func (c *ProgressController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := pageParams(ctx)
	filter := repository.ProgressFilter{
		UserID:         util.MustParseUint(ctx.Query("user_id")),
		LearningPathID: util.MustParseUint(ctx.Query("learning_path_id")),
	}
	if !isStaff(claims) {
		filter.UserID = claims.UserID
	}

	list, total, err := c.ProgressService.ListProgress(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

func (c *ProgressController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	p, err := c.ProgressService.GetProgress(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	claims := util.GetUserFromContext(ctx)
	if p.UserID != claims.UserID && !isStaff(claims) {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, p)
}
