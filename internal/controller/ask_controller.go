package controller

import (
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AskController struct {
	AskService        *service.AskService
	OracleRequestRepo *repository.OracleRequestRepository
}

func NewAskController(askService *service.AskService, oracleRequestRepo *repository.OracleRequestRepository) *AskController {
	return &AskController{
		AskService:        askService,
		OracleRequestRepo: oracleRequestRepo,
	}
}

// Ask godoc
// @Summary 向 AI 提问
// @Description 回复按第一个空行拆分为答案和讲解并保存
// @Tags 问答
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AskRequest true "问题"
// @Success 201 {object} util.Response{data=model.QAPair}
// @Failure 503 {object} util.Response "AI 服务不可用"
// @Router /api/ask [post]
func (c *AskController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	qa, err := c.AskService.Ask(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, qa)
}

func (c *AskController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := pageParams(ctx)
	list, total, err := c.AskService.History(ctx.Request.Context(), claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

func (c *AskController) Feedback(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	qa, err := c.AskService.Feedback(ctx.Request.Context(), id, claims.UserID, *req.Helpful)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, qa)
}

// Personalized godoc
// @Summary 个性化问答推荐
// @Description 按用户年级和兴趣学科返回最近的问答
// @Tags 问答
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param limit query int false "数量" default(10)
// @Success 200 {object} util.Response{data=[]model.QAPair}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id}/personalized-questions [get]
func (c *AskController) Personalized(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	limit := util.ParseLimit(ctx.Query("limit"), 10, 100)
	list, err := c.AskService.Personalized(ctx.Request.Context(), id, limit)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// DailyChallenge GET /api/daily-challenge
func (c *AskController) DailyChallenge(ctx *gin.Context) {
	dc, err := c.AskService.DailyChallenge(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, dc)
}

// OracleRequests 管理员查看 AI 调用记录
func (c *AskController) OracleRequests(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), 50, 500)
	list, err := c.OracleRequestRepo.List(ctx.Request.Context(), ctx.Query("purpose"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
