package controller

import (
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	EvaluationService *service.EvaluationService
	AnswerService     *service.AnswerService
	ProgressService   *service.ProgressService
}

func NewAnswerController(
	evaluationService *service.EvaluationService,
	answerService *service.AnswerService,
	progressService *service.ProgressService,
) *AnswerController {
	return &AnswerController{
		EvaluationService: evaluationService,
		AnswerService:     answerService,
		ProgressService:   progressService,
	}
}

// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

// Submit godoc
// @Summary 提交答案
// @Description 由 AI 给出反馈并判定对错；AI 不可用时返回默认反馈，答案仍会保存
// @Tags 答题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SubmitAnswerRequest true "答案"
// @Success 201 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/answers [post]
func (c *AnswerController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.EvaluationService.SubmitAnswer(ctx.Request.Context(), claims.UserID, req.QuestionID, req.Text)
	if err != nil {
		handleError(ctx, err)
		return
	}
	c.ProgressService.InvalidateLeaderboard(ctx.Request.Context())
	util.Created(ctx, result)
}

// List 学生只能看到自己的答案
func (c *AnswerController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := pageParams(ctx)

	filter := repository.AnswerFilter{
		UserID:     util.MustParseUint(ctx.Query("user_id")),
		QuestionID: util.MustParseUint(ctx.Query("question_id")),
	}
	if !isStaff(claims) {
		filter.UserID = claims.UserID
	}

	answers, total, err := c.AnswerService.List(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: answers, Total: total, Page: page, Limit: limit})
}

func (c *AnswerController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	answer, err := c.AnswerService.Get(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	claims := util.GetUserFromContext(ctx)
	if answer.UserID != claims.UserID && !isStaff(claims) {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, answer)
}

func (c *AnswerController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := c.AnswerService.Delete(ctx.Request.Context(), id, claims.UserID, isAdmin(claims)); err != nil {
		handleError(ctx, err)
		return
	}
	c.ProgressService.InvalidateLeaderboard(ctx.Request.Context())
	util.Success(ctx, nil)
}
