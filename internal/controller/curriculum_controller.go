package controller

import (
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CurriculumController struct {
	CurriculumService *service.CurriculumService
}

func NewCurriculumController(curriculumService *service.CurriculumService) *CurriculumController {
	return &CurriculumController{CurriculumService: curriculumService}
}

// NextQuestion godoc
// @Summary 获取下一道题
// @Description 从学习路径的科目中随机选择当前等级下尚未答对的题目
// @Tags 学习路径
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "没有学习路径或没有可用题目"
// @Router /api/questions/next [get]
func (c *CurriculumController) NextQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	c.nextQuestion(ctx, claims.UserID)
}

// NextQuestionForUser GET /api/users/:id/next-question
func (c *CurriculumController) NextQuestionForUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	c.nextQuestion(ctx, id)
}

func (c *CurriculumController) nextQuestion(ctx *gin.Context, userID uint) {
	q, err := c.CurriculumService.NextQuestion(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}
