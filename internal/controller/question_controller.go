package controller

import (
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	StorageService  *service.StorageService
	ProgressService *service.ProgressService
}

func NewQuestionController(questionService *service.QuestionService, storageService *service.StorageService, progressService *service.ProgressService) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		StorageService:  storageService,
		ProgressService: progressService,
	}
}

// List godoc
// @Summary 题目列表
// @Tags 题目
// @Produce json
// @Param subject_id query int false "科目ID"
// @Param difficulty query string false "难度 Easy|Medium|Hard"
// @Param tag query string false "标签"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	filter := repository.QuestionFilter{
		SubjectID:  util.MustParseUint(ctx.Query("subject_id")),
		Difficulty: ctx.Query("difficulty"),
		Tag:        ctx.Query("tag"),
	}
	questions, total, err := c.QuestionService.List(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: questions, Total: total, Page: page, Limit: limit})
}

// BySubject GET /api/questions/by-subject?subject_id=
func (c *QuestionController) BySubject(ctx *gin.Context) {
	subjectID := util.MustParseUint(ctx.Query("subject_id"))
	if subjectID == 0 {
		util.BadRequest(ctx, "subject_id is required")
		return
	}
	questions, err := c.QuestionService.BySubject(ctx.Request.Context(), subjectID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	q, err := c.QuestionService.Get(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

func (c *QuestionController) Answers(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	page, limit := pageParams(ctx)
	answers, total, err := c.QuestionService.Answers(ctx.Request.Context(), id, page, limit)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: answers, Total: total, Page: page, Limit: limit})
}

func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.Create(ctx.Request.Context(), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

func (c *QuestionController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.QuestionService.Delete(ctx.Request.Context(), id); err != nil {
		handleError(ctx, err)
		return
	}
	// 已删除题目的答案不再计入排行榜
	c.ProgressService.InvalidateLeaderboard(ctx.Request.Context())
	util.Success(ctx, nil)
}

// UploadImage 上传题目配图，表单字段 file
func (c *QuestionController) UploadImage(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if _, err := c.QuestionService.Get(ctx.Request.Context(), id); err != nil {
		handleError(ctx, err)
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.StorageService.UploadImage(ctx.Request.Context(), "question_images", file)
	if err != nil {
		handleError(ctx, err)
		return
	}
	q, err := c.QuestionService.SetImage(ctx.Request.Context(), id, url)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}
