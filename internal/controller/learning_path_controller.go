package controller

import (
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	LearningPathService *service.LearningPathService
}

func NewLearningPathController(learningPathService *service.LearningPathService) *LearningPathController {
	return &LearningPathController{LearningPathService: learningPathService}
}

// Create POST /api/learning-paths，学生只能为自己创建
func (c *LearningPathController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.CreateLearningPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.UserID == 0 || !isStaff(claims) {
		req.UserID = claims.UserID
	}
	c.create(ctx, req)
}

// CreateForUser godoc
// @Summary 为用户创建学习路径
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param body body service.CreateLearningPathRequest true "科目与等级"
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Failure 409 {object} util.Response "已存在学习路径"
// @Router /api/users/{id}/learning-path [post]
func (c *LearningPathController) CreateForUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.CreateLearningPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.UserID = id
	c.create(ctx, req)
}

func (c *LearningPathController) create(ctx *gin.Context, req service.CreateLearningPathRequest) {
	lp, err := c.LearningPathService.Create(ctx.Request.Context(), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, lp)
}

func (c *LearningPathController) List(ctx *gin.Context) {
	paths, err := c.LearningPathService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// owned 加载路径并校验访问权限
func (c *LearningPathController) owned(ctx *gin.Context) (*model.LearningPath, bool) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return nil, false
	}
	lp, err := c.LearningPathService.Get(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return nil, false
	}
	claims := util.GetUserFromContext(ctx)
	if lp.UserID != claims.UserID && !isStaff(claims) {
		util.Forbidden(ctx)
		return nil, false
	}
	return lp, true
}

func (c *LearningPathController) Get(ctx *gin.Context) {
	lp, ok := c.owned(ctx)
	if !ok {
		return
	}
	util.Success(ctx, lp)
}

func (c *LearningPathController) Update(ctx *gin.Context) {
	lp, ok := c.owned(ctx)
	if !ok {
		return
	}
	c.update(ctx, lp)
}

func (c *LearningPathController) Delete(ctx *gin.Context) {
	lp, ok := c.owned(ctx)
	if !ok {
		return
	}
	if err := c.LearningPathService.Delete(ctx.Request.Context(), lp.ID); err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetForUser GET /api/users/:id/learning-path
func (c *LearningPathController) GetForUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	lp, err := c.LearningPathService.GetByUser(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, lp)
}

// UpdateForUser PATCH /api/users/:id/learning-path，可手动调整等级
func (c *LearningPathController) UpdateForUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	lp, err := c.LearningPathService.GetByUser(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	c.update(ctx, lp)
}

func (c *LearningPathController) update(ctx *gin.Context, lp *model.LearningPath) {
	var req service.UpdateLearningPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lp, err := c.LearningPathService.Update(ctx.Request.Context(), lp, req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, lp)
}
