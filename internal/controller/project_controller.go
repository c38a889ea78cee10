package controller

import (
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProjectController struct {
	ProjectService *service.ProjectService
}

func NewProjectController(projectService *service.ProjectService) *ProjectController {
	return &ProjectController{ProjectService: projectService}
}

func (c *ProjectController) List(ctx *gin.Context) {
	projects, err := c.ProjectService.List(ctx.Request.Context(),
		util.MustParseUint(ctx.Query("subject_id")),
		ctx.Query("difficulty"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, projects)
}

func (c *ProjectController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	p, err := c.ProjectService.Get(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

func (c *ProjectController) Create(ctx *gin.Context) {
	var req service.ProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	p, err := c.ProjectService.Create(ctx.Request.Context(), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

func (c *ProjectController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.ProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	p, err := c.ProjectService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

func (c *ProjectController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ProjectService.Delete(ctx.Request.Context(), id); err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
