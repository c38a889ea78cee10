package controller

import (
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService     *service.UserService
	StorageService  *service.StorageService
	ProgressService *service.ProgressService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService, progressService *service.ProgressService) *UserController {
	return &UserController{
		UserService:     userService,
		StorageService:  storageService,
		ProgressService: progressService,
	}
}

// GetUsers godoc
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	users, total, err := c.UserService.GetUsers(ctx.Request.Context(), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	user, err := c.UserService.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateUser godoc
// @Summary 更新用户资料
// @Description 本人或管理员可修改，修改角色仅限管理员
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param body body service.UpdateUserRequest true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/{id} [patch]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(ctx.Request.Context(), id, req, isAdmin(util.GetUserFromContext(ctx)))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.DeleteUser(ctx.Request.Context(), id); err != nil {
		handleError(ctx, err)
		return
	}
	c.ProgressService.InvalidateLeaderboard(ctx.Request.Context())
	util.Success(ctx, nil)
}

// UploadProfilePicture 上传头像，表单字段 file
func (c *UserController) UploadProfilePicture(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.StorageService.UploadImage(ctx.Request.Context(), "profile_pictures", file)
	if err != nil {
		handleError(ctx, err)
		return
	}
	if err := c.UserService.SetProfilePicture(ctx.Request.Context(), id, url); err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"profilePicture": url})
}
