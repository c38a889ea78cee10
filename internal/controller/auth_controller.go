package controller

import (
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService     *service.AuthService
	UserService     *service.UserService
	ProgressService *service.ProgressService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService, progressService *service.ProgressService) *AuthController {
	return &AuthController{
		AuthService:     authService,
		UserService:     userService,
		ProgressService: progressService,
	}
}

// Register godoc
// @Summary 注册新用户
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱或用户名已被注册"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	// 排行榜包含零答题用户
	c.ProgressService.InvalidateLeaderboard(ctx.Request.Context())
	util.Created(ctx, user)
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=service.LoginResponse} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// GetProfile 当前登录用户资料
func (c *AuthController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetUserByID(ctx.Request.Context(), claims.UserID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
