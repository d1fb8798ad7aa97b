package api

import (
	"moneymanager/config"
	"moneymanager/middleware"
	"moneymanager/models"
	"moneymanager/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 注册、激活与登录
type ProfileHandler struct {
	cfg      *config.Config
	profiles *service.ProfileService
}

// NewProfileHandler 创建用户处理器
func NewProfileHandler(cfg *config.Config, profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{cfg: cfg, profiles: profiles}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	FullName        string `json:"fullName" binding:"required,max=100" example:"张三"`
	Email           string `json:"email" binding:"required,email" example:"test@example.com"`
	Password        string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	ProfileImageURL string `json:"profileImageUrl" binding:"omitempty,url"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建未激活账号并发送激活邮件，激活后才能登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} Response{data=models.Profile} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "邮箱已注册"
// @Router /profile/register [post]
func (h *ProfileHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	profile, err := h.profiles.Register(c.Request.Context(), service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		respondError(c, err, "注册失败")
		return
	}

	Created(c, "注册成功，请查收激活邮件", profile)
}

// Activate 激活账号
// @Summary 激活账号
// @Description 通过邮件中的令牌激活账号，令牌只能使用一次
// @Tags 用户
// @Produce json
// @Param token query string true "激活令牌"
// @Success 200 {object} Response "激活成功"
// @Failure 404 {object} Response "令牌不存在或已使用"
// @Router /profile/activate [get]
func (h *ProfileHandler) Activate(c *gin.Context) {
	ok, err := h.profiles.Activate(c.Request.Context(), c.Query("token"))
	if err != nil {
		respondError(c, err, "激活失败")
		return
	}
	if !ok {
		NotFound(c, "激活令牌不存在或已使用")
		return
	}
	SuccessWithMessage(c, "账号激活成功", nil)
}

// Login 用户登录
// @Summary 用户登录
// @Description 邮箱密码登录获取 JWT token，未激活账号返回 403
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Failure 403 {object} Response "账号未激活"
// @Failure 429 {object} Response "登录过于频繁"
// @Router /profile/login [post]
func (h *ProfileHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	profile, err := h.profiles.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "登录失败")
		return
	}

	token, err := middleware.GenerateToken(profile.ID, profile.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{Token: token, User: *profile})
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Profile} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /profile/getProfile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondError(c, err, "获取用户信息失败")
		return
	}
	Success(c, profile)
}
