package controller

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/service"
	"bitbybit_backend/internal/util"
	"bitbybit_backend/pkg/monitoring"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,len=10,numeric"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a student account with email and optional phone
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "registration payload"
// @Success 201 {object} util.Response{data=object} "created"
// @Failure 400 {object} util.Response "bad request"
// @Failure 409 {object} util.Response "email or phone already registered"
// @Failure 500 {object} util.Response "internal error"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     model.Student,
	}

	if err := c.AuthService.Register(user); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) || errors.Is(err, util.ErrPhoneRegistered) {
			util.Error(ctx, http.StatusConflict, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	ForceLogin bool   `json:"force_login"`
}

// Login godoc
// @Summary Password login
// @Description Issues a session token. When another device already holds a
// @Description session, responds 409 until the client retries with force_login.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "credentials"
// @Success 200 {object} util.Response{data=service.LoginResult} "token issued"
// @Failure 401 {object} util.Response "invalid credentials"
// @Failure 409 {object} util.Response "active session on another device"
// @Router /api/auth/jwt/create [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Email, req.Password, req.ForceLogin)
	if err != nil {
		c.writeLoginError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// swagger:model RequestOTPRequest
type RequestOTPRequest struct {
	Phone string `json:"phone" binding:"required,len=10,numeric"`
}

// RequestOTP godoc
// @Summary Request a phone login code
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RequestOTPRequest true "phone"
// @Success 200 {object} util.Response "code sent"
// @Failure 404 {object} util.Response "phone not registered"
// @Router /api/auth-otp/request_otp [post]
func (c *AuthController) RequestOTP(ctx *gin.Context) {
	var req RequestOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.RequestOTP(ctx.Request.Context(), req.Phone); err != nil {
		if errors.Is(err, util.ErrNotRegistered) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"sent": true})
}

// swagger:model VerifyOTPRequest
type VerifyOTPRequest struct {
	Phone      string `json:"phone" binding:"required,len=10,numeric"`
	Code       string `json:"code" binding:"required,len=6,numeric"`
	ForceLogin bool   `json:"force_login"`
}

// VerifyOTP godoc
// @Summary Verify a phone login code
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body VerifyOTPRequest true "phone and code"
// @Success 200 {object} util.Response{data=service.LoginResult} "token issued"
// @Failure 400 {object} util.Response "invalid or expired code"
// @Failure 404 {object} util.Response "phone not registered"
// @Failure 409 {object} util.Response "active session on another device"
// @Router /api/auth-otp/verify_otp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.VerifyOTP(ctx.Request.Context(), req.Phone, req.Code, req.ForceLogin)
	if err != nil {
		if errors.Is(err, util.ErrInvalidOTP) {
			util.BadRequest(ctx, err.Error())
			return
		}
		c.writeLoginError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// swagger:model FirebaseExchangeRequest
type FirebaseExchangeRequest struct {
	IDToken    string `json:"id_token" binding:"required"`
	ForceLogin bool   `json:"force_login"`
}

// FirebaseExchange godoc
// @Summary Exchange a Firebase phone ID token for a session token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body FirebaseExchangeRequest true "firebase ID token"
// @Success 200 {object} util.Response{data=service.LoginResult} "token issued"
// @Failure 404 {object} util.Response "phone not registered"
// @Failure 409 {object} util.Response "active session on another device"
// @Router /api/auth-otp/firebase_exchange [post]
func (c *AuthController) FirebaseExchange(ctx *gin.Context) {
	var req FirebaseExchangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.FirebaseExchange(req.IDToken, req.ForceLogin)
	if err != nil {
		c.writeLoginError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

func (c *AuthController) writeLoginError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrNotRegistered):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrSessionConflict):
		monitoring.LoginConflicts.Inc()
		util.Conflict(ctx, "You are already logged in on another device. Retry with force_login to end that session.")
	default:
		util.LogInternalError(ctx, err)
	}
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}
