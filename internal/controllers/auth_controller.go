package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lastleaf-be/internal/middleware"
	"lastleaf-be/internal/models"
	"lastleaf-be/internal/service"
)

type AuthController struct {
	authService service.AuthService
	cookies     CookieConfig
	log         *zap.Logger
}

func NewAuthController(authService service.AuthService, cookies CookieConfig, log *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookies:     cookies,
		log:         log,
	}
}

// Signup handles POST /api/auth/signup
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ac.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	setAuthCookie(c, ac.cookies, result.Token)
	c.JSON(http.StatusCreated, models.UserEnvelope{User: models.NewUserResponse(result.User)})
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	setAuthCookie(c, ac.cookies, result.Token)
	c.JSON(http.StatusOK, models.UserEnvelope{User: models.NewUserResponse(result.User)})
}

// Logout handles POST /api/auth/logout. It succeeds with or without a session.
func (ac *AuthController) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.AuthCookieName); err == nil && token != "" {
		ac.authService.Logout(c.Request.Context(), token)
	}

	clearAuthCookie(c, ac.cookies)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
