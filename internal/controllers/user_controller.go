package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lastleaf-be/internal/middleware"
	"lastleaf-be/internal/models"
	"lastleaf-be/internal/service"
)

type UserController struct {
	userService service.UserService
	sessions    service.SessionService
	cookies     CookieConfig
	log         *zap.Logger
}

func NewUserController(userService service.UserService, sessions service.SessionService, cookies CookieConfig, log *zap.Logger) *UserController {
	return &UserController{
		userService: userService,
		sessions:    sessions,
		cookies:     cookies,
		log:         log,
	}
}

// GetProfile handles GET /api/user/profile
func (uc *UserController) GetProfile(c *gin.Context) {
	user, err := uc.userService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, models.UserEnvelope{User: models.NewUserResponse(user)})
}

// UpdateProfile handles PUT /api/user/profile
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req models.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.userService.UpdateProfile(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, models.UserEnvelope{User: models.NewUserResponse(user)})
}

// GetPreferences handles GET /api/user/preferences
func (uc *UserController) GetPreferences(c *gin.Context) {
	user, err := uc.userService.GetPreferences(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, models.NewPreferencesResponse(user))
}

// UpdatePreferences handles PUT /api/user/preferences
func (uc *UserController) UpdatePreferences(c *gin.Context) {
	var req models.PreferencesRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.userService.UpdatePreferences(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, models.NewPreferencesResponse(user))
}

// GetContacts handles GET /api/user/contacts
func (uc *UserController) GetContacts(c *gin.Context) {
	contacts, err := uc.userService.GetContacts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, models.NewContactsResponse(contacts))
}

// ReplaceContacts handles PUT /api/user/contacts
func (uc *UserController) ReplaceContacts(c *gin.Context) {
	var req models.ContactsRequest
	if !bindJSON(c, &req) {
		return
	}

	contacts, err := uc.userService.ReplaceContacts(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, models.NewContactsResponse(contacts))
}

// DeleteAccount handles DELETE /api/user
func (uc *UserController) DeleteAccount(c *gin.Context) {
	if err := uc.userService.DeleteAccount(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, uc.log, err)
		return
	}

	if err := uc.sessions.Revoke(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		uc.log.Warn("failed to revoke session after account deletion", zap.Error(err))
	}

	clearAuthCookie(c, uc.cookies)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
