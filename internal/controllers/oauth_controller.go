package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lastleaf-be/internal/service"
)

const defaultLoginRedirect = "/diary"

type OAuthController struct {
	oauthService service.OAuthService
	cookies      CookieConfig
	appURL       string
	log          *zap.Logger
}

func NewOAuthController(oauthService service.OAuthService, cookies CookieConfig, appURL string, log *zap.Logger) *OAuthController {
	return &OAuthController{
		oauthService: oauthService,
		cookies:      cookies,
		appURL:       appURL,
		log:          log,
	}
}

func (oc *OAuthController) misconfigured(c *gin.Context) {
	oc.log.Error("google oauth requested but client credentials are missing")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Google OAuth is not configured"})
}

// Start handles GET /api/auth/google
func (oc *OAuthController) Start(c *gin.Context) {
	state := sanitizeRedirectPath(c.Query("redirect"), defaultLoginRedirect)

	consentURL, err := oc.oauthService.AuthCodeURL(state)
	if err != nil {
		oc.misconfigured(c)
		return
	}

	c.Redirect(http.StatusFound, consentURL)
}

// Callback handles GET /api/auth/google/callback
func (oc *OAuthController) Callback(c *gin.Context) {
	if !oc.oauthService.Configured() {
		oc.misconfigured(c)
		return
	}

	if providerErr := c.Query("error"); providerErr != "" {
		oc.loginFailed(c, providerErr)
		return
	}

	code := c.Query("code")
	if code == "" {
		oc.loginFailed(c, "missing_code")
		return
	}

	result, err := oc.oauthService.Login(c.Request.Context(), code)
	if err != nil {
		oc.log.Warn("google login failed", zap.Error(err))
		oc.loginFailed(c, oauthErrorCode(err))
		return
	}

	setAuthCookie(c, oc.cookies, result.Token)
	target := sanitizeRedirectPath(c.Query("state"), defaultLoginRedirect)
	c.Redirect(http.StatusFound, oc.appURL+target)
}

func (oc *OAuthController) loginFailed(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, oc.appURL+"/login?error="+url.QueryEscape(code))
}

func oauthErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrOAuthExchange):
		return "token_exchange_failed"
	case errors.Is(err, service.ErrOAuthUserInfo):
		return "userinfo_failed"
	case errors.Is(err, service.ErrOAuthEmailNotVerified):
		return "email_not_verified"
	default:
		return "login_failed"
	}
}
