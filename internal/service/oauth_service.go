package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/repository"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

var (
	ErrOAuthNotConfigured    = errors.New("google oauth is not configured")
	ErrOAuthExchange         = errors.New("oauth code exchange failed")
	ErrOAuthUserInfo         = errors.New("oauth userinfo request failed")
	ErrOAuthEmailNotVerified = errors.New("oauth email not verified")
)

// GoogleConfig configures the Google login flow. Endpoint and UserInfoURL
// default to Google's production endpoints.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
}

// GoogleProfile is the subset of the OpenID userinfo document we use.
type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// OAuthService bridges Google sign-in to local accounts
type OAuthService interface {
	Configured() bool
	AuthCodeURL(state string) (string, error)
	Login(ctx context.Context, code string) (*AuthResult, error)
}

type oauthService struct {
	oauth       *oauth2.Config
	userInfoURL string
	users       repository.UserRepository
	sessions    SessionService
	log         *zap.Logger
}

// NewOAuthService creates the Google OAuth bridge
func NewOAuthService(cfg GoogleConfig, users repository.UserRepository, sessions SessionService, log *zap.Logger) OAuthService {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = endpoints.Google
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = googleUserInfoURL
	}

	return &oauthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
		users:       users,
		sessions:    sessions,
		log:         log,
	}
}

func (s *oauthService) Configured() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != ""
}

func (s *oauthService) AuthCodeURL(state string) (string, error) {
	if !s.Configured() {
		return "", ErrOAuthNotConfigured
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Login exchanges the authorization code, fetches the Google profile and
// upserts the matching local user.
func (s *oauthService) Login(ctx context.Context, code string) (*AuthResult, error) {
	if !s.Configured() {
		return nil, ErrOAuthNotConfigured
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthUserInfo, err)
	}
	if profile.Email == "" || !profile.EmailVerified {
		return nil, ErrOAuthEmailNotVerified
	}

	user, err := s.upsertUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	tokenString, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: tokenString}, nil
}

func (s *oauthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*GoogleProfile, error) {
	client := s.oauth.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &profile, nil
}

func (s *oauthService) upsertUser(ctx context.Context, profile *GoogleProfile) (*entities.User, error) {
	email := normalizeEmail(profile.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if at, ok := touchLastActive(ctx, s.users, s.log, user.ID); ok {
			user.LastActiveAt = at
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	nickname := strings.TrimSpace(profile.Name)
	if nickname == "" {
		nickname, _, _ = strings.Cut(email, "@")
	}
	var name *string
	if n := strings.TrimSpace(profile.Name); n != "" {
		name = &n
	}

	created, err := s.users.Create(ctx, &entities.User{
		Email:    email,
		Nickname: nickname,
		Name:     name,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent first login for the same email
		return s.users.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user created via google", zap.String("user_id", created.ID))
	return created, nil
}
