package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"lastleaf-be/internal/apperrors"
	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/models"
	"lastleaf-be/internal/repository"
)

const userNotFoundMessage = "User not found"

var contactEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService defines the interface for account settings business logic
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID string, req *models.ProfileRequest) (*entities.User, error)
	GetPreferences(ctx context.Context, userID string) (*entities.User, error)
	UpdatePreferences(ctx context.Context, userID string, req *models.PreferencesRequest) (*entities.User, error)
	GetContacts(ctx context.Context, userID string) ([]*entities.Contact, error)
	ReplaceContacts(ctx context.Context, userID string, req *models.ContactsRequest) ([]*entities.Contact, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type userService struct {
	users    repository.UserRepository
	contacts repository.ContactRepository
	log      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, contacts repository.ContactRepository, log *zap.Logger) UserService {
	return &userService{
		users:    users,
		contacts: contacts,
		log:      log,
	}
}

func (s *userService) findUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(userNotFoundMessage)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	return s.findUser(ctx, userID)
}

// UpdateProfile changes nickname and display name. The email is fixed at
// signup; sending a different one is rejected rather than ignored.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *models.ProfileRequest) (*entities.User, error) {
	current, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && normalizeEmail(*req.Email) != current.Email {
		return nil, apperrors.Validation("Email cannot be changed")
	}

	var upd repository.ProfileUpdate
	if req.Nickname != nil {
		nickname := strings.TrimSpace(*req.Nickname)
		if nickname == "" {
			return nil, apperrors.Validation("Nickname cannot be empty")
		}
		upd.Nickname = &nickname
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		upd.Name = &name
	}

	if upd.Nickname == nil && upd.Name == nil {
		return current, nil
	}

	user, err := s.users.UpdateProfile(ctx, userID, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(userNotFoundMessage)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *userService) GetPreferences(ctx context.Context, userID string) (*entities.User, error) {
	return s.findUser(ctx, userID)
}

func (s *userService) UpdatePreferences(ctx context.Context, userID string, req *models.PreferencesRequest) (*entities.User, error) {
	if req.TimerStatus == nil && req.TimerIdleThresholdSec == nil {
		return nil, apperrors.Validation("At least one of timer_status or timer_idle_threshold_sec is required")
	}

	var upd repository.PreferencesUpdate
	if req.TimerStatus != nil {
		status := entities.TimerStatus(*req.TimerStatus)
		if !status.Valid() {
			return nil, apperrors.Validation("timer_status must be one of: active, inactive, paused")
		}
		upd.TimerStatus = &status
	}
	if req.TimerIdleThresholdSec != nil {
		if !entities.ValidIdleThreshold(*req.TimerIdleThresholdSec) {
			return nil, apperrors.Validation(fmt.Sprintf(
				"timer_idle_threshold_sec must be one of: %d, %d, %d, %d",
				entities.Threshold30Days, entities.Threshold60Days,
				entities.Threshold90Days, entities.Threshold180Days,
			))
		}
		upd.TimerIdleThresholdSec = req.TimerIdleThresholdSec
	}

	user, err := s.users.UpdatePreferences(ctx, userID, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(userNotFoundMessage)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *userService) GetContacts(ctx context.Context, userID string) ([]*entities.Contact, error) {
	contacts, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return contacts, nil
}

// ReplaceContacts swaps the whole contact list. Blank entries are dropped
// and the list is validated before anything is written.
func (s *userService) ReplaceContacts(ctx context.Context, userID string, req *models.ContactsRequest) ([]*entities.Contact, error) {
	inputs := make([]repository.ContactInput, 0, len(req.Contacts))
	for i, c := range req.Contacts {
		email := trimmedOrNil(c.Email)
		phone := trimmedOrNil(c.Phone)
		if email == nil && phone == nil {
			continue
		}
		if email != nil && !contactEmailPattern.MatchString(*email) {
			return nil, apperrors.Validation(fmt.Sprintf("Contact %d: invalid email address", i+1))
		}
		inputs = append(inputs, repository.ContactInput{Email: email, Phone: phone})
	}

	contacts, err := s.contacts.ReplaceAll(ctx, userID, inputs)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return contacts, nil
}

// DeleteAccount removes the user; diaries and contacts go with it. An
// already deleted account counts as success.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.users.Delete(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.Internal(err)
	}
	s.log.Info("account deleted", zap.String("user_id", userID))
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
