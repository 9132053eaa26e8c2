package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lastleaf-be/internal/apperrors"
	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/models"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func newTestUsers() (UserService, *memUsers, *memContacts, *entities.User) {
	users := newMemUsers()
	contacts := newMemContacts()
	u := users.add(&entities.User{Email: "me@example.com", Nickname: "leaf"})
	return NewUserService(users, contacts, zap.NewNop()), users, contacts, u
}

func TestGetProfile_Missing(t *testing.T) {
	svc, _, _, _ := newTestUsers()

	_, err := svc.GetProfile(context.Background(), "ghost")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _, u := newTestUsers()

	got, err := svc.UpdateProfile(context.Background(), u.ID, &models.ProfileRequest{
		Nickname: strPtr("  maple "),
		Name:     strPtr("Maple Leaf"),
	})
	require.NoError(t, err)
	assert.Equal(t, "maple", got.Nickname)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Maple Leaf", *got.Name)

	got, err = svc.UpdateProfile(context.Background(), u.ID, &models.ProfileRequest{Name: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, got.Name)
	assert.Equal(t, "maple", got.Nickname)
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc, _, _, u := newTestUsers()

	_, err := svc.UpdateProfile(context.Background(), u.ID, &models.ProfileRequest{Nickname: strPtr(" ")})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.UpdateProfile(context.Background(), u.ID, &models.ProfileRequest{Email: strPtr("other@example.com")})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "Email cannot be changed", apperrors.PublicMessage(err))

	// Echoing the stored email back is fine
	_, err = svc.UpdateProfile(context.Background(), u.ID, &models.ProfileRequest{Email: strPtr("ME@example.com"), Nickname: strPtr("x")})
	assert.NoError(t, err)
}

func TestUpdatePreferences(t *testing.T) {
	svc, _, _, u := newTestUsers()

	got, err := svc.UpdatePreferences(context.Background(), u.ID, &models.PreferencesRequest{
		TimerStatus:           strPtr("paused"),
		TimerIdleThresholdSec: int64Ptr(entities.Threshold90Days),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.TimerPaused, got.TimerStatus)
	assert.Equal(t, entities.Threshold90Days, got.TimerIdleThresholdSec)

	got, err = svc.UpdatePreferences(context.Background(), u.ID, &models.PreferencesRequest{TimerStatus: strPtr("active")})
	require.NoError(t, err)
	assert.Equal(t, entities.Threshold90Days, got.TimerIdleThresholdSec, "untouched field kept")
}

func TestUpdatePreferences_Validation(t *testing.T) {
	svc, _, _, u := newTestUsers()

	cases := map[string]*models.PreferencesRequest{
		"empty body":        {},
		"unknown status":    {TimerStatus: strPtr("sleeping")},
		"threshold 1 sec":   {TimerIdleThresholdSec: int64Ptr(1)},
		"threshold 31 days": {TimerIdleThresholdSec: int64Ptr(entities.Threshold30Days + 86400)},
		"threshold 29 days": {TimerIdleThresholdSec: int64Ptr(entities.Threshold30Days - 86400)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UpdatePreferences(context.Background(), u.ID, req)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}

func TestUpdatePreferences_MissingUser(t *testing.T) {
	svc, _, _, _ := newTestUsers()

	_, err := svc.UpdatePreferences(context.Background(), "ghost", &models.PreferencesRequest{TimerStatus: strPtr("active")})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestReplaceContacts(t *testing.T) {
	svc, _, contacts, u := newTestUsers()

	got, err := svc.ReplaceContacts(context.Background(), u.ID, &models.ContactsRequest{Contacts: []models.ContactRequest{
		{Email: strPtr(" mom@example.com ")},
		{Email: strPtr(""), Phone: strPtr("  ")},
		{Phone: strPtr("+1 555 0100")},
	}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "mom@example.com", *got[0].Email)
	assert.Nil(t, got[0].Phone)
	assert.Equal(t, "+1 555 0100", *got[1].Phone)
	assert.Len(t, contacts.lastInput, 2)

	listed, err := svc.GetContacts(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	got, err = svc.ReplaceContacts(context.Background(), u.ID, &models.ContactsRequest{Contacts: []models.ContactRequest{}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceContacts_InvalidEmailNamesEntry(t *testing.T) {
	svc, _, contacts, u := newTestUsers()

	_, err := svc.ReplaceContacts(context.Background(), u.ID, &models.ContactsRequest{Contacts: []models.ContactRequest{
		{Email: strPtr("ok@example.com")},
		{Email: strPtr("not-an-email")},
	}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.PublicMessage(err), "Contact 2")
	assert.Nil(t, contacts.lastInput, "nothing written")
}

func TestReplaceContacts_StoreError(t *testing.T) {
	svc, _, contacts, u := newTestUsers()
	contacts.replaceErr = errors.New("tx aborted")

	_, err := svc.ReplaceContacts(context.Background(), u.ID, &models.ContactsRequest{Contacts: []models.ContactRequest{{Phone: strPtr("1")}}})
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestDeleteAccount(t *testing.T) {
	svc, users, _, u := newTestUsers()

	require.NoError(t, svc.DeleteAccount(context.Background(), u.ID))
	_, err := users.FindByID(context.Background(), u.ID)
	assert.Error(t, err)

	assert.NoError(t, svc.DeleteAccount(context.Background(), u.ID), "second delete is a no-op")
}
