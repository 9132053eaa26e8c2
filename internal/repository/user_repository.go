package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lastleaf-be/internal/database"
	"lastleaf-be/internal/entities"
)

// InactiveCursor marks the last user a sweep has seen, in FindInactive order.
type InactiveCursor struct {
	LastActiveAt time.Time
	ID           string
}

// ProfileUpdate lists the profile columns to change. A nil field keeps the
// stored value; a Name pointing at "" clears the display name.
type ProfileUpdate struct {
	Nickname *string
	Name     *string
}

// PreferencesUpdate lists the timer columns to change. A nil field keeps the stored value.
type PreferencesUpdate struct {
	TimerStatus           *entities.TimerStatus
	TimerIdleThresholdSec *int64
}

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*entities.User, error)
	UpdatePreferences(ctx context.Context, id string, upd PreferencesUpdate) (*entities.User, error)
	TouchLastActive(ctx context.Context, id string) (time.Time, error)
	Delete(ctx context.Context, id string) error
	FindInactive(ctx context.Context, now time.Time, after *InactiveCursor, limit int) ([]*entities.User, error)
	MarkInactivityNotified(ctx context.Context, id string, at time.Time) error
}

type userRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, nickname, name, timer_status,
		timer_idle_threshold_sec, created_at, last_active_at, inactivity_notified_at`

func scanUser(row rowScanner) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&user.Name,
		&user.TimerStatus,
		&user.TimerIdleThresholdSec,
		&user.CreatedAt,
		&user.LastActiveAt,
		&user.InactivityNotifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. Email uniqueness violations return ErrDuplicate.
func (r *userRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := `
		INSERT INTO users (email, password_hash, nickname, name)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.Nickname, user.Name))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// FindByID finds a user by ID (UUID)
func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*entities.User, error) {
	query := `
		UPDATE users
		SET nickname = COALESCE($2, nickname),
			name = CASE WHEN $3 THEN NULLIF($4, '') ELSE name END
		WHERE id = $1
		RETURNING ` + userColumns

	var name string
	if upd.Name != nil {
		name = *upd.Name
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, upd.Nickname, upd.Name != nil, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func (r *userRepository) UpdatePreferences(ctx context.Context, id string, upd PreferencesUpdate) (*entities.User, error) {
	query := `
		UPDATE users
		SET timer_status = COALESCE($2, timer_status),
			timer_idle_threshold_sec = COALESCE($3, timer_idle_threshold_sec)
		WHERE id = $1
		RETURNING ` + userColumns

	var status *string
	if upd.TimerStatus != nil {
		s := string(*upd.TimerStatus)
		status = &s
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, status, upd.TimerIdleThresholdSec))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return user, nil
}

// TouchLastActive stamps the user's last activity with the database clock
// and returns the new value.
func (r *userRepository) TouchLastActive(ctx context.Context, id string) (time.Time, error) {
	var lastActiveAt time.Time
	err := r.db.QueryRowContext(ctx,
		`UPDATE users SET last_active_at = NOW() WHERE id = $1 RETURNING last_active_at`, id,
	).Scan(&lastActiveAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to update last activity: %w", err)
	}

	return lastActiveAt, nil
}

// Delete removes the user; diaries and contacts go with it (ON DELETE CASCADE).
func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// FindInactive returns users with an armed timer whose idle threshold has
// elapsed and who were not alerted since their last activity, longest idle
// first. With after set, only users strictly past that cursor are returned.
func (r *userRepository) FindInactive(ctx context.Context, now time.Time, after *InactiveCursor, limit int) ([]*entities.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE timer_status = 'active'
		AND last_active_at + make_interval(secs => timer_idle_threshold_sec) < $1
		AND (inactivity_notified_at IS NULL OR inactivity_notified_at < last_active_at)
	`
	args := []interface{}{now.UTC()}

	if after != nil {
		query += `AND (last_active_at, id) > ($2, $3)
		ORDER BY last_active_at ASC, id ASC
		LIMIT $4`
		args = append(args, after.LastActiveAt.UTC(), after.ID, limit)
	} else {
		query += `ORDER BY last_active_at ASC, id ASC
		LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find inactive users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (r *userRepository) MarkInactivityNotified(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET inactivity_notified_at = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to mark user notified: %w", err)
	}
	return nil
}
