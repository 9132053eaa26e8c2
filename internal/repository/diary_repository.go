package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lastleaf-be/internal/database"
	"lastleaf-be/internal/entities"
)

// DiaryRepository defines the interface for diary database operations.
// Every read except FindByID is scoped to the owning user.
type DiaryRepository interface {
	Create(ctx context.Context, userID, content string) (*entities.Diary, error)
	ListByUser(ctx context.Context, userID, cursor string, limit int) ([]*entities.Diary, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*entities.Diary, error)
	FindByID(ctx context.Context, id string) (*entities.Diary, error)
	UpdateContent(ctx context.Context, id, userID, content string) (*entities.Diary, error)
}

type diaryRepository struct {
	db database.DBTX
}

// NewDiaryRepository creates a new diary repository
func NewDiaryRepository(db database.DBTX) DiaryRepository {
	return &diaryRepository{db: db}
}

const diaryColumns = `id, user_id, content, created_at, updated_at`

func scanDiary(row rowScanner) (*entities.Diary, error) {
	var diary entities.Diary
	if err := row.Scan(&diary.ID, &diary.UserID, &diary.Content, &diary.CreatedAt, &diary.UpdatedAt); err != nil {
		return nil, err
	}
	return &diary, nil
}

func (r *diaryRepository) Create(ctx context.Context, userID, content string) (*entities.Diary, error) {
	query := `
		INSERT INTO diaries (user_id, content)
		VALUES ($1, $2)
		RETURNING ` + diaryColumns

	diary, err := scanDiary(r.db.QueryRowContext(ctx, query, userID, content))
	if err != nil {
		return nil, fmt.Errorf("failed to create diary: %w", err)
	}

	return diary, nil
}

// ListByUser returns up to limit entries, newest first. When cursor is set,
// only entries strictly after the cursor entry are returned; a cursor that
// does not belong to the user yields no rows.
func (r *diaryRepository) ListByUser(ctx context.Context, userID, cursor string, limit int) ([]*entities.Diary, error) {
	var query string
	var args []interface{}

	if cursor == "" {
		query = `
			SELECT ` + diaryColumns + `
			FROM diaries
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		`
		args = []interface{}{userID, limit}
	} else {
		query = `
			SELECT d.id, d.user_id, d.content, d.created_at, d.updated_at
			FROM diaries d
			JOIN diaries c ON c.id = $2 AND c.user_id = $1
			WHERE d.user_id = $1
			AND (d.created_at, d.id) < (c.created_at, c.id)
			ORDER BY d.created_at DESC, d.id DESC
			LIMIT $3
		`
		args = []interface{}{userID, cursor, limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list diaries: %w", err)
	}
	defer rows.Close()

	diaries := make([]*entities.Diary, 0, limit)
	for rows.Next() {
		diary, err := scanDiary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan diary: %w", err)
		}
		diaries = append(diaries, diary)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diaries: %w", err)
	}

	return diaries, nil
}

func (r *diaryRepository) FindByIDForUser(ctx context.Context, id, userID string) (*entities.Diary, error) {
	query := `SELECT ` + diaryColumns + ` FROM diaries WHERE id = $1 AND user_id = $2`

	diary, err := scanDiary(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find diary: %w", err)
	}

	return diary, nil
}

// FindByID looks an entry up without an owner filter; callers check ownership.
func (r *diaryRepository) FindByID(ctx context.Context, id string) (*entities.Diary, error) {
	query := `SELECT ` + diaryColumns + ` FROM diaries WHERE id = $1`

	diary, err := scanDiary(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find diary: %w", err)
	}

	return diary, nil
}

func (r *diaryRepository) UpdateContent(ctx context.Context, id, userID, content string) (*entities.Diary, error) {
	query := `
		UPDATE diaries
		SET content = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + diaryColumns

	diary, err := scanDiary(r.db.QueryRowContext(ctx, query, id, userID, content))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update diary: %w", err)
	}

	return diary, nil
}
