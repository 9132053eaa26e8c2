package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lastleaf-be/internal/apperrors"
	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50

	contentRequiredMessage = "Content is required and cannot be empty"
	diaryNotFoundMessage   = "Diary not found"
)

// ParseLimit turns the limit query parameter into a page size. Missing,
// non-numeric and non-positive values fall back to the default.
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// DiaryPage is one page of a user's diaries, newest first.
type DiaryPage struct {
	Diaries    []*entities.Diary
	NextCursor *string
}

// DiaryService defines the interface for diary business logic
type DiaryService interface {
	List(ctx context.Context, userID, cursor string, limit int) (*DiaryPage, error)
	Create(ctx context.Context, userID, content string) (*entities.Diary, error)
	Get(ctx context.Context, userID, id string) (*entities.Diary, error)
	Update(ctx context.Context, userID, id, content string) (*entities.Diary, error)
}

type diaryService struct {
	diaries repository.DiaryRepository
	users   repository.UserRepository
	log     *zap.Logger
}

// NewDiaryService creates a new diary service
func NewDiaryService(diaries repository.DiaryRepository, users repository.UserRepository, log *zap.Logger) DiaryService {
	return &diaryService{
		diaries: diaries,
		users:   users,
		log:     log,
	}
}

func validContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", apperrors.Validation(contentRequiredMessage)
	}
	return trimmed, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// List fetches one extra row to learn whether another page exists. The
// cursor is the id of the last entry of the previous page.
func (s *diaryService) List(ctx context.Context, userID, cursor string, limit int) (*DiaryPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	cursor = strings.TrimSpace(cursor)
	if cursor != "" && !isUUID(cursor) {
		return nil, apperrors.Validation("Invalid cursor")
	}

	rows, err := s.diaries.ListByUser(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	page := &DiaryPage{Diaries: rows}
	if len(rows) > limit {
		page.Diaries = rows[:limit]
		next := page.Diaries[limit-1].ID
		page.NextCursor = &next
	}

	return page, nil
}

func (s *diaryService) Create(ctx context.Context, userID, content string) (*entities.Diary, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}

	diary, err := s.diaries.Create(ctx, userID, content)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	touchLastActive(ctx, s.users, s.log, userID)

	return diary, nil
}

// Get returns the entry only when it belongs to the user; a foreign entry
// is reported exactly like a missing one.
func (s *diaryService) Get(ctx context.Context, userID, id string) (*entities.Diary, error) {
	if !isUUID(id) {
		return nil, apperrors.NotFound(diaryNotFoundMessage)
	}

	diary, err := s.diaries.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(diaryNotFoundMessage)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return diary, nil
}

// Update distinguishes a missing entry (404) from a foreign one (403).
func (s *diaryService) Update(ctx context.Context, userID, id, content string) (*entities.Diary, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	if !isUUID(id) {
		return nil, apperrors.NotFound(diaryNotFoundMessage)
	}

	existing, err := s.diaries.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(diaryNotFoundMessage)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing.UserID != userID {
		return nil, apperrors.Forbidden()
	}

	diary, err := s.diaries.UpdateContent(ctx, id, userID, content)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(diaryNotFoundMessage)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	touchLastActive(ctx, s.users, s.log, userID)

	return diary, nil
}
