package models

import (
	"time"

	"lastleaf-be/internal/entities"
)

type DiaryResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDiaryResponse(d *entities.Diary) DiaryResponse {
	return DiaryResponse{
		ID:        d.ID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// DiaryListResponse is one page of diaries. NextCursor is null on the last page.
type DiaryListResponse struct {
	Diaries    []DiaryResponse `json:"diaries"`
	NextCursor *string         `json:"nextCursor"`
}

type CreateDiaryResponse struct {
	DiaryID string `json:"diary_id"`
}

type DiaryEnvelope struct {
	Diary DiaryResponse `json:"diary"`
}
