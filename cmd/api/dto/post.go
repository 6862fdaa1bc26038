package dto

import (
	"time"

	"post-pilot/models"
)

// PostDTO 는 라이브러리 게시물 응답이다. ID 는 hex 문자열이다.
type PostDTO struct {
	ID          string            `json:"id"`
	Content     string            `json:"content"`
	Topic       string            `json:"topic"`
	Tone        string            `json:"tone"`
	Status      models.PostStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
}

func NewPostDTO(p models.Post) PostDTO {
	return PostDTO{
		ID:          p.ID.Hex(),
		Content:     p.Content,
		Topic:       p.Topic,
		Tone:        p.Tone,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		ScheduledAt: p.ScheduledAt,
		PublishedAt: p.PublishedAt,
	}
}

func NewPostDTOs(posts []models.Post) []PostDTO {
	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostDTO(p))
	}
	return out
}

// SavePostRequest 는 생성된 게시물을 라이브러리에 초안으로 저장한다.
type SavePostRequest struct {
	Content string `json:"content" example:"Excited to share..."`
	Topic   string `json:"topic" example:"Remote onboarding"`
	Tone    string `json:"tone" example:"inspirational"`
}

// UpdatePostRequest 는 지정된 필드만 변경한다.
type UpdatePostRequest struct {
	Content *string `json:"content,omitempty"`
	Topic   *string `json:"topic,omitempty"`
	Tone    *string `json:"tone,omitempty"`
}

type SchedulePostRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" example:"2026-11-02T09:00:00Z"`
}

// PreviewDTO 는 게시물 본문의 HTML 미리보기다.
type PreviewDTO struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// CalendarDTO 는 [from, to) 구간의 예약 게시물이다.
type CalendarDTO struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Posts []PostDTO `json:"posts"`
}
