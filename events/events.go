package events

import (
	"time"

	"github.com/google/uuid"

	"post-pilot/models"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	PostSaved       EventType = "post.saved"
	PostScheduled   EventType = "post.scheduled"
	PostUnscheduled EventType = "post.unscheduled"
	PostDeleted     EventType = "post.deleted"
	PostPublished   EventType = "post.published"

	AIFlowCompleted EventType = "ai.flow_completed"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // "api", "worker"
	Version   string    `json:"version"`
}

func NewBase(t EventType, source string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Version:   "1.0",
	}
}

// PostLifecycleEvent 게시물 상태 변화 이벤트
type PostLifecycleEvent struct {
	BaseEvent
	PostID      string            `json:"post_id"`
	OwnerID     string            `json:"owner_id"`
	Status      models.PostStatus `json:"status"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
}

func NewPostLifecycleEvent(t EventType, source string, p models.Post) PostLifecycleEvent {
	return PostLifecycleEvent{
		BaseEvent:   NewBase(t, source),
		PostID:      p.ID.Hex(),
		OwnerID:     p.OwnerID,
		Status:      p.Status,
		ScheduledAt: p.ScheduledAt,
		PublishedAt: p.PublishedAt,
	}
}

// AIFlowCompletedEvent 플로우 한 번의 실행 기록. worker 가 ai_logs 에 저장한다.
type AIFlowCompletedEvent struct {
	BaseEvent
	Log models.AILog `json:"log"`
}
