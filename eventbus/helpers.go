package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewJSONEvent 는 payload 를 JSON 으로 인코딩해 Event 를 만든다.
// id 가 비어 있으면 UUID 를 생성한다.
func NewJSONEvent(id, eventType string, payload any, maxRetry int) (Event, error) {
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal payload: %w", err)
	}
	return Event{
		ID:       id,
		Type:     eventType,
		Payload:  b,
		MaxRetry: maxRetry,
	}, nil
}

// DecodeJSON 은 Event.Payload 를 T 로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("unmarshal payload: %w", err)
	}
	return out, nil
}

// Router 는 Event.Type 별로 handler 를 골라 실행하는 EventHandler 를 만든다.
// 등록되지 않은 타입은 무시(커밋)한다.
type Router map[string]EventHandler

func (r Router) Handle(ctx context.Context, evt Event) error {
	h, ok := r[evt.Type]
	if !ok {
		return nil
	}
	return h(ctx, evt)
}

// Typed 는 JSON 페이로드를 T 로 디코딩한 뒤 fn 을 호출하는 EventHandler 로 감싼다.
func Typed[T any](fn func(ctx context.Context, payload T, meta Event) error) EventHandler {
	return func(ctx context.Context, evt Event) error {
		v, err := DecodeJSON[T](evt)
		if err != nil {
			return err
		}
		return fn(ctx, v, evt)
	}
}
