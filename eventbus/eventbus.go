package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// RetryDelays 는 재시도 횟수(1-based)별 지연 시간이다.
// 재시도 토픽 이름은 "<base>.retry.<n>" 이며 n 번째 항목의 지연을 따른다.
var RetryDelays = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	1 * time.Minute,
	5 * time.Minute,
}

// Event 는 Kafka 메시지 값으로 직렬화되는 봉투(envelope)다.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"` // 현재 재시도 횟수 (0부터 시작)
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

type EventHandler func(ctx context.Context, event Event) error

// Publisher 는 API 서비스가 의존하는 발행 측 추상화다.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

// EventBus 는 이벤트 발행/구독 추상화다.
type EventBus interface {
	Publisher
	// Subscribe 는 기본 토픽을 구독해 handler 를 실행한다. 실패 시 재시도 토픽 또는 DLQ 로 보낸다.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector 는 재시도 토픽을 구독해 지연이 지난 이벤트를 기본 토픽으로 되돌린다.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}

var ErrMaxRetryExceeded = errors.New("max retry exceeded")

// Failure 는 handler 실패 이후 이벤트가 향할 토픽과 갱신된 이벤트를 계산한다.
// toDLQ 가 true 이면 재시도 횟수를 모두 소진한 것이다.
func Failure(topic Topic, evt Event, cause error) (next string, updated Event, toDLQ bool) {
	updated = evt
	if cause != nil {
		updated.LastError = cause.Error()
	}
	if updated.MaxRetry <= 0 || updated.MaxRetry > len(RetryDelays) {
		updated.MaxRetry = len(RetryDelays)
	}
	if updated.Retry+1 > updated.MaxRetry {
		return topic.DLQ(), updated, true
	}
	retryTopic, err := topic.RetryTopic(updated.Retry + 1)
	if err != nil {
		return topic.DLQ(), updated, true
	}
	updated.Retry++
	return retryTopic, updated, false
}
