package dispatcher

import (
	"context"
	"fmt"

	"post-pilot/eventbus"
	"post-pilot/events"
	"post-pilot/models"
)

// Dispatcher 는 도메인 이벤트를 eventbus 봉투로 감싸 발행한다.
// bus 가 nil 이면 (eventbus 비활성) 모든 발행은 아무 것도 하지 않는다.
type Dispatcher struct {
	bus    eventbus.Publisher
	source string
}

func New(bus eventbus.Publisher, source string) *Dispatcher {
	return &Dispatcher{bus: bus, source: source}
}

func (d *Dispatcher) Enabled() bool {
	return d != nil && d.bus != nil
}

// PublishPost 게시물 수명주기 이벤트 발행
func (d *Dispatcher) PublishPost(ctx context.Context, t events.EventType, p models.Post) error {
	if !d.Enabled() {
		return nil
	}
	e := events.NewPostLifecycleEvent(t, d.source, p)
	return d.publish(ctx, eventbus.TopicPostEvents, e.ID, string(t), e)
}

// PublishFlowCompleted AI 플로우 사용량 이벤트 발행 (worker 가 ai_logs 에 저장)
func (d *Dispatcher) PublishFlowCompleted(ctx context.Context, log models.AILog) error {
	if !d.Enabled() {
		return nil
	}
	e := events.AIFlowCompletedEvent{
		BaseEvent: events.NewBase(events.AIFlowCompleted, d.source),
		Log:       log,
	}
	return d.publish(ctx, eventbus.TopicAIEvents, e.ID, string(events.AIFlowCompleted), e)
}

func (d *Dispatcher) publish(ctx context.Context, topic eventbus.Topic, id, eventType string, payload any) error {
	evt, err := eventbus.NewJSONEvent(id, eventType, payload, 0)
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	return d.bus.Publish(ctx, topic.Base(), evt)
}
