package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-pilot/cmd/api/services/servicetest"
	"post-pilot/eventbus"
	"post-pilot/events/dispatcher"
	"post-pilot/models"
)

type failingBus struct{ calls int }

func (b *failingBus) Publish(ctx context.Context, topic string, event eventbus.Event) error {
	b.calls++
	return errors.New("broker down")
}

func TestEventUsageRecorderPublishes(t *testing.T) {
	bus := &busSpy{}
	logs := &servicetest.AILogs{}
	r := NewEventUsageRecorder(dispatcher.New(bus, "api"), NewStoreUsageRecorder(logs))

	r.Record(context.Background(), models.AILog{Flow: "generatePost"})
	assert.Equal(t, []string{"ai.flow_completed"}, bus.types)
	assert.Empty(t, logs.All())
}

func TestEventUsageRecorderFallsBackToStore(t *testing.T) {
	bus := &failingBus{}
	logs := &servicetest.AILogs{}
	r := NewEventUsageRecorder(dispatcher.New(bus, "api"), NewStoreUsageRecorder(logs))

	r.Record(context.Background(), models.AILog{Flow: "generatePost"})
	assert.Equal(t, 1, bus.calls)
	require.Len(t, logs.All(), 1)
	assert.Equal(t, "generatePost", logs.All()[0].Flow)
}

func TestStoreUsageRecorderSurvivesCancelledRequest(t *testing.T) {
	logs := &servicetest.AILogs{}
	r := NewStoreUsageRecorder(logs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Record(ctx, models.AILog{Flow: "summarizePosts"})
	assert.Len(t, logs.All(), 1)
}

func TestStoreUsageRecorderSwallowsErrors(t *testing.T) {
	logs := &servicetest.AILogs{Err: servicetest.ErrStoreDown}
	r := NewStoreUsageRecorder(logs)
	assert.NotPanics(t, func() { r.Record(context.Background(), models.AILog{}) })
}
