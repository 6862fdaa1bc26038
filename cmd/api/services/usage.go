package services

import (
	"context"
	"time"

	"post-pilot/config"
	"post-pilot/events/dispatcher"
	"post-pilot/models"
)

const usageWriteTimeout = 5 * time.Second

// UsageRecorder 는 플로우 실행 기록(ai_logs)을 남긴다. 실패는 로그로만 남기고 요청을 실패시키지 않는다.
type UsageRecorder interface {
	Record(ctx context.Context, log models.AILog)
}

// StoreUsageRecorder 는 ai_logs 컬렉션에 직접 기록한다. (eventbus 비활성 시)
type StoreUsageRecorder struct {
	store AILogStore
}

func NewStoreUsageRecorder(store AILogStore) *StoreUsageRecorder {
	return &StoreUsageRecorder{store: store}
}

func (r *StoreUsageRecorder) Record(ctx context.Context, log models.AILog) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageWriteTimeout)
	defer cancel()
	if err := r.store.Insert(ctx, log); err != nil {
		config.Logger.Errorf("failed to insert ai log for %s: %v", log.Flow, err)
	}
}

// EventUsageRecorder 는 ai.flow_completed 이벤트를 발행하고, 발행 실패 시 fallback 으로 기록한다.
type EventUsageRecorder struct {
	dispatcher *dispatcher.Dispatcher
	fallback   UsageRecorder
}

func NewEventUsageRecorder(d *dispatcher.Dispatcher, fallback UsageRecorder) *EventUsageRecorder {
	return &EventUsageRecorder{dispatcher: d, fallback: fallback}
}

func (r *EventUsageRecorder) Record(ctx context.Context, log models.AILog) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageWriteTimeout)
	defer cancel()
	if err := r.dispatcher.PublishFlowCompleted(pubCtx, log); err != nil {
		config.Logger.Warnf("failed to publish ai.flow_completed for %s, writing directly: %v", log.Flow, err)
		if r.fallback != nil {
			r.fallback.Record(ctx, log)
		}
	}
}
