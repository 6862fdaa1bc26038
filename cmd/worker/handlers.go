package main

import (
	"context"

	"post-pilot/config"
	"post-pilot/eventbus"
	"post-pilot/events"
	"post-pilot/models"
)

type aiLogStore interface {
	Insert(ctx context.Context, log models.AILog) error
}

// aiEventRouter 는 ai.flow_completed 를 ai_logs 에 저장한다.
// 저장 실패는 에러로 돌려 retry 토픽으로 보낸다.
func aiEventRouter(store aiLogStore) eventbus.Router {
	return eventbus.Router{
		string(events.AIFlowCompleted): eventbus.Typed(func(ctx context.Context, ev events.AIFlowCompletedEvent, meta eventbus.Event) error {
			if err := store.Insert(ctx, ev.Log); err != nil {
				return err
			}
			config.InfoWithFields("ai log stored", config.Fields{
				"event_id":   meta.ID,
				"flow":       ev.Log.Flow,
				"request_id": ev.Log.RequestID,
				"retry":      meta.Retry,
			})
			return nil
		}),
	}
}

// postEventRouter 는 게시물 상태 변화 이벤트를 감사 로그로 남긴다.
func postEventRouter() eventbus.Router {
	logLifecycle := eventbus.Typed(func(ctx context.Context, ev events.PostLifecycleEvent, meta eventbus.Event) error {
		fields := config.Fields{
			"event_id": meta.ID,
			"type":     string(ev.Type),
			"post_id":  ev.PostID,
			"owner_id": ev.OwnerID,
			"status":   string(ev.Status),
			"source":   ev.Source,
		}
		if ev.ScheduledAt != nil {
			fields["scheduled_at"] = ev.ScheduledAt
		}
		config.InfoWithFields("post lifecycle", fields)
		return nil
	})

	r := eventbus.Router{}
	for _, t := range []events.EventType{
		events.PostSaved,
		events.PostScheduled,
		events.PostUnscheduled,
		events.PostDeleted,
		events.PostPublished,
	} {
		r[string(t)] = logLifecycle
	}
	return r
}
