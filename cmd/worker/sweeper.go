package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"post-pilot/config"
	"post-pilot/events"
	"post-pilot/events/dispatcher"
	"post-pilot/metrics"
	"post-pilot/models"
)

const defaultSweepBatch = 100

type duePostStore interface {
	FindDue(ctx context.Context, now time.Time, limit int64) ([]models.Post, error)
	MarkPublished(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// Sweeper 는 예약 시각이 지난 게시물을 published 로 전환하고 post.published 를 발행한다.
// 실제 LinkedIn 게시는 하지 않는다.
type Sweeper struct {
	posts      duePostStore
	dispatcher *dispatcher.Dispatcher
	metrics    *metrics.Metrics
	batch      int64
	now        func() time.Time
}

func NewSweeper(posts duePostStore, d *dispatcher.Dispatcher, m *metrics.Metrics) *Sweeper {
	return &Sweeper{posts: posts, dispatcher: d, metrics: m, batch: defaultSweepBatch, now: time.Now}
}

// Run 은 한 번의 sweep 을 수행하고 published 로 바뀐 게시물 수를 돌려준다.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	now := s.now().UTC()
	due, err := s.posts.FindDue(ctx, now, s.batch)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, p := range due {
		ok, err := s.posts.MarkPublished(ctx, p.ID, now)
		if err != nil {
			config.ErrorWithFields("failed to mark post published", config.Fields{
				"post_id": p.ID.Hex(),
				"error":   err.Error(),
			})
			continue
		}
		if !ok {
			// 다른 sweep 이 먼저 처리했거나 그 사이 예약이 취소됨
			continue
		}
		published++

		p.Status = models.PostStatusPublished
		p.PublishedAt = &now
		if err := s.dispatcher.PublishPost(ctx, events.PostPublished, p); err != nil {
			config.WarnWithFields("failed to publish post.published", config.Fields{
				"post_id": p.ID.Hex(),
				"error":   err.Error(),
			})
		}
	}

	s.metrics.RecordPublished(ctx, published)
	return published, nil
}

// Tick 은 cron 에서 호출된다. 실행 시간이 다음 tick 을 넘지 않도록 타임아웃을 둔다.
func (s *Sweeper) Tick(ctx context.Context, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	n, err := s.Run(ctx)
	if err != nil {
		config.Logger.Errorf("sweep failed: %v", err)
		return
	}
	if n > 0 {
		config.InfoWithFields("sweep published scheduled posts", config.Fields{"count": n})
	}
}
