package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-pilot/cmd/api/services/servicetest"
	"post-pilot/eventbus"
	"post-pilot/events"
	"post-pilot/events/dispatcher"
	"post-pilot/models"
)

type recordingBus struct {
	events []eventbus.Event
}

func (b *recordingBus) Publish(ctx context.Context, topic string, event eventbus.Event) error {
	b.events = append(b.events, event)
	return nil
}

var sweepNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func scheduledPost(t *testing.T, posts *servicetest.Posts, owner string, at time.Time) models.Post {
	t.Helper()
	p := &models.Post{OwnerID: owner, Content: "post for " + owner}
	require.NoError(t, posts.Insert(context.Background(), p))
	out, err := posts.Schedule(context.Background(), owner, p.ID, at)
	require.NoError(t, err)
	return *out
}

func newTestSweeper(posts *servicetest.Posts, bus *recordingBus) *Sweeper {
	s := NewSweeper(posts, dispatcher.New(bus, "worker"), nil)
	s.now = func() time.Time { return sweepNow }
	return s
}

func TestSweepPublishesOnlyDuePosts(t *testing.T) {
	posts := servicetest.NewPosts()
	due := scheduledPost(t, posts, "u1", sweepNow.Add(-time.Minute))
	exact := scheduledPost(t, posts, "u2", sweepNow)
	future := scheduledPost(t, posts, "u1", sweepNow.Add(time.Hour))

	bus := &recordingBus{}
	n, err := newTestSweeper(posts, bus).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{due.ID.Hex(), exact.ID.Hex()} {
		found := false
		for _, ev := range bus.events {
			payload, err := eventbus.DecodeJSON[events.PostLifecycleEvent](ev)
			require.NoError(t, err)
			if payload.PostID == id {
				found = true
				assert.Equal(t, string(events.PostPublished), ev.Type)
				assert.Equal(t, models.PostStatusPublished, payload.Status)
				require.NotNil(t, payload.PublishedAt)
				assert.True(t, payload.PublishedAt.Equal(sweepNow))
			}
		}
		assert.True(t, found, "missing post.published for %s", id)
	}

	p, err := posts.FindByID(context.Background(), "u1", future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, p.Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	posts := servicetest.NewPosts()
	scheduledPost(t, posts, "u1", sweepNow.Add(-time.Hour))

	bus := &recordingBus{}
	s := newTestSweeper(posts, bus)
	n, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, bus.events, 1)
}

func TestSweepWithoutEventBus(t *testing.T) {
	posts := servicetest.NewPosts()
	p := scheduledPost(t, posts, "u1", sweepNow.Add(-time.Hour))

	s := NewSweeper(posts, dispatcher.New(nil, "worker"), nil)
	s.now = func() time.Time { return sweepNow }
	n, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := posts.FindByID(context.Background(), "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, got.Status)
}

// reschedulingStore 는 FindDue 직후 게시물이 다른 요청으로 재예약된 상황을 만든다.
type reschedulingStore struct {
	*servicetest.Posts
	owner string
	to    time.Time
}

func (s reschedulingStore) FindDue(ctx context.Context, now time.Time, limit int64) ([]models.Post, error) {
	due, err := s.Posts.FindDue(ctx, now, limit)
	if err != nil {
		return nil, err
	}
	for _, p := range due {
		if _, err := s.Posts.Schedule(ctx, s.owner, p.ID, s.to); err != nil {
			return nil, err
		}
	}
	return due, nil
}

func TestSweepSkipsPostRescheduledAfterLookup(t *testing.T) {
	posts := servicetest.NewPosts()
	p := scheduledPost(t, posts, "u1", sweepNow.Add(-time.Minute))
	later := sweepNow.Add(24 * time.Hour)

	bus := &recordingBus{}
	s := NewSweeper(reschedulingStore{Posts: posts, owner: "u1", to: later}, dispatcher.New(bus, "worker"), nil)
	s.now = func() time.Time { return sweepNow }

	n, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, bus.events)

	got, err := posts.FindByID(context.Background(), "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, got.Status)
	require.NotNil(t, got.ScheduledAt)
	assert.True(t, got.ScheduledAt.Equal(later))
}

func TestSweepStoreError(t *testing.T) {
	posts := servicetest.NewPosts()
	posts.Err = errors.New("mongo down")

	_, err := newTestSweeper(posts, &recordingBus{}).Run(context.Background())
	assert.Error(t, err)
}
