package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicNames(t *testing.T) {
	topic := NewTopic("post-pilot.ai.events")

	assert.Equal(t, "post-pilot.ai.events.dlq", topic.DLQ())
	assert.Equal(t, []string{
		"post-pilot.ai.events.retry.1",
		"post-pilot.ai.events.retry.2",
		"post-pilot.ai.events.retry.3",
		"post-pilot.ai.events.retry.4",
	}, topic.RetryTopics())

	name, err := topic.RetryTopic(2)
	require.NoError(t, err)
	assert.Equal(t, "post-pilot.ai.events.retry.2", name)

	_, err = topic.RetryTopic(0)
	assert.ErrorIs(t, err, ErrMaxRetryExceeded)
	_, err = topic.RetryTopic(len(RetryDelays) + 1)
	assert.ErrorIs(t, err, ErrMaxRetryExceeded)
}

func TestRetryTopicsRoundTripThroughParser(t *testing.T) {
	for i, name := range TopicPostEvents.RetryTopics() {
		d, ok := ParseRetryDelay(name)
		require.True(t, ok, name)
		assert.Equal(t, RetryDelays[i], d)
	}
}

func TestParseRetryDelayRejects(t *testing.T) {
	for _, name := range []string{
		"post-pilot.post.events",
		"post-pilot.post.events.retry.",
		"post-pilot.post.events.retry.10s",
		"post-pilot.post.events.retry.0",
		"post-pilot.post.events.retry.99",
	} {
		_, ok := ParseRetryDelay(name)
		assert.False(t, ok, name)
	}
}

func TestFailureSchedulesRetriesThenDLQ(t *testing.T) {
	topic := NewTopic("t")
	evt := Event{ID: "e1", MaxRetry: 2}

	next, evt, dlq := Failure(topic, evt, errors.New("boom"))
	assert.False(t, dlq)
	assert.Equal(t, "t.retry.1", next)
	assert.Equal(t, 1, evt.Retry)
	assert.Equal(t, "boom", evt.LastError)

	next, evt, dlq = Failure(topic, evt, errors.New("boom again"))
	assert.False(t, dlq)
	assert.Equal(t, "t.retry.2", next)
	assert.Equal(t, 2, evt.Retry)

	next, evt, dlq = Failure(topic, evt, errors.New("still failing"))
	assert.True(t, dlq)
	assert.Equal(t, "t.dlq", next)
	assert.Equal(t, 2, evt.Retry)
	assert.Equal(t, "still failing", evt.LastError)
}

func TestFailureClampsMaxRetry(t *testing.T) {
	_, evt, dlq := Failure(NewTopic("t"), Event{MaxRetry: 0}, errors.New("x"))
	assert.False(t, dlq)
	assert.Equal(t, len(RetryDelays), evt.MaxRetry)
}

type sample struct {
	PostID string    `json:"post_id"`
	At     time.Time `json:"at"`
}

func TestJSONEventAndRouter(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	evt, err := NewJSONEvent("", "post.published", sample{PostID: "p1", At: at}, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, len(RetryDelays), evt.MaxRetry)

	var got sample
	router := Router{
		"post.published": Typed(func(ctx context.Context, s sample, meta Event) error {
			got = s
			return nil
		}),
	}
	require.NoError(t, router.Handle(context.Background(), evt))
	assert.Equal(t, "p1", got.PostID)
	assert.True(t, at.Equal(got.At))

	// unknown types are ignored
	assert.NoError(t, router.Handle(context.Background(), Event{Type: "other"}))

	// undecodable payload surfaces as a handler error
	bad := Event{Type: "post.published", Payload: []byte(`"nope"`)}
	assert.Error(t, router.Handle(context.Background(), bad))
}
