package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"post-pilot/config"
)

// KafkaEventBus 는 confluent-kafka-go 기반 EventBus 구현체다.
type KafkaEventBus struct {
	producer *kafka.Producer
	brokers  string
}

func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	// 전달 보고서 중 deliveryChan 으로 가지 않은 것들
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					config.Logger.Errorf("kafka delivery failed %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				config.Logger.Errorf("kafka error: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{producer: p, brokers: brokers}, nil
}

func (k *KafkaEventBus) Close() {
	if k.producer == nil {
		return
	}
	if remaining := k.producer.Flush(5000); remaining > 0 {
		config.Logger.Warnf("%d kafka messages left unflushed", remaining)
	}
	k.producer.Close()
	config.Logger.Info("kafka producer closed")
}

// Publish 는 이벤트를 발행하고 브로커의 전달 확인까지 기다린다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}

	select {
	case ev := <-deliveryChan:
		if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("deliver to %s: %w", topic, m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (k *KafkaEventBus) newConsumer(groupID string) (*kafka.Consumer, error) {
	return kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false, // 재시도/DLQ 발행 이후에만 커밋한다
		"partition.assignment.strategy": "range",
	})
}

func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic.Base(), err)
	}
	config.Logger.Infof("consumer %s subscribed to %s", groupID, topic.Base())

	for {
		select {
		case <-ctx.Done():
			config.Logger.Info("consumer shutting down")
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(100 * time.Millisecond)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) && kerr.IsFatal() {
				return fmt.Errorf("consumer fatal error: %w", err)
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			config.Logger.Errorf("malformed event on %s: %v, skipping", *msg.TopicPartition.Topic, err)
			c.CommitMessage(msg)
			continue
		}

		if evt.Retry > 0 {
			config.Logger.Infof("handling event %s (%s) retry %d/%d", evt.ID, evt.Type, evt.Retry, evt.MaxRetry)
		} else {
			config.Logger.Debugf("handling event %s (%s)", evt.ID, evt.Type)
		}

		if herr := handler(ctx, evt); herr != nil {
			next, updated, toDLQ := Failure(topic, evt, herr)
			if toDLQ {
				config.Logger.Errorf("event %s exhausted retries, sending to %s: %v", evt.ID, next, herr)
			} else {
				config.Logger.Warnf("event %s failed, scheduling retry %d/%d on %s: %v", evt.ID, updated.Retry, updated.MaxRetry, next, herr)
			}
			if err := k.Publish(ctx, next, updated); err != nil {
				// 커밋하지 않으면 같은 메시지를 다시 읽는다
				config.Logger.Errorf("publish to %s failed, offset not committed: %v", next, err)
				continue
			}
		}

		if _, err := c.CommitMessage(msg); err != nil {
			config.Logger.Errorf("commit offset: %v", err)
		}
	}
}

func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("create retry consumer: %w", err)
	}
	defer c.Close()

	retryTopics := topic.RetryTopics()
	if err := c.SubscribeTopics(retryTopics, nil); err != nil {
		return fmt.Errorf("subscribe retry topics %v: %w", retryTopics, err)
	}
	config.Logger.Infof("retry reinjector %s subscribed to %s", groupID, strings.Join(retryTopics, ", "))

	for {
		select {
		case <-ctx.Done():
			config.Logger.Info("retry reinjector shutting down")
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(100 * time.Millisecond)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) {
				if kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				if kerr.IsFatal() {
					return fmt.Errorf("retry reinjector fatal error: %w", err)
				}
			}
			config.Logger.Errorf("retry reinjector read: %v", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		topicName := *msg.TopicPartition.Topic
		delay, ok := ParseRetryDelay(topicName)
		if !ok {
			config.Logger.Errorf("unrecognised retry topic %s, skipping", topicName)
			c.CommitMessage(msg)
			continue
		}

		if wait := time.Until(msg.Timestamp.Add(delay)); wait > 0 {
			// 되감기: 커밋하지 않고 파티션 위치를 되돌려 나중에 다시 읽는다
			if wait > 500*time.Millisecond {
				wait = 500 * time.Millisecond
			}
			time.Sleep(wait)
			if err := c.Seek(msg.TopicPartition, 0); err != nil {
				config.Logger.Errorf("seek back on %s: %v", topicName, err)
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			config.Logger.Errorf("malformed event on %s: %v, skipping", topicName, err)
			c.CommitMessage(msg)
			continue
		}

		config.Logger.Infof("reinjecting event %s from %s to %s (retry %d)", evt.ID, topicName, topic.Base(), evt.Retry)
		if err := k.Publish(ctx, topic.Base(), evt); err != nil {
			config.Logger.Errorf("reinject event %s: %v, offset not committed", evt.ID, err)
			continue
		}
		if _, err := c.CommitMessage(msg); err != nil {
			config.Logger.Errorf("commit after reinject: %v", err)
		}
	}
}
