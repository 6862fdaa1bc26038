package eventbus

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Topic 은 기본 토픽 이름과 그로부터 파생되는 재시도/DLQ 토픽 이름을 관리한다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ 토픽 이름 (예: post-pilot.post.events.dlq)
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// RetryTopics 는 모든 재시도 토픽 이름을 순서대로 반환한다.
func (t Topic) RetryTopics() []string {
	topics := make([]string, len(RetryDelays))
	for i := range RetryDelays {
		topics[i] = fmt.Sprintf("%s.retry.%d", t.base, i+1)
	}
	return topics
}

// RetryTopic 은 retryCount(1-based) 번째 재시도 토픽 이름을 반환한다.
func (t Topic) RetryTopic(retryCount int) (string, error) {
	if retryCount <= 0 || retryCount > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return fmt.Sprintf("%s.retry.%d", t.base, retryCount), nil
}

// ParseRetryDelay 는 "<base>.retry.<n>" 형식의 토픽 이름에서 지연 시간을 추출한다.
func ParseRetryDelay(name string) (time.Duration, bool) {
	idx := strings.LastIndex(name, ".retry.")
	if idx == -1 || idx+7 >= len(name) {
		return 0, false
	}
	n, err := strconv.Atoi(name[idx+7:])
	if err != nil || n <= 0 || n > len(RetryDelays) {
		return 0, false
	}
	return RetryDelays[n-1], true
}

var (
	// TopicPostEvents 는 게시물 수명주기 이벤트 (저장/예약/삭제/발행)
	TopicPostEvents = NewTopic("post-pilot.post.events")
	// TopicAIEvents 는 AI 플로우 실행 결과(사용량 로그) 이벤트
	TopicAIEvents = NewTopic("post-pilot.ai.events")
)

var AllTopics = []Topic{
	TopicPostEvents,
	TopicAIEvents,
}
