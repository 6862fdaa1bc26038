package eventbus

import (
	"errors"
	"os"
)

// Brokers 는 KAFKA_BOOTSTRAP_SERVERS 환경변수를 읽는다.
func Brokers() (string, error) {
	v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if v == "" {
		return "", errors.New("KAFKA_BOOTSTRAP_SERVERS environment variable is required")
	}
	return v, nil
}

// GroupID 는 KAFKA_GROUP_ID 환경변수를 읽고, 없으면 fallback 을 사용한다.
func GroupID(fallback string) string {
	if v := os.Getenv("KAFKA_GROUP_ID"); v != "" {
		return v
	}
	return fallback
}
