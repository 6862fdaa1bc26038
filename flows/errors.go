package flows

import "fmt"

// ValidationError 는 모델 호출 전에 입력 검증에서 거부된 경우다.
type ValidationError struct {
	Flow   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Flow, e.Field, e.Reason)
}

// ModelOutputError 는 모델 호출이 실패했거나 출력이 스키마를 만족하지 않는 경우다.
type ModelOutputError struct {
	Flow   string
	Reason string
	Err    error
}

func (e *ModelOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Flow, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Flow, e.Reason)
}

func (e *ModelOutputError) Unwrap() error { return e.Err }
