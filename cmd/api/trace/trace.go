package trace

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"post-pilot/config"
)

type ctxKey string

const (
	ctxKeyTrace ctxKey = "trace_info"
	ctxKeyFlow  ctxKey = "trace_flow"
)

// Info 는 하나의 HTTP 요청에 대한 트레이싱 정보를 담는다.
// spanSeq 는 같은 요청 안에서 flow 실행(모델 호출)마다 1,2,3,... 증가한다.
// uid 는 인증 미들웨어가 토큰을 검증한 뒤에 채운다.
type Info struct {
	RequestID string
	spanSeq   int64

	mu  sync.RWMutex
	uid string
}

// Span 은 요청 안에서 실행된 flow 한 번을 가리킨다.
type Span struct {
	RequestID string
	SpanID    string
	Flow      string
	UID       string
}

// Fields 는 flow 로그와 AI 사용 로그가 공유하는 상관관계 필드를 돌려준다.
func (s Span) Fields() config.Fields {
	f := config.Fields{
		"request_id": s.RequestID,
		"span_id":    s.SpanID,
		"flow":       s.Flow,
	}
	if s.UID != "" {
		f["uid"] = s.UID
	}
	return f
}

func GenerateID() string {
	return uuid.NewString()
}

func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	info := &Info{RequestID: requestID, spanSeq: initialSpan}
	return context.WithValue(ctx, ctxKeyTrace, info)
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RequestID
}

// SetUser 는 인증된 사용자를 요청 트레이스에 기록한다. 트레이스가 없으면 무시한다.
func SetUser(ctx context.Context, uid string) {
	info := infoFromContext(ctx)
	if info == nil {
		return
	}
	info.mu.Lock()
	info.uid = uid
	info.mu.Unlock()
}

func UserFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	info.mu.RLock()
	defer info.mu.RUnlock()
	return info.uid
}

func FlowFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(ctxKeyFlow).(string)
	return v
}

// CurrentSpanID 는 현재 span 값을 증가시키지 않고 반환한다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	val := atomic.LoadInt64(&info.spanSeq)
	if val <= 0 {
		return "0"
	}
	return strconv.FormatInt(val, 10)
}

// NextSpanID 는 spanSeq 를 1 증가시키고 (requestID, spanID) 를 반환한다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	if val <= 0 {
		val = 1
	}
	return info.RequestID, strconv.FormatInt(val, 10)
}

// StartFlow 는 새 span 을 열고 flow 이름을 실은 컨텍스트를 돌려준다.
// uid 가 비어 있으면 요청 트레이스에 기록된 사용자를 쓴다.
func StartFlow(ctx context.Context, flow, uid string) (context.Context, Span) {
	requestID, spanID := NextSpanID(ctx)
	if uid == "" {
		uid = UserFromContext(ctx)
	}
	ctx = context.WithValue(ctx, ctxKeyFlow, flow)
	return ctx, Span{RequestID: requestID, SpanID: spanID, Flow: flow, UID: uid}
}

// Fields 는 컨텍스트에 실린 요청/사용자/flow 정보를 로그 필드로 만든다.
func Fields(ctx context.Context) config.Fields {
	f := config.Fields{}
	if id := RequestIDFromContext(ctx); id != "" {
		f["request_id"] = id
		f["span_id"] = CurrentSpanID(ctx)
	}
	if uid := UserFromContext(ctx); uid != "" {
		f["uid"] = uid
	}
	if flow := FlowFromContext(ctx); flow != "" {
		f["flow"] = flow
	}
	return f
}
