package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// MockModel 은 외부 모델을 호출하지 않는 로컬 개발용 구현체다.
// 스키마의 모든 필드를 프롬프트 앞부분으로 채운 JSON 을 돌려준다.
type MockModel struct{}

func (MockModel) Name() string { return "mock" }

func (MockModel) Generate(_ context.Context, req Request) (Response, error) {
	start := time.Now()
	out := map[string]string{}
	if req.Output != nil {
		snippet := strings.Join(strings.Fields(req.Prompt), " ")
		if r := []rune(snippet); len(r) > 120 {
			snippet = string(r[:120])
		}
		for _, f := range req.Output.Fields {
			out[f.Name] = "[mock " + f.Name + "] " + snippet
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Text:      string(b),
		ModelName: "mock",
		Latency:   time.Since(start),
	}, nil
}
