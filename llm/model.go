package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Model 은 프롬프트를 받아 구조화된 텍스트(JSON)를 돌려주는 외부 생성 모델 추상화다.
// 구현체 교체(Gemini/OpenAI/Mock)가 가능하도록 인터페이스로 노출한다.
type Model interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// Request 는 렌더링된 프롬프트와 기대하는 출력 스키마다.
type Request struct {
	Prompt string
	Output *Schema
}

// Schema 는 모델 출력의 평평한 문자열 필드 집합이다.
type Schema struct {
	Name   string
	Fields []SchemaField
}

type SchemaField struct {
	Name        string
	Description string
	Required    bool
}

// RequiredNames 는 필수 필드 이름 목록을 정렬해 반환한다.
func (s *Schema) RequiredNames() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Instruction 은 JSON 응답 모드가 없는 모델에 붙이는 출력 형식 지시문이다.
func (s *Schema) Instruction() string {
	var sb strings.Builder
	sb.WriteString("The response MUST be a single valid JSON object with the following string keys:\n")
	for _, f := range s.Fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", f.Name, req, f.Description))
	}
	sb.WriteString("Do NOT wrap the JSON in a markdown code block. Respond with the raw JSON only.")
	return sb.String()
}

type Response struct {
	Text         string
	ModelName    string
	ModelVersion string
	Usage        TokenUsage
	Latency      time.Duration
}

type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}
