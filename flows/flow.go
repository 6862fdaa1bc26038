package flows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"post-pilot/llm"
)

// Input 은 스키마 검증과 템플릿 렌더링에 쓰이는 이름 있는 필드 값을 제공한다.
type Input interface {
	Values() map[string]any
}

// Definition 은 하나의 flow 를 이루는 {입력 스키마, 프롬프트 템플릿, 출력 스키마} 묶음이다.
// 세 요소는 항상 함께 선언되고 함께 바뀐다.
type Definition[In Input, Out any] struct {
	Name         string
	InputSchema  Schema
	OutputSchema Schema
	tmpl         *template.Template
}

func define[In Input, Out any](name string, in, out Schema, prompt string) *Definition[In, Out] {
	return &Definition[In, Out]{
		Name:         name,
		InputSchema:  in,
		OutputSchema: out,
		tmpl:         template.Must(template.New(name).Option("missingkey=error").Parse(prompt)),
	}
}

// Invocation 은 한 번의 모델 호출 기록이다. 사용량 로그(ai_logs)에 그대로 옮겨진다.
type Invocation struct {
	Flow       string
	Prompt     string
	Response   llm.Response
	StartedAt  time.Time
	FinishedAt time.Time
}

// Validate 는 입력 스키마 검증만 수행한다.
func (d *Definition[In, Out]) Validate(in In) error {
	return d.InputSchema.Validate(d.Name, in.Values())
}

// Render 는 입력을 검증한 뒤 프롬프트를 렌더링한다. 검증 실패 시 *ValidationError 를 반환한다.
func (d *Definition[In, Out]) Render(in In) (string, error) {
	values := in.Values()
	if err := d.InputSchema.Validate(d.Name, values); err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := d.tmpl.Execute(&sb, values); err != nil {
		return "", fmt.Errorf("%s: render prompt: %w", d.Name, err)
	}
	return sb.String(), nil
}

// Run 은 검증 → 렌더링 → 모델 호출 → 출력 검증을 수행한다.
// 모델까지 도달한 경우 실패하더라도 Invocation 을 함께 반환한다.
func (d *Definition[In, Out]) Run(ctx context.Context, model llm.Model, in In) (Out, *Invocation, error) {
	var zero Out

	prompt, err := d.Render(in)
	if err != nil {
		return zero, nil, err
	}

	inv := &Invocation{Flow: d.Name, Prompt: prompt, StartedAt: time.Now()}
	resp, err := model.Generate(ctx, llm.Request{Prompt: prompt, Output: d.OutputSchema.LLMSchema()})
	inv.FinishedAt = time.Now()
	inv.Response = resp
	if err != nil {
		return zero, inv, &ModelOutputError{Flow: d.Name, Reason: "model call failed", Err: err}
	}

	out, err := d.Decode(resp.Text)
	if err != nil {
		return zero, inv, err
	}
	return out, inv, nil
}

// Decode 는 모델 응답 텍스트를 출력 스키마로 검증하고 Out 으로 변환한다.
func (d *Definition[In, Out]) Decode(text string) (Out, error) {
	var zero Out

	raw := extractJSONObject(text)
	if raw == "" {
		return zero, &ModelOutputError{Flow: d.Name, Reason: "no structured output"}
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return zero, &ModelOutputError{Flow: d.Name, Reason: "unparseable output", Err: err}
	}
	if err := d.OutputSchema.Validate(d.Name, values); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return zero, &ModelOutputError{Flow: d.Name, Reason: fmt.Sprintf("output %s %s", ve.Field, ve.Reason)}
		}
		return zero, &ModelOutputError{Flow: d.Name, Reason: "invalid output", Err: err}
	}

	var out Out
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return zero, &ModelOutputError{Flow: d.Name, Reason: "unparseable output", Err: err}
	}
	return out, nil
}

// extractJSONObject 는 마크다운 코드블록 등으로 감싸진 응답에서 JSON 객체 부분만 잘라낸다.
func extractJSONObject(text string) string {
	s := strings.TrimSpace(text)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
