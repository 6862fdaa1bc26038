package flows

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"post-pilot/llm"
)

type Kind int

const (
	KindString Kind = iota
	KindStringList
)

// Field 는 스키마의 이름 있는 필드 하나다. MinLen 은 공백을 제거한 뒤의 문자 수 기준이다.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	MinLen      int
	Description string
}

type Schema struct {
	Name   string
	Fields []Field
}

// Validate 는 values 가 스키마를 만족하는지 검사하고 첫 번째 위반을 ValidationError 로 반환한다.
func (s Schema) Validate(flow string, values map[string]any) error {
	for _, f := range s.Fields {
		v, ok := values[f.Name]
		if !ok || v == nil {
			if f.Required {
				return &ValidationError{Flow: flow, Field: f.Name, Reason: "is required"}
			}
			continue
		}
		switch f.Kind {
		case KindString:
			str, ok := v.(string)
			if !ok {
				return &ValidationError{Flow: flow, Field: f.Name, Reason: "must be a string"}
			}
			if err := f.checkText(flow, f.Name, str); err != nil {
				return err
			}
		case KindStringList:
			list, ok := v.([]string)
			if !ok {
				return &ValidationError{Flow: flow, Field: f.Name, Reason: "must be a list of strings"}
			}
			if f.Required && len(list) == 0 {
				return &ValidationError{Flow: flow, Field: f.Name, Reason: "must contain at least one entry"}
			}
			for i, item := range list {
				if err := f.checkText(flow, fmt.Sprintf("%s[%d]", f.Name, i), item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (f Field) checkText(flow, name, v string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	if n == 0 {
		if f.Required {
			return &ValidationError{Flow: flow, Field: name, Reason: "must not be empty"}
		}
		return nil
	}
	if n < f.MinLen {
		return &ValidationError{Flow: flow, Field: name, Reason: fmt.Sprintf("must be at least %d characters", f.MinLen)}
	}
	return nil
}

// LLMSchema 는 모델에 넘길 출력 스키마로 변환한다. 출력 스키마는 문자열 필드만 갖는다.
func (s Schema) LLMSchema() *llm.Schema {
	out := &llm.Schema{Name: s.Name}
	for _, f := range s.Fields {
		out.Fields = append(out.Fields, llm.SchemaField{
			Name:        f.Name,
			Description: f.Description,
			Required:    f.Required,
		})
	}
	return out
}
