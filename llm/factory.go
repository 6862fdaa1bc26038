package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"post-pilot/config"
)

// NewFromConfig 는 llm 설정의 provider 에 맞는 Model 을 생성한다.
// API 키는 GEMINI_API_KEY / OPENAI_API_KEY 환경변수에서 읽는다.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case "google", "gemini":
		return NewGemini(ctx, os.Getenv("GEMINI_API_KEY"), cfg.ModelName)
	case "openai":
		return NewOpenAI(os.Getenv("OPENAI_API_KEY"), cfg.ModelName, cfg.BaseURL)
	case "mock":
		return MockModel{}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
