package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAI 는 openai-go SDK(chat completions) 기반 Model 구현체다.
// OpenAI 호환 엔드포인트는 BaseURL 로 지정한다.
type OpenAI struct {
	model  string
	client openai.Client
}

func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is not set")
	}
	if model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{model: model, client: openai.NewClient(opts...)}, nil
}

func (o *OpenAI) Name() string { return o.model }

func (o *OpenAI) Generate(ctx context.Context, req Request) (Response, error) {
	start := time.Now()

	var msgs []openai.ChatCompletionMessageParamUnion
	if req.Output != nil {
		msgs = append(msgs, openai.SystemMessage(req.Output.Instruction()))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: msgs,
	}
	// 스키마가 있으면 JSON object 모드로 강제한다. 필드 목록은 system 메시지에 있다.
	if req.Output != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Response{}, err
	}
	if len(completion.Choices) == 0 {
		return Response{}, errors.New("openai: empty choices")
	}

	return Response{
		Text:         completion.Choices[0].Message.Content,
		ModelName:    o.model,
		ModelVersion: completion.Model,
		Latency:      time.Since(start),
		Usage: TokenUsage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
			TotalTokens:  completion.Usage.TotalTokens,
		},
	}, nil
}
