package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-pilot/config"
)

var testSchema = &Schema{
	Name: "SummaryResult",
	Fields: []SchemaField{
		{Name: "summary", Description: "A summary of which topics performed best.", Required: true},
		{Name: "suggestions", Description: "Suggestions to increase engagement.", Required: true},
		{Name: "notes", Description: "free form"},
	},
}

func TestSchemaRequiredNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"suggestions", "summary"}, testSchema.RequiredNames())
}

func TestSchemaInstructionListsEveryField(t *testing.T) {
	ins := testSchema.Instruction()
	assert.Contains(t, ins, "- summary (required): A summary of which topics performed best.")
	assert.Contains(t, ins, "- suggestions (required)")
	assert.Contains(t, ins, "- notes (optional)")
	assert.Contains(t, ins, "raw JSON only")
}

func TestToGenaiSchema(t *testing.T) {
	gs := toGenaiSchema(testSchema)
	require.Len(t, gs.Properties, 3)
	assert.Equal(t, []string{"summary", "suggestions", "notes"}, gs.PropertyOrdering)
	assert.Equal(t, []string{"suggestions", "summary"}, gs.Required)
	assert.Equal(t, "SummaryResult", gs.Title)
}

func TestMockModelFillsEveryField(t *testing.T) {
	resp, err := MockModel{}.Generate(context.Background(), Request{Prompt: "Topic:   Go\n\nTone: calm", Output: testSchema})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Text), &out))
	assert.Len(t, out, 3)
	assert.Equal(t, "[mock summary] Topic: Go Tone: calm", out["summary"])
	assert.Equal(t, "mock", resp.ModelName)
}

func TestNewFromConfig(t *testing.T) {
	m, err := NewFromConfig(context.Background(), config.LLMConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", m.Name())

	_, err = NewFromConfig(context.Background(), config.LLMConfig{Provider: "watsonx"})
	assert.ErrorContains(t, err, "unsupported LLM provider")

	t.Setenv("GEMINI_API_KEY", "")
	_, err = NewFromConfig(context.Background(), config.LLMConfig{Provider: "google", ModelName: "gemini-2.0-flash"})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "")
	_, err = NewFromConfig(context.Background(), config.LLMConfig{Provider: "openai", ModelName: "gpt-4o-mini"})
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestNewOpenAIKeepsModel(t *testing.T) {
	m, err := NewOpenAI("sk-test", "gpt-4o-mini", "http://localhost:11434/v1")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", m.Name())
	assert.Len(t, m.opts, 2)
}

func TestOpenAIRequestsJSONObjectForStructuredOutput(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini-2024-07-18",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"summary\":\"s\",\"suggestions\":\"t\"}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
		}`))
	}))
	defer srv.Close()

	m, err := NewOpenAI("sk-test", "gpt-4o-mini", srv.URL+"/")
	require.NoError(t, err)

	resp, err := m.Generate(context.Background(), Request{Prompt: "Posts: ...", Output: testSchema})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"s","suggestions":"t"}`, resp.Text)
	assert.Equal(t, "gpt-4o-mini", resp.ModelName)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.ModelVersion)
	assert.EqualValues(t, 20, resp.Usage.TotalTokens)

	_, err = m.Generate(context.Background(), Request{Prompt: "plain text please"})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Equal(t, map[string]any{"type": "json_object"}, bodies[0]["response_format"])
	msgs, ok := bodies[0]["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
	assert.NotContains(t, bodies[1], "response_format")
}

func TestNewOpenAIRequiresKeyAndModel(t *testing.T) {
	_, err := NewOpenAI("", "gpt-4o-mini", "")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
	_, err = NewOpenAI("sk-test", "", "")
	assert.Error(t, err)
}
