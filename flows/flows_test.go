package flows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-pilot/llm"
)

type fakeModel struct {
	text  string
	err   error
	calls int
	last  llm.Request
}

func (m *fakeModel) Name() string { return "fake" }

func (m *fakeModel) Generate(_ context.Context, req llm.Request) (llm.Response, error) {
	m.calls++
	m.last = req
	if m.err != nil {
		return llm.Response{}, m.err
	}
	return llm.Response{Text: m.text, ModelName: "fake", Usage: llm.TokenUsage{TotalTokens: 42}}, nil
}

func validGeneration() GenerationRequest {
	return GenerationRequest{
		Topic:          "Remote onboarding rituals",
		Tone:           "inspirational",
		Keywords:       "culture, mentoring",
		TargetAudience: "engineering managers",
		Goal:           "build-brand",
	}
}

func TestGeneratePromptContainsEachFieldOnceInOrder(t *testing.T) {
	in := validGeneration()
	prompt, err := GeneratePost.Render(in)
	require.NoError(t, err)

	lines := []string{
		"Topic: " + in.Topic,
		"Tone: " + in.Tone,
		"Keywords: " + in.Keywords,
		"Target Audience: " + in.TargetAudience,
		"Goal: " + in.Goal,
	}
	prev := -1
	for _, line := range lines {
		idx := strings.Index(prompt, line)
		require.NotEqual(t, -1, idx, "missing %q", line)
		assert.Greater(t, idx, prev, "%q out of order", line)
		prev = idx
	}
	for _, v := range []string{in.Topic, in.Tone, in.Keywords, in.TargetAudience, in.Goal} {
		assert.Equal(t, 1, strings.Count(prompt, v), "value %q", v)
	}
}

func TestGenerateRejectsMissingRequiredFieldsBeforeModelCall(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*GenerationRequest)
	}{
		{"topic", func(r *GenerationRequest) { r.Topic = "" }},
		{"topic", func(r *GenerationRequest) { r.Topic = "AI" }},
		{"tone", func(r *GenerationRequest) { r.Tone = "   " }},
		{"targetAudience", func(r *GenerationRequest) { r.TargetAudience = "" }},
		{"targetAudience", func(r *GenerationRequest) { r.TargetAudience = "x" }},
		{"goal", func(r *GenerationRequest) { r.Goal = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			in := validGeneration()
			tc.mutate(&in)
			model := &fakeModel{text: `{"post":"unused"}`}

			_, inv, err := GeneratePost.Run(context.Background(), model, in)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Nil(t, inv)
			assert.Zero(t, model.calls)
		})
	}
}

func TestGenerateAllowsEmptyKeywords(t *testing.T) {
	in := validGeneration()
	in.Keywords = ""
	model := &fakeModel{text: `{"post":"Hello LinkedIn"}`}

	out, inv, err := GeneratePost.Run(context.Background(), model, in)
	require.NoError(t, err)
	assert.Equal(t, "Hello LinkedIn", out.Post)
	require.NotNil(t, inv)
	assert.Equal(t, "generatePost", inv.Flow)
	assert.Equal(t, int64(42), inv.Response.Usage.TotalTokens)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, []string{"post"}, model.last.Output.RequiredNames())
}

func TestGenerateOutputMustContainPost(t *testing.T) {
	for name, text := range map[string]string{
		"missing field": `{"content":"wrong key"}`,
		"empty field":   `{"post":"   "}`,
		"null field":    `{"post":null}`,
		"non string":    `{"post":12}`,
		"no json":       "Sorry, I cannot help with that.",
		"broken json":   `{"post": "unterminated`,
		"empty":         "",
	} {
		t.Run(name, func(t *testing.T) {
			model := &fakeModel{text: text}
			out, _, err := GeneratePost.Run(context.Background(), model, validGeneration())

			var me *ModelOutputError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, "generatePost", me.Flow)
			assert.Empty(t, out.Post)
		})
	}
}

func TestGenerateAcceptsFencedJSON(t *testing.T) {
	model := &fakeModel{text: "```json\n{\"post\":\"fenced\"}\n```"}
	out, _, err := GeneratePost.Run(context.Background(), model, validGeneration())
	require.NoError(t, err)
	assert.Equal(t, "fenced", out.Post)
}

func TestModelFailureIsModelOutputError(t *testing.T) {
	boom := errors.New("503 from upstream")
	model := &fakeModel{err: boom}

	_, inv, err := GeneratePost.Run(context.Background(), model, validGeneration())

	var me *ModelOutputError
	require.ErrorAs(t, err, &me)
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, inv)
	assert.NotEmpty(t, inv.Prompt)
}

func TestRegeneratePromptInstructsDistinctnessOnly(t *testing.T) {
	in := RegenerationRequest{OriginalPost: "X", Topic: "Hiring juniors", Tone: "casual"}
	prompt, err := RegeneratePost.Render(in)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Original Post: X")
	assert.Contains(t, prompt, "make sure it is different from the original post")

	// the flow itself does not compare the result with the original
	model := &fakeModel{text: `{"regeneratedPost":"X"}`}
	out, _, err := RegeneratePost.Run(context.Background(), model, in)
	require.NoError(t, err)
	assert.Equal(t, "X", out.RegeneratedPost)
}

func TestRegenerateValidation(t *testing.T) {
	model := &fakeModel{text: `{"regeneratedPost":"y"}`}
	_, _, err := RegeneratePost.Run(context.Background(), model, RegenerationRequest{Topic: "t", Tone: "casual"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "originalPost", ve.Field)
	assert.Zero(t, model.calls)
}

func TestRegenerateOutputMissingField(t *testing.T) {
	model := &fakeModel{text: `{"post":"wrong"}`}
	_, _, err := RegeneratePost.Run(context.Background(), model, RegenerationRequest{OriginalPost: "o", Topic: "t", Tone: "casual"})

	var me *ModelOutputError
	assert.ErrorAs(t, err, &me)
}

func TestSummaryRendersEntriesInOrderWithDelimiter(t *testing.T) {
	prompt, err := SummarizePosts.Render(SummaryRequest{PostContents: []string{"A", "B"}})
	require.NoError(t, err)

	a := strings.Index(prompt, PostDelimiter+"\nA\n")
	b := strings.Index(prompt, PostDelimiter+"\nB\n")
	require.NotEqual(t, -1, a)
	require.NotEqual(t, -1, b)
	assert.Less(t, a, b)
	assert.True(t, strings.HasSuffix(prompt, "B\n"+PostDelimiter))
	assert.Equal(t, 3, strings.Count(prompt, PostDelimiter))
}

func TestSummaryValidation(t *testing.T) {
	for name, in := range map[string]SummaryRequest{
		"nil list":    {},
		"empty list":  {PostContents: []string{}},
		"blank entry": {PostContents: []string{"fine", "  "}},
	} {
		t.Run(name, func(t *testing.T) {
			model := &fakeModel{}
			_, _, err := SummarizePosts.Run(context.Background(), model, in)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.True(t, strings.HasPrefix(ve.Field, "postContents"))
			assert.Zero(t, model.calls)
		})
	}
}

func TestSummaryOutputNeedsBothFields(t *testing.T) {
	in := SummaryRequest{PostContents: []string{"A"}}

	_, _, err := SummarizePosts.Run(context.Background(), &fakeModel{text: `{"suggestions":"post more"}`}, in)
	var me *ModelOutputError
	require.ErrorAs(t, err, &me)
	assert.Contains(t, me.Error(), "summary")

	out, _, err := SummarizePosts.Run(context.Background(), &fakeModel{text: `{"summary":"hiring posts","suggestions":"post more"}`}, in)
	require.NoError(t, err)
	assert.Equal(t, SummaryResult{Summary: "hiring posts", Suggestions: "post more"}, out)
}

func TestRunWithMockModel(t *testing.T) {
	out, inv, err := SummarizePosts.Run(context.Background(), llm.MockModel{}, SummaryRequest{PostContents: []string{"A"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Summary, "[mock summary]"))
	assert.Equal(t, "mock", inv.Response.ModelName)
}
