package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {
	s := Schema{Fields: []Field{
		{Name: "title", Required: true, MinLen: 3},
		{Name: "note", MinLen: 4},
		{Name: "tags", Kind: KindStringList},
	}}

	cases := []struct {
		name      string
		values    map[string]any
		wantField string
	}{
		{"ok", map[string]any{"title": "abc"}, ""},
		{"missing required", map[string]any{}, "title"},
		{"nil required", map[string]any{"title": nil}, "title"},
		{"wrong type", map[string]any{"title": 3}, "title"},
		{"too short", map[string]any{"title": "ab"}, "title"},
		{"surrounding whitespace not counted", map[string]any{"title": "  ab  "}, "title"},
		{"multibyte counted as runes", map[string]any{"title": "한글임"}, ""},
		{"optional empty ok", map[string]any{"title": "abc", "note": ""}, ""},
		{"optional short rejected", map[string]any{"title": "abc", "note": "no"}, "note"},
		{"optional list empty ok", map[string]any{"title": "abc", "tags": []string{}}, ""},
		{"list wrong type", map[string]any{"title": "abc", "tags": "go"}, "tags"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Validate("test", tc.values)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.wantField, ve.Field)
			assert.Equal(t, "test", ve.Flow)
		})
	}
}

func TestLLMSchemaKeepsFieldOrder(t *testing.T) {
	ls := SummarizePosts.OutputSchema.LLMSchema()
	require.Len(t, ls.Fields, 2)
	assert.Equal(t, "summary", ls.Fields[0].Name)
	assert.Equal(t, "suggestions", ls.Fields[1].Name)
	assert.True(t, ls.Fields[1].Required)
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONObject("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSONObject(`noise {"a":{"b":2}} trailing`))
	assert.Equal(t, "", extractJSONObject("no braces"))
	assert.Equal(t, "", extractJSONObject("} backwards {"))
}
