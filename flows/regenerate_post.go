package flows

type RegenerationRequest struct {
	OriginalPost string `json:"originalPost"`
	Topic        string `json:"topic"`
	Tone         string `json:"tone"`
}

func (r RegenerationRequest) Values() map[string]any {
	return map[string]any{
		"originalPost": r.OriginalPost,
		"topic":        r.Topic,
		"tone":         r.Tone,
	}
}

type RegenerationResult struct {
	RegeneratedPost string `json:"regeneratedPost"`
}

// The "different from the original" requirement is an instruction to the model only.
const regeneratePostPrompt = `You are an expert social media manager.
The user wants to regenerate their LinkedIn post with the following specifications:

Topic: {{.topic}}
Tone: {{.tone}}
Original Post: {{.originalPost}}

Please generate a new LinkedIn post based on the topic and tone, but make sure it is different from the original post.
DO NOT mention that this is a regenerated post.
DO NOT include any introductory or concluding remarks.
`

var RegeneratePost = define[RegenerationRequest, RegenerationResult](
	"regeneratePost",
	Schema{
		Name: "RegenerationRequest",
		Fields: []Field{
			{Name: "originalPost", Required: true, MinLen: 1, Description: "The original LinkedIn post to regenerate."},
			{Name: "topic", Required: true, MinLen: 1, Description: "The topic of the LinkedIn post."},
			{Name: "tone", Required: true, MinLen: 1, Description: "The desired tone of the LinkedIn post."},
		},
	},
	Schema{
		Name: "RegenerationResult",
		Fields: []Field{
			{Name: "regeneratedPost", Required: true, Description: "The regenerated LinkedIn post."},
		},
	},
	regeneratePostPrompt,
)
