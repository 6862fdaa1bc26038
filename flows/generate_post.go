package flows

// GenerationRequest 는 새 게시물 생성 입력이다. keywords 는 비어 있어도 된다.
type GenerationRequest struct {
	Topic          string `json:"topic"`
	Tone           string `json:"tone"`
	Keywords       string `json:"keywords"`
	TargetAudience string `json:"targetAudience"`
	Goal           string `json:"goal"`
}

func (r GenerationRequest) Values() map[string]any {
	return map[string]any{
		"topic":          r.Topic,
		"tone":           r.Tone,
		"keywords":       r.Keywords,
		"targetAudience": r.TargetAudience,
		"goal":           r.Goal,
	}
}

type GenerationResult struct {
	Post string `json:"post"`
}

const generatePostPrompt = `You are an expert LinkedIn post generator. Your goal is to create engaging and effective posts based on the provided information.

Topic: {{.topic}}
Tone: {{.tone}}
Keywords: {{.keywords}}
Target Audience: {{.targetAudience}}
Goal: {{.goal}}

Generate a LinkedIn post that is appropriate for the target audience and achieves the specified goal. Ensure the post is well-written, engaging, and includes relevant keywords. The post should be compelling and encourage interaction. The post should be 2-3 short paragraphs.
`

var GeneratePost = define[GenerationRequest, GenerationResult](
	"generatePost",
	Schema{
		Name: "GenerationRequest",
		Fields: []Field{
			{Name: "topic", Required: true, MinLen: 5, Description: "The topic of the LinkedIn post."},
			{Name: "tone", Required: true, MinLen: 1, Description: "The desired tone of the post (e.g., professional, casual, humorous)."},
			{Name: "keywords", Description: "Relevant keywords to include in the post."},
			{Name: "targetAudience", Required: true, MinLen: 2, Description: "The target audience for the post (e.g., recruiters, software engineers)."},
			{Name: "goal", Required: true, MinLen: 1, Description: "The goal of the post (e.g., to inform, to promote, to engage)."},
		},
	},
	Schema{
		Name: "GenerationResult",
		Fields: []Field{
			{Name: "post", Required: true, Description: "The generated LinkedIn post."},
		},
	},
	generatePostPrompt,
)
