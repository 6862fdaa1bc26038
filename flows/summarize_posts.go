package flows

// SummaryRequest 의 순서는 프롬프트에 표시되는 순서 그대로다.
type SummaryRequest struct {
	PostContents []string `json:"postContents"`
}

func (r SummaryRequest) Values() map[string]any {
	return map[string]any{"postContents": r.PostContents}
}

type SummaryResult struct {
	Summary     string `json:"summary"`
	Suggestions string `json:"suggestions"`
}

// PostDelimiter precedes every past post in the rendered prompt and closes the list.
const PostDelimiter = "---"

const summarizePostsPrompt = `You are an expert social media manager. You will analyze a user's past LinkedIn posts and provide a summary of which topics performed best, and give suggestions on how to improve future posts to increase engagement. The user has provided the content of their past posts. Here they are:
{{range .postContents}}
` + PostDelimiter + `
{{.}}{{end}}
` + PostDelimiter

var SummarizePosts = define[SummaryRequest, SummaryResult](
	"summarizePosts",
	Schema{
		Name: "SummaryRequest",
		Fields: []Field{
			{Name: "postContents", Kind: KindStringList, Required: true, MinLen: 1, Description: "The content of the user's past LinkedIn posts."},
		},
	},
	Schema{
		Name: "SummaryResult",
		Fields: []Field{
			{Name: "summary", Required: true, Description: "A summary of which topics performed best."},
			{Name: "suggestions", Required: true, Description: "Suggestions on how to improve future posts to increase engagement."},
		},
	},
	summarizePostsPrompt,
)
