package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	// 게시물 본문은 줄바꿈이 의미를 갖는다
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// PreviewHTML 은 게시물 본문을 미리보기용 HTML 로 변환한다.
// 본문에 포함된 raw HTML 은 출력하지 않는다.
func PreviewHTML(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
