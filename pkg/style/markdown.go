package style

import (
	"io"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown 渲染 Markdown 到 w
// width<=0 时使用终端宽度，结果限制在 [80, 120] 且不超过终端宽度
// theme 为空时终端使用 dracula，非终端（管道、文件）使用无颜色的 notty
func RenderMarkdown(w io.Writer, input string, width int, theme string) error {
	if theme == "" {
		theme = "notty"
		if isTerminal(w) {
			theme = "dracula"
		}
	}
	termWidth := detectTerminalWidth(w)
	if termWidth <= 0 {
		termWidth = 80
	}
	if width <= 0 {
		width = termWidth
	}
	width = min(max(width, 80), 120, max(termWidth, 80))

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(width),
		glamour.WithInlineTableLinks(true),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(input)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
