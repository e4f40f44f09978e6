// Package style 提供终端输出样式：表格、树、标题、JSON 高亮、Markdown 与 spinner
package style

import "github.com/charmbracelet/lipgloss"

// 调色板
const (
	// 强调色，用于标题背景与根节点
	ColorAccentPrimary = lipgloss.Color("#33A1FF")

	// 强调背景上的文本
	ColorAccentText = lipgloss.Color("#FFFFFF")

	// 普通文本
	ColorText = lipgloss.Color("#E4E4E4")

	// 次要文本（路径、说明）
	ColorMuted = lipgloss.Color("#9CA3AF")

	// 边框与连接符
	ColorBorder = lipgloss.Color("#444444")

	// 失败/不可用
	ColorDanger = lipgloss.Color("#FF5555")

	// 成功/可用
	ColorSuccess = lipgloss.Color("#22C55E")

	// JSON 高亮
	ColorJSONKey    = lipgloss.Color("#55bcf4ff")
	ColorJSONValue  = ColorAccentText
	ColorJSONNumber = lipgloss.Color("#d4ec19ff")
	ColorJSONBool   = lipgloss.Color("#dfab49ff")
	ColorJSONNull   = lipgloss.Color("#6272A4")
	ColorJSONPunct  = lipgloss.Color("#6B7280")
)

// Status 渲染 yes/no 状态文本
func Status(ok bool, yes, no string) string {
	if ok {
		return lipgloss.NewStyle().Foreground(ColorSuccess).Render(yes)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger).Render(no)
}
