package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// KV 一行键值
type KV struct {
	Key   string
	Value string
}

// PrintHeading 打印区块标题
func PrintHeading(w io.Writer, title string) error {
	s := lipgloss.NewStyle().
		Foreground(ColorAccentText).
		Background(ColorAccentPrimary).
		Bold(true).
		Padding(0, 1)
	_, err := fmt.Fprintln(w, s.Render(strings.ToUpper(title)))
	return err
}

// PrintKV 以键对齐的方式打印键值列表，空值跳过，按显示宽度对齐（兼容中文键）
func PrintKV(w io.Writer, items []KV) error {
	width := 0
	for _, it := range items {
		width = max(width, runewidth.StringWidth(it.Key))
	}
	keyStyle := lipgloss.NewStyle().Foreground(ColorAccentPrimary).Bold(true)
	valStyle := lipgloss.NewStyle().Foreground(ColorText)
	for _, it := range items {
		if it.Value == "" {
			continue
		}
		pad := strings.Repeat(" ", width-runewidth.StringWidth(it.Key))
		if _, err := fmt.Fprintf(w, "  %s%s  %s\n", keyStyle.Render(it.Key), pad, valStyle.Render(it.Value)); err != nil {
			return err
		}
	}
	return nil
}
