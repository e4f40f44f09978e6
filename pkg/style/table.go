package style

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	xterm "github.com/charmbracelet/x/term"
)

// PrintTable 输出带边框的表格
// width<=0 时按终端宽度（探测失败为 80）；单元格中的多行内容按行显示
func PrintTable(w io.Writer, headers []string, rows [][]string, width int) error {
	if width <= 0 {
		width = detectTerminalWidth(w)
		if width <= 0 {
			width = 80
		}
	}

	re := lipgloss.NewRenderer(w)
	cell := re.NewStyle().Padding(0, 1)
	header := cell.Foreground(ColorText).Bold(true)

	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(ColorBorder)).
		Headers(upper...).
		Width(width).
		Rows(collapseRepeats(rows)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col > 0 && col == len(headers)-1 {
				return cell.Foreground(ColorMuted)
			}
			return cell
		})

	_, err := fmt.Fprintln(w, tbl)
	return err
}

// collapseRepeats 第一列与上一行相同时置空，使分组更易读
func collapseRepeats(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
		if i > 0 && len(r) > 0 && len(rows[i-1]) > 0 && r[0] == rows[i-1][0] {
			out[i][0] = ""
		}
	}
	return out
}

// detectTerminalWidth 从 writer 或 COLUMNS 获取终端宽度，失败返回 0
func detectTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if cols, _, err := xterm.GetSize(f.Fd()); err == nil && cols > 0 {
			return cols
		}
	}
	if v := os.Getenv("COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// isTerminal 判断 writer 是否为终端
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && xterm.IsTerminal(f.Fd())
}
