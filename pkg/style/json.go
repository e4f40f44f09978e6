package style

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PrintJSON 以缩进和高亮的形式输出 v
//
// v 为 []byte 或 json.RawMessage 时视为原始 JSON 文本，其他值先经 json.Marshal 编码
func PrintJSON(w io.Writer, v any) error {
	var data []byte
	switch x := v.(type) {
	case []byte:
		data = x
	case json.RawMessage:
		data = x
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		data = b
	}
	out, err := highlightJSON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

type jsonFrame struct {
	object  bool
	n       int
	wantKey bool
}

// highlightJSON 逐个 token 重新排版并着色
func highlightJSON(data []byte) (string, error) {
	var (
		keyStyle   = lipgloss.NewStyle().Foreground(ColorJSONKey).Bold(true)
		strStyle   = lipgloss.NewStyle().Foreground(ColorJSONValue)
		numStyle   = lipgloss.NewStyle().Foreground(ColorJSONNumber)
		boolStyle  = lipgloss.NewStyle().Foreground(ColorJSONBool)
		nullStyle  = lipgloss.NewStyle().Foreground(ColorJSONNull)
		punctStyle = lipgloss.NewStyle().Foreground(ColorJSONPunct)
	)

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var b strings.Builder
	var stack []*jsonFrame
	top := func() *jsonFrame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	newline := func() {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", len(stack)))
	}
	valueDone := func() {
		if f := top(); f != nil {
			f.n++
			f.wantKey = f.object
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
			n := top().n
			stack = stack[:len(stack)-1]
			if n > 0 {
				newline()
			}
			b.WriteString(punctStyle.Render(d.String()))
			valueDone()
			continue
		}

		if f := top(); f != nil {
			if f.n > 0 && (!f.object || f.wantKey) {
				b.WriteString(punctStyle.Render(","))
			}
			if f.object && f.wantKey {
				newline()
				b.WriteString(keyStyle.Render(quote(tok.(string))))
				b.WriteString(punctStyle.Render(":") + " ")
				f.wantKey = false
				continue
			}
			if !f.object {
				newline()
			}
		}

		switch t := tok.(type) {
		case json.Delim:
			b.WriteString(punctStyle.Render(t.String()))
			stack = append(stack, &jsonFrame{object: t == '{', wantKey: t == '{'})
			continue
		case string:
			b.WriteString(strStyle.Render(quote(t)))
		case json.Number:
			b.WriteString(numStyle.Render(t.String()))
		case bool:
			b.WriteString(boolStyle.Render(fmt.Sprint(t)))
		case nil:
			b.WriteString(nullStyle.Render("null"))
		}
		valueDone()
	}
	return b.String(), nil
}

// quote 按 JSON 规则转义字符串，不转义 HTML 字符
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
