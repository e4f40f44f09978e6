package style

import (
	"bytes"
	"regexp"
	"testing"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestPrintJSON_Layout(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{
		"maker":     "zip",
		"artifacts": []string{"a.zip", "b<c>.zip"},
		"empty":     []int{},
		"ok":        true,
		"size":      12,
		"none":      nil,
	}
	if err := PrintJSON(&buf, v); err != nil {
		t.Fatal(err)
	}
	got := ansi.ReplaceAllString(buf.String(), "")
	want := `{
  "artifacts": [
    "a.zip",
    "b<c>.zip"
  ],
  "empty": [],
  "maker": "zip",
  "none": null,
  "ok": true,
  "size": 12
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintJSON_Invalid(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, []byte(`{"a":`)); err == nil {
		t.Fatal("expected error for truncated input")
	}
}
