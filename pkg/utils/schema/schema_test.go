package schema

import (
	"bytes"
	"encoding/json"
	"testing"
)

func decode(t *testing.T, gen func(*bytes.Buffer) error) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	if err := gen(&buf); err != nil {
		t.Fatalf("generate schema: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	return out
}

// definition 返回 $defs 中唯一的顶层定义
func definition(t *testing.T, s map[string]any, name string) map[string]any {
	t.Helper()
	defs, _ := s["$defs"].(map[string]any)
	def, ok := defs[name].(map[string]any)
	if !ok {
		t.Fatalf("definition %s missing, have %v", name, defs)
	}
	props, _ := def["properties"].(map[string]any)
	return props
}

func TestGenProjectSchema(t *testing.T) {
	s := decode(t, func(b *bytes.Buffer) error { return GenProjectSchema(b) })
	if s["title"] != "appforge project config" {
		t.Errorf("title = %v", s["title"])
	}
	props := definition(t, s, "ProjectConfig")
	for _, key := range []string{"out_dir", "make_targets", "publish_targets", "electronPackagerConfig", "maker_config"} {
		if _, ok := props[key]; !ok {
			t.Errorf("property %s missing", key)
		}
	}
}

func TestGenConfigSchema(t *testing.T) {
	s := decode(t, func(b *bytes.Buffer) error { return GenConfigSchema(b) })
	props := definition(t, s, "Config")
	for _, key := range []string{"log", "app", "make", "maker", "publish"} {
		if _, ok := props[key]; !ok {
			t.Errorf("section %s missing", key)
		}
	}
}

func TestGenManifestSchema(t *testing.T) {
	s := decode(t, func(b *bytes.Buffer) error { return GenManifestSchema(b) })
	props := definition(t, s, "Manifest")
	for _, key := range []string{"name", "api_version", "capabilities", "command"} {
		if _, ok := props[key]; !ok {
			t.Errorf("property %s missing", key)
		}
	}
}
