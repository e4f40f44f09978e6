// Package main 生成 docs/ 下的 JSON Schema 文件
package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/yeisme/appforge/pkg/utils/schema"
)

//go:generate go run github.com/yeisme/appforge/cmd/schema
func main() {
	docs := filepath.Join("..", "..", "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		panic(err)
	}

	for name, gen := range map[string]func(io.Writer) error{
		"config_schema.json":  schema.GenConfigSchema,
		"project_schema.json": schema.GenProjectSchema,
		"maker_schema.json":   schema.GenManifestSchema,
	} {
		if err := writeSchema(filepath.Join(docs, name), gen); err != nil {
			panic(err)
		}
	}
}

func writeSchema(path string, gen func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return gen(f)
}
