// Package schema 为配置文件生成 JSON Schema
package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/yeisme/appforge/pkg/configs"
	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
)

// GenProjectSchema 生成项目构建配置（package.json config.forge 或 forge.config.*）的 schema
func GenProjectSchema(out io.Writer) error {
	reflector := &jsonschema.Reflector{
		FieldNameTag:               "mapstructure",
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
	}
	projectSchema := reflector.Reflect(models.ProjectConfig{})
	projectSchema.Title = "appforge project config"
	return write(out, projectSchema)
}

// GenConfigSchema 生成全局应用配置的 schema
func GenConfigSchema(out io.Writer) error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "mapstructure",
	}
	return write(out, reflector.Reflect(configs.Config{}))
}

// GenManifestSchema 生成外部 maker 清单 maker.{yaml,json,toml} 的 schema
func GenManifestSchema(out io.Writer) error {
	reflector := &jsonschema.Reflector{
		FieldNameTag:               "mapstructure",
		RequiredFromJSONSchemaTags: true,
	}
	return write(out, reflector.Reflect(maker.Manifest{}))
}

func write(out io.Writer, s *jsonschema.Schema) error {
	schemaJSON, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(schemaJSON))
	return err
}
