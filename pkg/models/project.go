package models

import (
	"fmt"
	"strings"
)

// ProjectConfig 项目的构建配置，加载后只读
//
// 来源为 package.json 中的 config.forge，可由项目根目录下的 forge.config.{yaml,json,toml} 覆盖
type ProjectConfig struct {
	// Dir 项目根目录（绝对路径）
	Dir string `mapstructure:"-" json:"-"`

	// OutDir 输出目录，为空时使用 <Dir>/out
	OutDir string `mapstructure:"out_dir" json:"out_dir,omitempty" jsonschema:"title=OutDir,description=Output directory for packaged apps and make artifacts"`

	// MakeTargets 平台 -> maker 列表，键为平台标识或 all
	MakeTargets map[string][]string `mapstructure:"make_targets" json:"make_targets,omitempty" jsonschema:"title=MakeTargets,description=Platform to ordered list of maker specs"`

	// PublishTargets 平台 -> publisher 列表
	PublishTargets map[string][]string `mapstructure:"publish_targets" json:"publish_targets,omitempty" jsonschema:"title=PublishTargets,description=Platform to ordered list of publishers"`

	// PackagerConfig 传给外部打包步骤的选项
	PackagerConfig PackagerConfig `mapstructure:"electronPackagerConfig" json:"electronPackagerConfig,omitempty" jsonschema:"title=PackagerConfig"`

	// MakerConfig maker 名称（或 ConfigKey）-> 该 maker 的选项
	MakerConfig map[string]map[string]any `mapstructure:"maker_config" json:"maker_config,omitempty" jsonschema:"title=MakerConfig,description=Per maker options keyed by maker name"`

	// PackageJSON 原始 package.json 内容
	PackageJSON map[string]any `mapstructure:"-" json:"-"`
}

// PackagerConfig 打包选项
type PackagerConfig struct {
	All    bool     `mapstructure:"all" json:"all,omitempty"`
	Asar   any      `mapstructure:"asar" json:"asar,omitempty" jsonschema:"description=true/false or an object with unpack/unpackDir"`
	Ignore []string `mapstructure:"ignore" json:"ignore,omitempty" jsonschema:"description=Regular expressions of paths to leave out of the bundle"`
	// Extra 其余未识别的选项，原样传给打包器
	Extra map[string]any `mapstructure:",remain" json:"-"`
}

// AsarEnabled 是否启用 asar 归档
func (c PackagerConfig) AsarEnabled() bool {
	switch v := c.Asar.(type) {
	case bool:
		return v
	case map[string]any:
		return true
	default:
		return false
	}
}

// AsarUnpack 返回 asar 的 unpack/unpackDir 设置，均未设置时返回空字符串
func (c PackagerConfig) AsarUnpack() string {
	m, ok := c.Asar.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"unpack", "unpackDir", "unpackdir"} {
		if v, ok := m[key]; ok && v != nil && fmt.Sprint(v) != "" {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// AppName 应用名称，优先 productName
func (c *ProjectConfig) AppName() string {
	for _, key := range []string{"productName", "name"} {
		if v, ok := c.PackageJSON[key].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return "app"
}

// AppVersion package.json 中的版本号
func (c *ProjectConfig) AppVersion() string {
	if v, ok := c.PackageJSON["version"].(string); ok && v != "" {
		return v
	}
	return "0.0.0"
}

// HasDependency 检查 dependencies/devDependencies 中是否存在某个依赖
func (c *ProjectConfig) HasDependency(name string) bool {
	return c.HasDependencyFunc(func(dep string) bool { return dep == name })
}

// HasDependencyFunc 检查 dependencies/devDependencies 中是否有依赖满足 match
func (c *ProjectConfig) HasDependencyFunc(match func(name string) bool) bool {
	for _, section := range []string{"dependencies", "devDependencies"} {
		deps, ok := c.PackageJSON[section].(map[string]any)
		if !ok {
			continue
		}
		for name := range deps {
			if match(name) {
				return true
			}
		}
	}
	return false
}

// ValidateKeys 校验 make_targets / publish_targets 的键
func (c *ProjectConfig) ValidateKeys() error {
	for _, table := range []map[string][]string{c.MakeTargets, c.PublishTargets} {
		for key := range table {
			if _, err := ParsePlatform(key); err != nil {
				return err
			}
		}
	}
	return nil
}
