package models

import (
	"path/filepath"
	"strings"
)

// MakerSpecKind maker 标识的类别
type MakerSpecKind string

const (
	// SpecName 内置名称或插件名（模块风格引用，例如 zip、@acme/snap）
	SpecName MakerSpecKind = "name"
	// SpecPath 文件系统路径（绝对或相对）
	SpecPath MakerSpecKind = "path"
)

// MakerSpec 标识一个 maker，解析后不可变
type MakerSpec struct {
	Raw  string        `json:"raw" yaml:"raw"`
	Kind MakerSpecKind `json:"kind" yaml:"kind"`
}

// ParseMakerSpec 将原始字符串分类为名称或路径
func ParseMakerSpec(raw string) MakerSpec {
	raw = strings.TrimSpace(raw)
	if filepath.IsAbs(raw) ||
		strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") ||
		strings.HasPrefix(raw, ".\\") || strings.HasPrefix(raw, "..\\") ||
		strings.HasPrefix(raw, "~") {
		return MakerSpec{Raw: raw, Kind: SpecPath}
	}
	// @scope/name 仍视为模块风格名称
	if !strings.HasPrefix(raw, "@") && strings.ContainsAny(raw, `/\`) {
		return MakerSpec{Raw: raw, Kind: SpecPath}
	}
	return MakerSpec{Raw: raw, Kind: SpecName}
}

// ParseMakerSpecs 解析逗号分隔的 maker 列表
func ParseMakerSpecs(list string) []MakerSpec {
	var specs []MakerSpec
	for part := range strings.SplitSeq(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		specs = append(specs, ParseMakerSpec(part))
	}
	return specs
}

func (s MakerSpec) String() string { return s.Raw }

// WorkItem 一个完全解析、可直接执行的 maker 调用
type WorkItem struct {
	Spec     MakerSpec      `json:"spec" yaml:"spec"`
	Maker    string         `json:"maker" yaml:"maker"`
	Platform Platform       `json:"platform" yaml:"platform"`
	Arch     Arch           `json:"arch" yaml:"arch"`
	Config   map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Target 返回工作项对应的 (平台, 架构)
func (w WorkItem) Target() Target {
	return Target{Platform: w.Platform, Arch: w.Arch}
}

// AppBundle 外部打包步骤为某个 (平台, 架构) 产出的应用目录
type AppBundle struct {
	Target
	Path string `json:"path" yaml:"path"`
}

// PackageOptions 传给外部打包器的参数
type PackageOptions struct {
	Dir      string         `json:"dir"`
	AppName  string         `json:"app_name"`
	Platform Platform       `json:"platform"`
	Archs    []Arch         `json:"archs"`
	OutDir   string         `json:"out_dir"`
	Ignore   []string       `json:"ignore,omitempty"`
	Asar     bool           `json:"asar"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// MakeOptions 传给 maker 的参数
type MakeOptions struct {
	AppDir      string         `json:"app_dir"`
	AppName     string         `json:"app_name"`
	OutDir      string         `json:"out_dir"`
	Platform    Platform       `json:"platform"`
	Arch        Arch           `json:"arch"`
	ForgeConfig *ProjectConfig `json:"forge_config"`
	PackageJSON map[string]any `json:"package_json"`
	Config      map[string]any `json:"config,omitempty"`
}

// MakerResult 一个工作项成功后的产物
type MakerResult struct {
	Maker     string   `json:"maker" yaml:"maker"`
	Platform  Platform `json:"platform" yaml:"platform"`
	Arch      Arch     `json:"arch" yaml:"arch"`
	Artifacts []string `json:"artifacts" yaml:"artifacts"`
}
