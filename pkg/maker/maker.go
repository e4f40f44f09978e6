// Package maker 定义 maker 插件契约，并提供按名称或路径加载 maker 的注册表
//
// maker 把一个已打包的应用目录转换为可分发的产物（zip、dmg、deb 等）。
// 内置 maker 在构造注册表时注入，外部 maker 通过清单文件或可执行协议加载。
package maker

import (
	"context"
	"slices"

	"github.com/yeisme/appforge/pkg/models"
	log2 "github.com/yeisme/appforge/pkg/utils/log"
)

var log log2.Logger

func init() {
	log = log2.GetLogger()
}

// HostAPIVersion 宿主实现的 maker API 版本，主版本号相同即兼容
const HostAPIVersion = "v1"

// Capability maker 显式声明的能力
type Capability string

const (
	// CapSupportCheck 能回答 IsSupportedOnCurrentPlatform
	CapSupportCheck Capability = "support-check"
	// CapMake 能执行 Make
	CapMake Capability = "make"
)

// RequiredCapabilities 宿主要求每个 maker 声明的能力
func RequiredCapabilities() []Capability {
	return []Capability{CapSupportCheck, CapMake}
}

// Descriptor maker 的自描述信息
type Descriptor struct {
	Name             string            `mapstructure:"name" json:"name" yaml:"name"`
	APIVersion       string            `mapstructure:"api_version" json:"api_version" yaml:"api_version"`
	DefaultPlatforms []models.Platform `mapstructure:"default_platforms" json:"default_platforms,omitempty" yaml:"default_platforms,omitempty"`
	Capabilities     []Capability      `mapstructure:"capabilities" json:"capabilities" yaml:"capabilities"`
	Description      string            `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
	// ConfigKey 在项目 maker_config 中查找选项所用的键，为空时使用 Name
	ConfigKey string `mapstructure:"config_key" json:"config_key,omitempty" yaml:"config_key,omitempty"`
}

// Has 是否声明了某项能力
func (d Descriptor) Has(c Capability) bool {
	return slices.Contains(d.Capabilities, c)
}

// Key 返回 maker 选项的查找键
func (d Descriptor) Key() string {
	if d.ConfigKey != "" {
		return d.ConfigKey
	}
	return d.Name
}

// IsDefaultFor maker 是否是该平台的默认 maker
func (d Descriptor) IsDefaultFor(p models.Platform) bool {
	return slices.Contains(d.DefaultPlatforms, p)
}

// Maker 所有 maker（内置或外部）实现的契约
type Maker interface {
	// Describe 返回自描述信息，加载时用于版本与能力校验
	Describe() Descriptor
	// IsSupportedOnCurrentPlatform 纯查询，不应有副作用
	IsSupportedOnCurrentPlatform() bool
	// Make 产出产物并返回它们的绝对路径
	// 实现必须能在干净的输出目录中重复执行
	Make(ctx context.Context, opts models.MakeOptions) ([]string, error)
}
