package models

import (
	"strings"
	"time"
)

// PluginSource defines the source type of a maker plugin.
//
// The following constants represent the possible sources of a plugin:
// - SourceUserHome: User's home directory.
// - SourceCurrentDir: Current working directory.
// - SourceConfig: Specified in the configuration file.
type PluginSource string

const (
	// SourceUserHome 用户主目录
	SourceUserHome PluginSource = "user-home"
	// SourceCurrentDir 当前目录
	SourceCurrentDir PluginSource = "current-dir"
	// SourceConfig 配置文件指定
	SourceConfig PluginSource = "config"
)

// MakerPluginPrefix 外部 maker 可执行文件名前缀
const MakerPluginPrefix = "appforge-maker-"

// PluginInfo 外部 maker 插件信息
type PluginInfo struct {
	Name         string       `json:"name"`        // 文件名
	Path         string       `json:"path"`        // 完整路径
	Source       PluginSource `json:"source"`      // 来源
	SourcePath   string       `json:"source_path"` // 来源目录
	Size         int64        `json:"size"`        // 文件大小
	ModTime      time.Time    `json:"mod_time"`    // 修改时间
	IsExecutable bool         `json:"executable"`  // 是否可执行
}

// GetDisplayName 返回去掉前缀和扩展名后的 maker 名称
func (p *PluginInfo) GetDisplayName() string {
	name := strings.TrimPrefix(p.Name, MakerPluginPrefix)
	for _, ext := range []string{".exe", ".bat", ".cmd"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
