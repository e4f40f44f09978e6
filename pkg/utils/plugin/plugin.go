// Package plugin 提供外部 maker 插件的发现功能
//
// 插件是以 appforge-maker- 为前缀的可执行文件，按以下顺序查找：
// 用户主目录 ~/.appforge/makers、当前目录 ./.appforge/makers、配置文件指定目录
package plugin

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/yeisme/appforge/pkg/models"
)

// Manager 插件管理器
type Manager struct {
	configPluginPath string
	homeDir          string
	workDir          string
}

// Option 插件管理器选项
type Option func(*Manager)

// WithHomeDir 覆盖用户主目录，主要用于测试
func WithHomeDir(dir string) Option {
	return func(m *Manager) { m.homeDir = dir }
}

// WithWorkDir 覆盖当前工作目录
func WithWorkDir(dir string) Option {
	return func(m *Manager) { m.workDir = dir }
}

// NewPluginManager 创建插件管理器
func NewPluginManager(configPluginPath string, opts ...Option) *Manager {
	m := &Manager{configPluginPath: configPluginPath}
	for _, opt := range opts {
		opt(m)
	}
	if m.homeDir == "" {
		m.homeDir, _ = os.UserHomeDir()
	}
	if m.workDir == "" {
		m.workDir, _ = os.Getwd()
	}
	return m
}

// Dirs 返回按优先级排列的插件目录
func (pm *Manager) Dirs() []string {
	var dirs []string
	if pm.homeDir != "" {
		dirs = append(dirs, filepath.Join(pm.homeDir, ".appforge", "makers"))
	}
	if pm.workDir != "" {
		dirs = append(dirs, filepath.Join(pm.workDir, ".appforge", "makers"))
	}
	if pm.configPluginPath != "" {
		dirs = append(dirs, pm.configPluginPath)
	}
	return dirs
}

// FindAllPlugins 查找所有插件，按显示名称排序
func (pm *Manager) FindAllPlugins() ([]*models.PluginInfo, error) {
	var allPlugins []*models.PluginInfo

	sources := []models.PluginSource{models.SourceUserHome, models.SourceCurrentDir, models.SourceConfig}
	for _, dir := range pm.Dirs() {
		source := pm.sourceOf(dir, sources)
		plugins, err := pm.findPluginsInDirectory(dir, source)
		if err == nil {
			allPlugins = append(allPlugins, plugins...)
		}
	}

	result := pm.deduplicatePlugins(allPlugins)
	sort.Slice(result, func(i, j int) bool {
		return result[i].GetDisplayName() < result[j].GetDisplayName()
	})
	return result, nil
}

// Find 按 maker 名称查找插件，名称可以带或不带前缀
func (pm *Manager) Find(name string) (*models.PluginInfo, bool) {
	plugins, _ := pm.FindAllPlugins()
	want := strings.TrimPrefix(pluginFileName(name), models.MakerPluginPrefix)
	for _, p := range plugins {
		if p.GetDisplayName() == want {
			return p, true
		}
	}
	return nil, false
}

// pluginFileName 将模块风格名称（例如 @acme/snap）转换为文件名片段
func pluginFileName(name string) string {
	name = strings.TrimPrefix(name, "@")
	return strings.ReplaceAll(name, "/", "-")
}

func (pm *Manager) sourceOf(dir string, sources []models.PluginSource) models.PluginSource {
	switch {
	case pm.homeDir != "" && dir == filepath.Join(pm.homeDir, ".appforge", "makers"):
		return sources[0]
	case pm.workDir != "" && dir == filepath.Join(pm.workDir, ".appforge", "makers"):
		return sources[1]
	default:
		return sources[2]
	}
}

// findPluginsInDirectory 在指定目录查找插件
func (pm *Manager) findPluginsInDirectory(dir string, source models.PluginSource) ([]*models.PluginInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var plugins []*models.PluginInfo
	for _, f := range files {
		name := f.Name()
		if !strings.HasPrefix(name, models.MakerPluginPrefix) {
			continue
		}

		fullPath := filepath.Join(dir, name)
		if !isExecutable(fullPath) {
			continue
		}

		info, err := f.Info()
		if err != nil {
			continue
		}

		plugins = append(plugins, &models.PluginInfo{
			Name:         name,
			Path:         fullPath,
			Source:       source,
			SourcePath:   dir,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
			IsExecutable: true,
		})
	}

	return plugins, nil
}

// deduplicatePlugins 去重插件（优先级：用户主目录 > 当前目录 > 配置文件）
func (pm *Manager) deduplicatePlugins(plugins []*models.PluginInfo) []*models.PluginInfo {
	seen := make(map[string]*models.PluginInfo)

	priority := map[models.PluginSource]int{
		models.SourceUserHome:   1,
		models.SourceCurrentDir: 2,
		models.SourceConfig:     3,
	}

	for _, plugin := range plugins {
		key := plugin.GetDisplayName()
		existing, exists := seen[key]
		if !exists || priority[plugin.Source] < priority[existing.Source] {
			seen[key] = plugin
		}
	}

	result := make([]*models.PluginInfo, 0, len(seen))
	for _, plugin := range seen {
		result = append(result, plugin)
	}
	return result
}

// IsExecutable 判断文件是否可执行
func IsExecutable(path string) bool {
	return isExecutable(path)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	// Windows 上检查 .exe .com .bat 等可执行文件
	if runtime.GOOS == "windows" {
		lower := strings.ToLower(path)
		return strings.HasSuffix(lower, ".exe") ||
			strings.HasSuffix(lower, ".com") ||
			strings.HasSuffix(lower, ".bat") ||
			strings.HasSuffix(lower, ".cmd")
	}
	return info.Mode()&0111 != 0
}
