package configs

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// MakeConfig 打包/制作流程配置
type MakeConfig struct {
	// OutDir 默认输出目录（相对项目根目录），项目配置中的 out_dir 优先
	OutDir string `mapstructure:"out_dir"`
	// Packager 外部打包命令
	Packager PackagerCommandConfig `mapstructure:"packager"`
	// HostPlatforms 主机平台 -> "all" 展开后的平台列表，覆盖内置表
	HostPlatforms map[string][]string `mapstructure:"host_platforms"`
}

// PackagerCommandConfig 外部打包器命令，例如 npx electron-packager
type PackagerCommandConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	Env     []string `mapstructure:"env"`
}

// MakerConfig 外部 maker 插件配置
type MakerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DirPath string `mapstructure:"path"` // 插件目录路径
}

func setMakeConfigDefaults() {
	viper.SetDefault("make.out_dir", "out")
	viper.SetDefault("make.packager.command", "npx")
	viper.SetDefault("make.packager.args", []string{"--no-install", "electron-packager"})
	viper.SetDefault("make.packager.env", []string{})
}

func setMakerConfigDefaults() {
	viper.SetDefault("maker.enabled", true)
	viper.SetDefault("maker.path", filepath.Join(".appforge", "makers"))
}
