// Package configs 提供 appforge 的全局配置管理功能
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Version string        `mapstructure:"version"`
	Log     LogConfig     `mapstructure:"log"`
	App     AppConfig     `mapstructure:"app"`
	Make    MakeConfig    `mapstructure:"make"`
	Maker   MakerConfig   `mapstructure:"maker"`
	Publish PublishConfig `mapstructure:"publish"`
}

// setDefaults 设置默认配置值
func setDefaults() {
	viper.SetDefault("version", "1.0")
	setLogConfigDefaults()
	setAppConfigDefaults()
	setMakeConfigDefaults()
	setMakerConfigDefaults()
	setPublishConfigDefaults()
}

var globalConfig *Config

// configSearchPaths 配置文件搜索路径
func configSearchPaths() []string {
	paths := []string{
		".",
		"./configs",
		"$HOME",
		"$HOME/.config",
		"$HOME/.config/appforge",
	}
	// Windows 特殊路径
	if runtime.GOOS == "windows" {
		return append(paths, "$USERPROFILE", "$APPDATA/appforge")
	}
	return append(paths, "/etc/appforge")
}

// tryLoadConfigFiles 尝试加载不同格式的配置文件
func tryLoadConfigFiles() bool {
	configNames := []string{".appforge", "appforge"}
	extensions := []string{"yaml", "yml", "json", "toml"}

	for _, path := range configSearchPaths() {
		for _, name := range configNames {
			for _, ext := range extensions {
				configFile := os.ExpandEnv(filepath.Join(path, name+"."+ext))
				if _, err := os.Stat(configFile); err == nil {
					viper.SetConfigFile(configFile)
					return true
				}
			}
		}
	}
	return false
}

// LoadConfig 加载配置文件，configPath 为空时按搜索路径查找
func LoadConfig(configPath string) (*Config, error) {
	found := true
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		found = tryLoadConfigFiles()
	}

	viper.SetEnvPrefix("APPFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if found {
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 确保日志目录存在
	if config.Log.Mode == "file" || config.Log.Mode == "both" {
		if err := os.MkdirAll(filepath.Dir(config.Log.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
	}

	globalConfig = &config
	return &config, nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if globalConfig == nil {
		config, err := LoadConfig("")
		if err != nil {
			panic(fmt.Sprintf("无法加载配置: %v", err))
		}
		return config
	}
	return globalConfig
}
