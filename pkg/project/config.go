package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/yeisme/appforge/pkg/models"
)

// forgeConfigName 项目根目录下可选的覆盖配置文件名（不含扩展名）
const forgeConfigName = "forge.config"

var forgeConfigExts = []string{"yaml", "yml", "json", "toml"}

// LoadProjectConfig 加载项目配置
//
// 顺序：package.json 的 config.forge（对象，或指向配置文件的相对路径），
// 然后合并 forge.config.{yaml,yml,json,toml}。defaultOutDir 在两者都未设置 out_dir 时使用
func LoadProjectConfig(dir, defaultOutDir string) (*models.ProjectConfig, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project dir %s: %w", dir, err)
	}

	pkg, err := readPackageJSON(abs)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	if err := readForgeSection(v, abs, pkg); err != nil {
		return nil, err
	}
	if err := mergeForgeConfigFile(v, abs); err != nil {
		return nil, err
	}

	var cfg models.ProjectConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse forge config: %w", err)
	}
	cfg.Dir = abs
	cfg.PackageJSON = pkg

	if cfg.OutDir == "" {
		cfg.OutDir = defaultOutDir
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "out"
	}
	if !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(abs, cfg.OutDir)
	}

	if err := cfg.ValidateKeys(); err != nil {
		return nil, fmt.Errorf("invalid forge config: %w", err)
	}

	log.Debug().Str("dir", abs).Str("app", cfg.AppName()).Msg("project config loaded")
	return &cfg, nil
}

func readPackageJSON(dir string) (map[string]any, error) {
	path := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no package.json found in %s", dir)
		}
		return nil, err
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return pkg, nil
}

// readForgeSection 将 config.forge 读入 v
func readForgeSection(v *viper.Viper, dir string, pkg map[string]any) error {
	section, _ := pkg["config"].(map[string]any)
	switch forge := section["forge"].(type) {
	case nil:
		return nil
	case string:
		// 指向外部配置文件
		path := forge
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read forge config %s: %w", path, err)
		}
		return nil
	case map[string]any:
		data, err := json.Marshal(forge)
		if err != nil {
			return err
		}
		v.SetConfigType("json")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to read config.forge: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("config.forge in package.json must be an object or a file path, got %T", forge)
	}
}

// mergeForgeConfigFile 合并项目根目录下第一个存在的 forge.config.* 文件
func mergeForgeConfigFile(v *viper.Viper, dir string) error {
	for _, ext := range forgeConfigExts {
		path := filepath.Join(dir, forgeConfigName+"."+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType(ext)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to merge %s: %w", path, err)
		}
		log.Debug().Str("file", path).Msg("merged forge config file")
		return nil
	}
	return nil
}
