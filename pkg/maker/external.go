package maker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/utils/executor"
	log2 "github.com/yeisme/appforge/pkg/utils/log"
	"github.com/yeisme/appforge/pkg/utils/plugin"
)

// 外部 maker 协议的子命令
const (
	cmdDescribe  = "describe"
	cmdSupported = "supported"
	cmdMake      = "make"
)

// manifestName 外部 maker 目录中的清单文件名（不含扩展名）
const manifestName = "maker"

// Manifest maker.{yaml,yml,json,toml} 的内容
type Manifest struct {
	Descriptor `mapstructure:",squash"`
	Command    string   `mapstructure:"command"`
	Args       []string `mapstructure:"args"`
}

// External 通过子进程协议运行的外部 maker
type External struct {
	desc    Descriptor
	command string
	args    []string
	dir     string
}

var _ Maker = (*External)(nil)

// LoadExternal 从路径加载外部 maker
//
// 路径可以是包含 maker 清单的目录，也可以是响应 describe 子命令的可执行文件
func LoadExternal(path string) (*External, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &MakerNotFoundError{Spec: path, Reason: err.Error()}
	}
	if info.IsDir() {
		return loadManifest(path)
	}
	if !plugin.IsExecutable(path) {
		return nil, &MakerNotFoundError{Spec: path, Reason: "not a maker directory or executable"}
	}
	return loadExecutable(path)
}

func loadManifest(dir string) (*External, error) {
	v := viper.New()
	v.SetConfigName(manifestName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, &MakerNotFoundError{Spec: dir, Reason: "no maker manifest in directory"}
		}
		return nil, fmt.Errorf("failed to read maker manifest in %s: %w", dir, err)
	}

	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("failed to parse maker manifest %s: %w", v.ConfigFileUsed(), err)
	}
	if m.Name == "" {
		m.Name = filepath.Base(dir)
	}
	if m.Command == "" {
		return nil, fmt.Errorf("maker manifest %s: command is required", v.ConfigFileUsed())
	}
	command := m.Command
	if !filepath.IsAbs(command) && strings.ContainsAny(command, `/\`) {
		command = filepath.Join(dir, command)
	}

	log.Debug().Str("manifest", v.ConfigFileUsed()).Str("maker", m.Name).Msg("loaded maker manifest")
	return &External{desc: m.Descriptor, command: command, args: m.Args, dir: dir}, nil
}

func loadExecutable(path string) (*External, error) {
	stdout, err := executor.NewExecutor(path, cmdDescribe).WithDir(filepath.Dir(path)).Output()
	if err != nil {
		return nil, fmt.Errorf("maker %s failed to describe itself: %w", path, err)
	}
	var d Descriptor
	if err := json.Unmarshal([]byte(stdout), &d); err != nil {
		return nil, fmt.Errorf("maker %s returned an invalid descriptor: %w", path, err)
	}
	if d.Name == "" {
		d.Name = (&models.PluginInfo{Name: filepath.Base(path)}).GetDisplayName()
	}
	return &External{desc: d, command: path, dir: filepath.Dir(path)}, nil
}

// Describe 实现 Maker
func (e *External) Describe() Descriptor { return e.desc }

// Path 外部 maker 的命令路径
func (e *External) Path() string { return e.command }

func (e *External) exec(ctx context.Context, sub string) *executor.Executor {
	args := append(append([]string{}, e.args...), sub)
	return executor.NewExecutorContext(ctx, e.command, args...).WithDir(e.dir)
}

// IsSupportedOnCurrentPlatform 询问外部 maker，出错时视为不支持
func (e *External) IsSupportedOnCurrentPlatform() bool {
	stdout, err := e.exec(context.Background(), cmdSupported).Output()
	if err != nil {
		log.Warn().Err(err).Str("maker", e.desc.Name).Msg("maker support check failed")
		return false
	}
	var resp struct {
		Supported bool `json:"supported"`
	}
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		log.Warn().Err(err).Str("maker", e.desc.Name).Msg("maker returned an invalid support answer")
		return false
	}
	return resp.Supported
}

// Make 将 MakeOptions 以 JSON 写入 stdin，stderr 转发到日志，stdout 返回产物列表
func (e *External) Make(ctx context.Context, opts models.MakeOptions) ([]string, error) {
	payload, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode make options: %w", err)
	}

	var stdout bytes.Buffer
	stderr := log2.NewLineWriter(log, zerolog.InfoLevel, e.desc.Name)
	defer stderr.Flush()

	if err := e.exec(ctx, cmdMake).WithStdin(bytes.NewReader(payload)).RunStreaming(&stdout, stderr); err != nil {
		return nil, err
	}

	var resp struct {
		Artifacts []string `json:"artifacts"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("maker %s returned invalid output: %w", e.desc.Name, err)
	}
	artifacts := make([]string, 0, len(resp.Artifacts))
	for _, a := range resp.Artifacts {
		if !filepath.IsAbs(a) {
			a = filepath.Join(opts.OutDir, a)
		}
		artifacts = append(artifacts, filepath.Clean(a))
	}
	return artifacts, nil
}
