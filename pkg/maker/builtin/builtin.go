// Package builtin 提供随 appforge 发布的 maker：zip、dmg、deb、rpm、squirrel
//
// 产物写入 <out>/make/<maker>/<platform>/<arch>/，每次执行前清空该目录
package builtin

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/utils/executor"
	log2 "github.com/yeisme/appforge/pkg/utils/log"
)

var log log2.Logger

func init() {
	log = log2.GetLogger()
}

// 可在测试中替换
var (
	hostOS   = runtime.GOOS
	lookPath = exec.LookPath
)

// Makers 返回按分组排列的内置 maker 表，用于构造 maker.Registry
func Makers() map[models.Family][]maker.Maker {
	return map[models.Family][]maker.Maker{
		models.FamilyGeneric: {NewZip()},
		models.FamilyDarwin:  {NewDMG()},
		models.FamilyLinux:   {NewDeb(), NewRPM()},
		models.FamilyWin32:   {NewSquirrel()},
	}
}

func descriptor(name, description string, defaults ...models.Platform) maker.Descriptor {
	return maker.Descriptor{
		Name:             name,
		APIVersion:       maker.HostAPIVersion,
		DefaultPlatforms: defaults,
		Capabilities:     maker.RequiredCapabilities(),
		Description:      description,
	}
}

// prepareOutDir 创建干净的产物目录
func prepareOutDir(name string, opts models.MakeOptions) (string, error) {
	dir := filepath.Join(opts.OutDir, "make", name, string(opts.Platform), string(opts.Arch))
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clean %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}

func hasTools(tools ...string) bool {
	for _, t := range tools {
		if _, err := lookPath(t); err != nil {
			return false
		}
	}
	return true
}

// run 执行外部工具，输出转发到日志
func run(cmd *executor.Executor, tool string) error {
	out := log2.NewLineWriter(log, zerolog.DebugLevel, tool)
	defer out.Flush()
	log.Debug().Str("cmd", cmd.String()).Msg("running maker tool")
	return cmd.RunStreaming(out, out)
}

// appVersion package.json 中的版本号
func appVersion(opts models.MakeOptions) string {
	if v, ok := opts.PackageJSON["version"].(string); ok && v != "" {
		return v
	}
	return "0.0.0"
}

// option 读取 maker 选项，键不区分大小写（经 viper 加载的键会被转成小写）
func option(config map[string]any, key string) any {
	if v, ok := config[key]; ok {
		return v
	}
	for k, v := range config {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// optionString 读取字符串类型的 maker 选项
func optionString(opts models.MakeOptions, key string) string {
	v, _ := option(opts.Config, key).(string)
	return v
}

// pkgString 依次从 maker 选项和 package.json 中读取字符串字段
func pkgString(opts models.MakeOptions, key, fallback string) string {
	if v := optionString(opts, key); v != "" {
		return v
	}
	if v, ok := opts.PackageJSON[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// author package.json 的 author 字段可能是字符串或 {name, email}
func author(opts models.MakeOptions) string {
	if v := optionString(opts, "maintainer"); v != "" {
		return v
	}
	switch a := opts.PackageJSON["author"].(type) {
	case string:
		return a
	case map[string]any:
		name, _ := a["name"].(string)
		if email, ok := a["email"].(string); ok && email != "" {
			return fmt.Sprintf("%s <%s>", name, email)
		}
		return name
	}
	return "unknown"
}

// packageName 适用于 deb/rpm 包名的小写形式
func packageName(opts models.MakeOptions) string {
	if v := optionString(opts, "name"); v != "" {
		return v
	}
	name := opts.AppName
	if v, ok := opts.PackageJSON["name"].(string); ok && v != "" {
		name = v
	}
	name = strings.ToLower(strings.TrimPrefix(name, "@"))
	return strings.NewReplacer("/", "-", " ", "-", "_", "-").Replace(name)
}
