package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yeisme/appforge/pkg/configs"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/utils/executor"
	log2 "github.com/yeisme/appforge/pkg/utils/log"
)

// compilePipelineDeps 出现任一依赖（可带 @scope/ 前缀）即视为使用 electron-compile 编译流水线
var compilePipelineDeps = []string{"electron-compile", "electron-prebuilt-compile"}

// usesCompilePipeline 项目是否依赖 electron-compile 或 electron-prebuilt-compile
func usesCompilePipeline(cfg *models.ProjectConfig) bool {
	return cfg.HasDependencyFunc(func(name string) bool {
		if strings.HasPrefix(name, "@") {
			if _, rest, ok := strings.Cut(name, "/"); ok {
				name = rest
			}
		}
		return slices.Contains(compilePipelineDeps, name)
	})
}

// Packager 外部打包协作方，为每个架构生成一个应用目录
type Packager interface {
	Package(ctx context.Context, opts models.PackageOptions) ([]string, error)
}

// ExternalPackager 通过外部命令（默认 npx electron-packager）打包
type ExternalPackager struct {
	Command string
	Args    []string
	Env     []string
}

var _ Packager = (*ExternalPackager)(nil)

// NewExternalPackager 从配置创建外部打包器
func NewExternalPackager(cfg configs.PackagerCommandConfig) *ExternalPackager {
	return &ExternalPackager{Command: cfg.Command, Args: cfg.Args, Env: cfg.Env}
}

// Package 实现 Packager
func (p *ExternalPackager) Package(ctx context.Context, opts models.PackageOptions) ([]string, error) {
	args := append(slices.Clone(p.Args), packagerArgs(opts)...)
	cmd := executor.NewExecutorContext(ctx, p.Command, args...).WithDir(opts.Dir).WithEnv(p.Env...)

	out := log2.NewLineWriter(log, zerolog.InfoLevel, "packager")
	defer out.Flush()
	log.Debug().Str("cmd", cmd.String()).Msg("running packager")
	if err := cmd.RunStreaming(out, out); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(opts.Archs))
	for _, arch := range opts.Archs {
		paths = append(paths, BundlePath(opts.OutDir, opts.AppName, opts.Platform, arch))
	}
	return paths, nil
}

// packagerArgs 将打包选项转为命令行参数
func packagerArgs(opts models.PackageOptions) []string {
	archs := make([]string, len(opts.Archs))
	for i, a := range opts.Archs {
		archs[i] = string(a)
	}
	args := []string{
		opts.Dir,
		opts.AppName,
		"--platform=" + string(opts.Platform),
		"--arch=" + strings.Join(archs, ","),
		"--out=" + opts.OutDir,
		"--overwrite",
	}
	if opts.Asar {
		args = append(args, "--asar")
	}
	for _, ig := range opts.Ignore {
		args = append(args, "--ignore="+ig)
	}
	keys := make([]string, 0, len(opts.Extra))
	for k := range opts.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := opts.Extra[k].(type) {
		case bool:
			if v {
				args = append(args, "--"+k)
			}
		case string, int, int64, float64:
			args = append(args, fmt.Sprintf("--%s=%v", k, v))
		}
	}
	return args
}

// BundlePath 打包器为 (平台, 架构) 生成的应用目录位置
func BundlePath(outDir, appName string, platform models.Platform, arch models.Arch) string {
	return filepath.Join(outDir, fmt.Sprintf("%s-%s-%s", appName, platform, arch))
}

// ValidatePackagerConfig 拒绝不被支持的打包选项组合
func ValidatePackagerConfig(cfg *models.ProjectConfig) error {
	if cfg.PackagerConfig.All {
		return &ConfigValidationError{
			Field:  "electronPackagerConfig.all",
			Reason: "config option electronPackagerConfig.all is not supported by appforge, use --platform=all instead",
		}
	}
	if cfg.PackagerConfig.AsarUnpack() != "" && usesCompilePipeline(cfg) {
		return &ConfigValidationError{
			Field:  "electronPackagerConfig.asar.unpack",
			Reason: "electron-compile does not support asar.unpack yet, remove asar.unpack/unpackDir from electronPackagerConfig",
		}
	}
	return nil
}

// PackageRequest 打包请求
type PackageRequest struct {
	Platforms   []models.Platform
	Archs       []models.Arch
	OutDir      string
	SkipPackage bool
}

// Targets 将平台与架构展开为去重、有序的目标列表
func Targets(platforms []models.Platform, archs []models.Arch) []models.Target {
	var targets []models.Target
	for _, p := range platforms {
		for _, a := range models.ExpandArchs(archs, p) {
			t := models.Target{Platform: p, Arch: a}
			if !slices.Contains(targets, t) {
				targets = append(targets, t)
			}
		}
	}
	return targets
}

// Package 为每个目标依次调用打包器，SkipPackage 时只查找已有的应用目录
func Package(ctx context.Context, packager Packager, cfg *models.ProjectConfig, req PackageRequest) ([]models.AppBundle, error) {
	if err := ValidatePackagerConfig(cfg); err != nil {
		return nil, err
	}
	outDir := req.OutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}
	appName := cfg.AppName()

	var bundles []models.AppBundle
	for _, t := range Targets(req.Platforms, req.Archs) {
		path := BundlePath(outDir, appName, t.Platform, t.Arch)
		if !req.SkipPackage {
			log.Info().Str("target", t.String()).Msg("packaging application")
			paths, err := packager.Package(ctx, models.PackageOptions{
				Dir:      cfg.Dir,
				AppName:  appName,
				Platform: t.Platform,
				Archs:    []models.Arch{t.Arch},
				OutDir:   outDir,
				Ignore:   cfg.PackagerConfig.Ignore,
				Asar:     cfg.PackagerConfig.AsarEnabled(),
				Extra:    cfg.PackagerConfig.Extra,
			})
			if err != nil {
				return nil, &PackagingError{Target: t, Err: err}
			}
			if len(paths) == 1 && paths[0] != "" {
				path = paths[0]
			}
		}
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			return nil, &PackagingError{Target: t, Msg: fmt.Sprintf("couldn't find packaged app at: %s", path)}
		}
		bundles = append(bundles, models.AppBundle{Target: t, Path: path})
	}
	return bundles, nil
}
