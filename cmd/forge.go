package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/maker/builtin"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/project"
	"github.com/yeisme/appforge/pkg/style"
	"github.com/yeisme/appforge/pkg/utils/plugin"
)

// forgeOptions make / package / publish 共用的标志
type forgeOptions struct {
	Dir         string
	OutDir      string
	Platform    string
	Arch        string
	Targets     []string
	SkipPackage bool
	JSON        bool
}

func addForgeFlags(cmd *cobra.Command, opts *forgeOptions, withTargets bool) {
	cmd.Flags().StringVarP(&opts.Dir, "dir", "C", ".", "project directory containing package.json")
	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "output directory (default: out_dir from project config, then make.out_dir)")
	cmd.Flags().StringVarP(&opts.Platform, "platform", "p", "", "target platform: darwin, mas, linux, win32 or all (default: host)")
	cmd.Flags().StringVarP(&opts.Arch, "arch", "a", "", "comma separated target archs: ia32, x64, armv7l, arm64 or all (default: host)")
	if withTargets {
		cmd.Flags().StringSliceVarP(&opts.Targets, "targets", "t", nil, "comma separated makers to run instead of the configured ones")
		cmd.Flags().BoolVar(&opts.SkipPackage, "skip-package", false, "reuse previously packaged apps instead of packaging again")
	}
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print results as JSON")
}

// loadProject 加载项目目录中的构建配置
func loadProject(opts forgeOptions) (*models.ProjectConfig, error) {
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, err
	}
	return project.LoadProjectConfig(dir, appCtx.Config.Make.OutDir)
}

// newRegistry 内置 maker 加上插件目录中的外部 maker
func newRegistry(projectDir string) *maker.Registry {
	opts := []maker.Option{maker.WithBaseDir(projectDir)}
	if appCtx.Config.Maker.Enabled {
		opts = append(opts, maker.WithPluginFinder(
			plugin.NewPluginManager(appCtx.Config.Maker.DirPath, plugin.WithWorkDir(projectDir)),
		))
	}
	return maker.NewRegistry(builtin.Makers(), opts...)
}

func newResolver(cfg *models.ProjectConfig) (*project.TargetResolver, error) {
	hosts, err := project.ParseHostPlatforms(appCtx.Config.Make.HostPlatforms)
	if err != nil {
		return nil, err
	}
	return project.NewTargetResolver(newRegistry(cfg.Dir), project.WithHostPlatforms(hosts)), nil
}

func newPackager() project.Packager {
	return project.NewExternalPackager(appCtx.Config.Make.Packager)
}

// newPipeline 按应用配置组装流水线
func newPipeline(cfg *models.ProjectConfig) (*project.Pipeline, error) {
	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}
	return project.NewPipeline(resolver, newPackager(), project.WithStateObserver(func(runID string, s project.State) {
		log.Debug().Str("run", runID).Str("state", string(s)).Msg("state changed")
	})), nil
}

// withSpinner 在 stderr 上显示 spinner，JSON、安静模式或调试输出时不显示
func withSpinner(msg string, quiet bool, fn func() error) error {
	if quiet || appCtx.Config.App.Quiet || appCtx.Config.App.Debug || appCtx.Config.App.Verbose {
		return fn()
	}
	sp := style.NewSpinner(os.Stderr, msg)
	sp.Start()
	err := fn()
	sp.Stop(err == nil)
	return err
}

func makeRequest(cfg *models.ProjectConfig, opts forgeOptions) project.MakeRequest {
	return project.MakeRequest{
		Config:          cfg,
		Platform:        opts.Platform,
		Arch:            opts.Arch,
		OverrideTargets: opts.Targets,
		SkipPackage:     opts.SkipPackage,
		OutDir:          opts.OutDir,
	}
}

func describeRequest(cfg *models.ProjectConfig, opts forgeOptions) string {
	platform := opts.Platform
	if platform == "" {
		platform = string(models.HostPlatform())
	}
	arch := opts.Arch
	if arch == "" {
		arch = string(models.HostArch())
	}
	return fmt.Sprintf("Making %s %s for %s/%s", cfg.AppName(), cfg.AppVersion(), platform, arch)
}

func printJSON(cmd *cobra.Command, v any) error {
	return style.PrintJSON(cmd.OutOrStdout(), v)
}

// relOutDir 输出目录相对项目根目录的路径，不在项目内时返回 false
func relOutDir(cfg *models.ProjectConfig, override string) (string, bool) {
	out := cfg.OutDir
	if override != "" {
		out = override
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(cfg.Dir, out)
	}
	rel, err := filepath.Rel(cfg.Dir, out)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
