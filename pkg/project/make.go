package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
)

// State make 状态机的状态
type State string

const (
	StateInit           State = "INIT"
	StateValidate       State = "VALIDATE"
	StatePackage        State = "PACKAGE"
	StateResolveTargets State = "RESOLVE_TARGETS"
	StateRunMakers      State = "RUN_MAKERS"
	StateAggregate      State = "AGGREGATE"
	StateDone           State = "DONE"
	StateFailed         State = "FAILED"
)

// Pipeline 组合注册表、目标解析器和打包器
type Pipeline struct {
	resolver *TargetResolver
	packager Packager
	observer func(runID string, s State)
}

// PipelineOption 流水线选项
type PipelineOption func(*Pipeline)

// WithStateObserver 每次状态变化时回调
func WithStateObserver(fn func(runID string, s State)) PipelineOption {
	return func(p *Pipeline) { p.observer = fn }
}

// NewPipeline 创建流水线
func NewPipeline(resolver *TargetResolver, packager Packager, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{resolver: resolver, packager: packager}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolver 返回流水线使用的目标解析器
func (p *Pipeline) Resolver() *TargetResolver { return p.resolver }

// MakeRequest 一次 make 调用的参数
type MakeRequest struct {
	Config          *models.ProjectConfig
	Platform        string
	Arch            string
	OverrideTargets []string
	SkipPackage     bool
	// OutDir 覆盖项目配置中的输出目录
	OutDir string
}

// run 单次调用的状态机
type run struct {
	id       string
	state    State
	logger   zerolog.Logger
	observer func(string, State)
}

func (r *run) to(next State) {
	r.logger.Debug().Str("from", string(r.state)).Str("to", string(next)).Msg("make state")
	r.state = next
	if r.observer != nil {
		r.observer(r.id, next)
	}
}

// Make 执行 INIT → VALIDATE → PACKAGE → RESOLVE_TARGETS → RUN_MAKERS → AGGREGATE → DONE
//
// 任一步骤出错即进入 FAILED 并返回该错误，不做重试，已生成的产物不回滚
func (p *Pipeline) Make(ctx context.Context, req MakeRequest) (results []models.MakerResult, err error) {
	r := &run{id: uuid.NewString(), state: StateInit, observer: p.observer}
	r.logger = log.With().Str("run", r.id).Logger()
	if r.observer != nil {
		r.observer(r.id, StateInit)
	}

	defer func() {
		if err != nil {
			r.logger.Error().Err(err).Str("state", string(r.state)).Msg("make failed")
			r.to(StateFailed)
			results = nil
			return
		}
		r.to(StateDone)
	}()

	cfg := req.Config
	if cfg == nil {
		return nil, fmt.Errorf("make: project config is required")
	}
	outDir := req.OutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(cfg.Dir, outDir)
	}

	r.to(StateValidate)
	if err := ValidatePackagerConfig(cfg); err != nil {
		return nil, err
	}
	platforms, err := p.resolver.Platforms(req.Platform)
	if err != nil {
		return nil, err
	}
	archs, err := models.ParseArchList(req.Arch)
	if err != nil {
		return nil, err
	}

	r.to(StatePackage)
	bundles, err := Package(ctx, p.packager, cfg, PackageRequest{
		Platforms:   platforms,
		Archs:       archs,
		OutDir:      outDir,
		SkipPackage: req.SkipPackage,
	})
	if err != nil {
		return nil, err
	}
	bundleByTarget := make(map[models.Target]string, len(bundles))
	for _, b := range bundles {
		bundleByTarget[b.Target] = b.Path
	}

	r.to(StateResolveTargets)
	items, err := p.resolver.Resolve(cfg, ResolveRequest{
		Platform:        req.Platform,
		Arch:            req.Arch,
		OverrideTargets: req.OverrideTargets,
	})
	if err != nil {
		return nil, err
	}

	r.to(StateRunMakers)
	for _, item := range items {
		res, err := runItem(ctx, r.logger, cfg, item, bundleByTarget[item.Target()], outDir)
		if err != nil {
			return nil, err
		}
		// 产物不合法同样属于该工作项失败，后续工作项不再执行
		if err := checkArtifacts(res, outDir); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	r.to(StateAggregate)
	artifacts := 0
	for _, res := range results {
		artifacts += len(res.Artifacts)
	}
	r.logger.Info().Int("results", len(results)).Int("artifacts", artifacts).Msg("make finished")
	return results, nil
}

func runItem(ctx context.Context, logger zerolog.Logger, cfg *models.ProjectConfig, item ResolvedItem, bundle, outDir string) (models.MakerResult, error) {
	if !item.Impl.IsSupportedOnCurrentPlatform() {
		return models.MakerResult{}, &maker.MakerUnsupportedError{Maker: item.Maker, Platform: string(item.Platform)}
	}
	logger.Info().Str("maker", item.Maker).Str("target", item.Target().String()).Msg("making distributable")

	artifacts, err := item.Impl.Make(ctx, models.MakeOptions{
		AppDir:      bundle,
		AppName:     cfg.AppName(),
		OutDir:      outDir,
		Platform:    item.Platform,
		Arch:        item.Arch,
		ForgeConfig: cfg,
		PackageJSON: cfg.PackageJSON,
		Config:      item.Config,
	})
	if err != nil {
		return models.MakerResult{}, &MakerRunError{Maker: item.Maker, Platform: item.Platform, Arch: item.Arch, Err: err}
	}
	return models.MakerResult{
		Maker:     item.Maker,
		Platform:  item.Platform,
		Arch:      item.Arch,
		Artifacts: artifacts,
	}, nil
}

// checkArtifacts 每个产物必须存在且位于输出目录内
func checkArtifacts(res models.MakerResult, outDir string) error {
	for _, a := range res.Artifacts {
		var problem string
		if !withinDir(outDir, a) {
			problem = fmt.Sprintf("artifact %s is outside the output directory %s", a, outDir)
		} else if _, err := os.Stat(a); err != nil {
			problem = fmt.Sprintf("artifact %s does not exist", a)
		}
		if problem != "" {
			return &MakerRunError{Maker: res.Maker, Platform: res.Platform, Arch: res.Arch, Err: errors.New(problem)}
		}
	}
	return nil
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
