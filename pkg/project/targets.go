package project

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
)

// DefaultHostPlatforms 主机平台 -> 请求 "all" 时可打包的平台
func DefaultHostPlatforms() map[models.Platform][]models.Platform {
	return map[models.Platform][]models.Platform{
		models.PlatformDarwin: {models.PlatformDarwin, models.PlatformMAS, models.PlatformLinux, models.PlatformWin32},
		models.PlatformLinux:  {models.PlatformLinux, models.PlatformWin32},
		models.PlatformWin32:  {models.PlatformWin32, models.PlatformLinux},
	}
}

// ParseHostPlatforms 解析配置中的主机平台表
func ParseHostPlatforms(table map[string][]string) (map[models.Platform][]models.Platform, error) {
	out := make(map[models.Platform][]models.Platform, len(table))
	for host, list := range table {
		hp, err := models.ParsePlatform(host)
		if err != nil || hp == models.PlatformAll {
			return nil, fmt.Errorf("make.host_platforms: invalid host %q", host)
		}
		for _, s := range list {
			p, err := models.ParsePlatform(s)
			if err != nil {
				return nil, fmt.Errorf("make.host_platforms.%s: %w", host, err)
			}
			if p != models.PlatformAll && !slices.Contains(out[hp], p) {
				out[hp] = append(out[hp], p)
			}
		}
	}
	return out, nil
}

// ResolvedItem 已解析的工作项及其 maker 实例
type ResolvedItem struct {
	models.WorkItem
	Impl maker.Maker
}

// ResolveRequest 目标解析请求
type ResolveRequest struct {
	// Platform 请求的平台，为空时为主机平台，可为 "all"
	Platform string
	// Arch 逗号分隔的架构列表，为空时为主机架构，可为 "all"
	Arch string
	// OverrideTargets 覆盖配置，对每个平台统一生效
	OverrideTargets []string
}

// TargetResolver 将平台与架构请求展开为有序的 WorkItem 列表
type TargetResolver struct {
	registry      *maker.Registry
	hostPlatforms map[models.Platform][]models.Platform
	host          models.Platform
}

// ResolverOption 解析器选项
type ResolverOption func(*TargetResolver)

// WithHostPlatforms 覆盖 "all" 的平台展开表
func WithHostPlatforms(table map[models.Platform][]models.Platform) ResolverOption {
	return func(r *TargetResolver) {
		if len(table) > 0 {
			r.hostPlatforms = table
		}
	}
}

// WithHost 覆盖主机平台
func WithHost(p models.Platform) ResolverOption {
	return func(r *TargetResolver) { r.host = p }
}

// NewTargetResolver 创建目标解析器
func NewTargetResolver(registry *maker.Registry, opts ...ResolverOption) *TargetResolver {
	r := &TargetResolver{
		registry:      registry,
		hostPlatforms: DefaultHostPlatforms(),
		host:          models.HostPlatform(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Platforms 校验并展开请求的平台
func (r *TargetResolver) Platforms(requested string) ([]models.Platform, error) {
	if requested == "" {
		return []models.Platform{r.host}, nil
	}
	p, err := models.ParsePlatform(requested)
	if err != nil {
		return nil, err
	}
	if p != models.PlatformAll {
		return []models.Platform{p}, nil
	}
	platforms := r.hostPlatforms[r.host]
	if len(platforms) == 0 {
		return []models.Platform{r.host}, nil
	}
	return slices.Clone(platforms), nil
}

// Specs 返回某个平台上要运行的 maker 标识
//
// 优先级：覆盖列表 > make_targets[platform] > make_targets["all"] > 注册表默认值
func (r *TargetResolver) Specs(cfg *models.ProjectConfig, platform models.Platform, overrides []string) []models.MakerSpec {
	var raw []string
	switch {
	case len(overrides) > 0:
		raw = overrides
	case len(cfg.MakeTargets[string(platform)]) > 0:
		raw = cfg.MakeTargets[string(platform)]
	case len(cfg.MakeTargets[string(models.PlatformAll)]) > 0:
		raw = cfg.MakeTargets[string(models.PlatformAll)]
	default:
		return r.registry.Defaults(platform)
	}

	var specs []models.MakerSpec
	for _, s := range raw {
		for _, spec := range models.ParseMakerSpecs(s) {
			if !slices.ContainsFunc(specs, func(e models.MakerSpec) bool { return e.Raw == spec.Raw }) {
				specs = append(specs, spec)
			}
		}
	}
	return specs
}

// Resolve 生成按（平台、maker 配置顺序、架构）排列的工作项
//
// 任意 maker 无法加载或声明不支持当前主机时整体失败
func (r *TargetResolver) Resolve(cfg *models.ProjectConfig, req ResolveRequest) ([]ResolvedItem, error) {
	platforms, err := r.Platforms(req.Platform)
	if err != nil {
		return nil, err
	}
	archs, err := models.ParseArchList(req.Arch)
	if err != nil {
		return nil, err
	}

	var items []ResolvedItem
	for _, platform := range platforms {
		for _, spec := range r.Specs(cfg, platform, req.OverrideTargets) {
			m, err := r.registry.Resolve(spec, platform)
			if err != nil {
				return nil, err
			}
			desc := m.Describe()
			if !m.IsSupportedOnCurrentPlatform() {
				return nil, &maker.MakerUnsupportedError{Maker: desc.Name, Platform: string(platform)}
			}
			config := makerConfig(cfg, desc, spec)
			for _, arch := range models.ExpandArchs(archs, platform) {
				items = append(items, ResolvedItem{
					WorkItem: models.WorkItem{
						Spec:     spec,
						Maker:    desc.Name,
						Platform: platform,
						Arch:     arch,
						Config:   config,
					},
					Impl: m,
				})
			}
		}
	}
	return items, nil
}

// makerConfig 查找 maker 选项：ConfigKey/名称，其次原始标识
func makerConfig(cfg *models.ProjectConfig, desc maker.Descriptor, spec models.MakerSpec) map[string]any {
	for _, key := range []string{desc.Key(), desc.Name, spec.Raw} {
		if c, ok := cfg.MakerConfig[key]; ok {
			return c
		}
		for k, c := range cfg.MakerConfig {
			if strings.EqualFold(k, key) {
				return c
			}
		}
	}
	return nil
}
