package project

import (
	"context"
	"fmt"
	"slices"

	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/publish"
)

// PublishRequest make 之后发布产物
type PublishRequest struct {
	MakeRequest
	// Targets 覆盖 publish_targets 中的 publisher 列表
	Targets []string
}

// PublisherNames 平台使用的 publisher：覆盖 > publish_targets[platform] > publish_targets["all"] > 默认
func PublisherNames(cfg *models.ProjectConfig, platform models.Platform, overrides, defaults []string) []string {
	switch {
	case len(overrides) > 0:
		return overrides
	case len(cfg.PublishTargets[string(platform)]) > 0:
		return cfg.PublishTargets[string(platform)]
	case len(cfg.PublishTargets[string(models.PlatformAll)]) > 0:
		return cfg.PublishTargets[string(models.PlatformAll)]
	}
	return defaults
}

// Publish 运行 make，然后把每个平台的产物交给对应的 publisher
//
// publisher 名称在 make 之前校验，publishers 中未出现的名称视为错误，任何 publisher 失败即中止
func (p *Pipeline) Publish(ctx context.Context, req PublishRequest, publishers map[string]publish.Publisher) ([]models.MakerResult, error) {
	defaults := make([]string, 0, len(publishers))
	for name := range publishers {
		defaults = append(defaults, name)
	}
	slices.Sort(defaults)

	if req.Config != nil {
		// 平台非法时交给 Make 报告
		if platforms, err := p.resolver.Platforms(req.Platform); err == nil {
			for _, platform := range platforms {
				for _, name := range PublisherNames(req.Config, platform, req.Targets, defaults) {
					if _, ok := publishers[name]; !ok {
						return nil, &PublishError{Publisher: name, Err: fmt.Errorf("no publisher named %q is configured", name)}
					}
				}
			}
		}
	}

	results, err := p.Make(ctx, req.MakeRequest)
	if err != nil {
		return nil, err
	}

	// 按 publisher 分组，保持结果顺序
	var order []string
	grouped := map[string][]models.MakerResult{}
	for _, res := range results {
		for _, name := range PublisherNames(req.Config, res.Platform, req.Targets, defaults) {
			if _, ok := grouped[name]; !ok {
				order = append(order, name)
			}
			grouped[name] = append(grouped[name], res)
		}
	}

	for _, name := range order {
		pub := publishers[name]
		log.Info().Str("publisher", name).Int("results", len(grouped[name])).Msg("publishing artifacts")
		if err := pub.Publish(ctx, publish.Request{
			AppName: req.Config.AppName(),
			Version: req.Config.AppVersion(),
			Results: grouped[name],
		}); err != nil {
			return results, &PublishError{Publisher: name, Err: err}
		}
	}
	return results, nil
}
