package project

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/yeisme/appforge/pkg/models"
)

// ErrSelectionAborted 交互选择被用户取消
var ErrSelectionAborted = errors.New("maker selection aborted")

// Candidate 交互选择中的一个 maker 候选
type Candidate struct {
	Spec        string
	Platforms   []models.Platform
	Description string
	Configured  bool
}

// Candidates 列出请求平台上可选的 maker：先是配置中的目标，再是适用的内置 maker
func (r *TargetResolver) Candidates(cfg *models.ProjectConfig, platforms []models.Platform) []Candidate {
	var out []Candidate
	add := func(spec string, p models.Platform, desc string, configured bool) {
		i := slices.IndexFunc(out, func(c Candidate) bool { return c.Spec == spec })
		if i < 0 {
			out = append(out, Candidate{Spec: spec, Description: desc, Configured: configured})
			i = len(out) - 1
		}
		if !slices.Contains(out[i].Platforms, p) {
			out[i].Platforms = append(out[i].Platforms, p)
		}
		out[i].Configured = out[i].Configured || configured
	}

	for _, p := range platforms {
		for _, spec := range r.Specs(cfg, p, nil) {
			add(spec.Raw, p, "", true)
		}
	}
	for _, p := range platforms {
		for _, entry := range r.registry.Builtins() {
			if entry.Family != p.Family() && entry.Family != models.FamilyGeneric {
				continue
			}
			desc := entry.Maker.Describe()
			add(desc.Name, p, desc.Description, false)
		}
	}
	// 内置描述补充到配置中的同名候选
	for _, entry := range r.registry.Builtins() {
		desc := entry.Maker.Describe()
		for i := range out {
			if out[i].Spec == desc.Name && out[i].Description == "" {
				out[i].Description = desc.Description
			}
		}
	}
	return out
}

// SelectMakers 在终端中交互多选 maker，返回可作为覆盖列表的标识
func SelectMakers(candidates []Candidate) ([]string, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no makers available for the requested platforms")
	}
	idx, err := fuzzyfinder.FindMulti(candidates,
		func(i int) string {
			c := candidates[i]
			mark := " "
			if c.Configured {
				mark = "*"
			}
			return fmt.Sprintf("%s %s", mark, c.Spec)
		},
		fuzzyfinder.WithHeader("Tab to select makers, Enter to confirm (* = configured)"),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			return candidatePreview(candidates[i])
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return nil, ErrSelectionAborted
	}
	if err != nil {
		return nil, err
	}

	specs := make([]string, 0, len(idx))
	slices.Sort(idx)
	for _, i := range idx {
		specs = append(specs, candidates[i].Spec)
	}
	return specs, nil
}

func candidatePreview(c Candidate) string {
	platforms := make([]string, len(c.Platforms))
	for i, p := range c.Platforms {
		platforms[i] = string(p)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "maker:     %s\n", c.Spec)
	fmt.Fprintf(&b, "platforms: %s\n", strings.Join(platforms, ", "))
	fmt.Fprintf(&b, "configured: %v\n", c.Configured)
	if c.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", c.Description)
	}
	return b.String()
}
