package maker

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/mod/semver"

	"github.com/yeisme/appforge/pkg/models"
)

// familyOrder 列出内置 maker 时的固定分组顺序
var familyOrder = []models.Family{models.FamilyGeneric, models.FamilyDarwin, models.FamilyLinux, models.FamilyWin32}

// PluginFinder 按名称查找外部 maker 插件，由 plugin.Manager 实现
type PluginFinder interface {
	Find(name string) (*models.PluginInfo, bool)
}

// Registry 把 maker 标识解析为已校验的 Maker 实例
//
// 内置表在构造时注入，之后只读
type Registry struct {
	builtins map[models.Family][]Maker
	finder   PluginFinder
	baseDir  string
}

// Option 注册表选项
type Option func(*Registry)

// WithPluginFinder 设置外部插件查找器
func WithPluginFinder(f PluginFinder) Option {
	return func(r *Registry) { r.finder = f }
}

// WithBaseDir 设置相对路径 maker 的基准目录，通常是项目根目录
func WithBaseDir(dir string) Option {
	return func(r *Registry) { r.baseDir = dir }
}

// NewRegistry 创建注册表
func NewRegistry(builtins map[models.Family][]Maker, opts ...Option) *Registry {
	r := &Registry{builtins: make(map[models.Family][]Maker, len(builtins))}
	for family, makers := range builtins {
		r.builtins[family] = slices.Clone(makers)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuiltinEntry 一个内置 maker 及其分组
type BuiltinEntry struct {
	Family models.Family
	Maker  Maker
}

// Builtins 按分组顺序列出所有内置 maker
func (r *Registry) Builtins() []BuiltinEntry {
	var out []BuiltinEntry
	for _, family := range familyOrder {
		for _, m := range r.builtins[family] {
			out = append(out, BuiltinEntry{Family: family, Maker: m})
		}
	}
	return out
}

// Defaults 返回平台的默认 maker 标识：先平台分组，后 generic
func (r *Registry) Defaults(platform models.Platform) []models.MakerSpec {
	var specs []models.MakerSpec
	for _, m := range r.candidates(platform) {
		if m.Describe().IsDefaultFor(platform) {
			specs = append(specs, models.MakerSpec{Raw: m.Describe().Name, Kind: models.SpecName})
		}
	}
	return specs
}

// candidates 平台可见的内置 maker，平台分组优先
func (r *Registry) candidates(platform models.Platform) []Maker {
	var out []Maker
	if family := platform.Family(); family != models.FamilyGeneric {
		out = append(out, r.builtins[family]...)
	}
	return append(out, r.builtins[models.FamilyGeneric]...)
}

// Resolve 将 maker 标识解析为已通过版本与能力校验的 Maker
//
// 查找顺序：内置名称（平台分组，其次 generic）、文件系统路径、插件目录中的外部 maker
func (r *Registry) Resolve(spec models.MakerSpec, platform models.Platform) (Maker, error) {
	m, err := r.load(spec, platform)
	if err != nil {
		return nil, err
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	log.Debug().Str("spec", spec.Raw).Str("maker", m.Describe().Name).Str("platform", string(platform)).Msg("maker resolved")
	return m, nil
}

func (r *Registry) load(spec models.MakerSpec, platform models.Platform) (Maker, error) {
	if spec.Kind == models.SpecPath {
		return LoadExternal(r.absPath(spec.Raw))
	}

	for _, m := range r.candidates(platform) {
		if m.Describe().Name == spec.Raw {
			return m, nil
		}
	}

	if r.finder != nil {
		if p, ok := r.finder.Find(spec.Raw); ok {
			return LoadExternal(p.Path)
		}
	}

	return nil, &MakerNotFoundError{
		Spec:       spec.Raw,
		Reason:     "no built-in maker or maker plugin with that name for " + string(platform),
		Suggestion: r.suggest(spec.Raw),
	}
}

func (r *Registry) absPath(p string) string {
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) && r.baseDir != "" {
		p = filepath.Join(r.baseDir, p)
	}
	return filepath.Clean(p)
}

// suggest 在内置名称中找最接近的一个
func (r *Registry) suggest(name string) string {
	var names []string
	for _, e := range r.Builtins() {
		names = append(names, e.Maker.Describe().Name)
	}
	if ranks := fuzzy.RankFindFold(name, names); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", 3
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

// Validate 校验 maker 的 API 版本与能力声明
func Validate(m Maker) error {
	d := m.Describe()
	if !APICompatible(d.APIVersion) {
		return &IncompatibleMakerError{Maker: d.Name, APIVersion: d.APIVersion}
	}
	var missing []Capability
	for _, c := range RequiredCapabilities() {
		if !d.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MakerIncompatibleError{Maker: d.Name, Missing: missing}
	}
	return nil
}

// APICompatible 判断版本与 HostAPIVersion 主版本号是否一致，接受 "1"、"v1"、"1.2.0" 等写法
func APICompatible(version string) bool {
	v := strings.TrimSpace(version)
	if v == "" {
		return false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return false
	}
	return semver.Major(v) == semver.Major(HostAPIVersion)
}
