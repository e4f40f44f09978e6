package project

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
)

// stubMaker 在输出目录中写一个文件作为产物
type stubMaker struct {
	name      string
	defaults  []models.Platform
	supported bool
	fail      error
	calls     *[]string
}

func (s *stubMaker) Describe() maker.Descriptor {
	return maker.Descriptor{
		Name:             s.name,
		APIVersion:       maker.HostAPIVersion,
		DefaultPlatforms: s.defaults,
		Capabilities:     maker.RequiredCapabilities(),
	}
}

func (s *stubMaker) IsSupportedOnCurrentPlatform() bool { return s.supported }

func (s *stubMaker) Make(_ context.Context, opts models.MakeOptions) ([]string, error) {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.name+":"+string(opts.Platform)+"/"+string(opts.Arch))
	}
	if s.fail != nil {
		return nil, s.fail
	}
	dir := filepath.Join(opts.OutDir, "make", s.name, string(opts.Platform), string(opts.Arch))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	artifact := filepath.Join(dir, opts.AppName+"."+s.name)
	if err := os.WriteFile(artifact, []byte(opts.AppDir), 0o644); err != nil {
		return nil, err
	}
	return []string{artifact}, nil
}

func newStub(name string, calls *[]string, defaults ...models.Platform) *stubMaker {
	return &stubMaker{name: name, defaults: defaults, supported: true, calls: calls}
}

// stubPackager 创建应用目录并记录调用
type stubPackager struct {
	calls []models.PackageOptions
	fail  error
}

func (p *stubPackager) Package(_ context.Context, opts models.PackageOptions) ([]string, error) {
	p.calls = append(p.calls, opts)
	if p.fail != nil {
		return nil, p.fail
	}
	var paths []string
	for _, a := range opts.Archs {
		dir := BundlePath(opts.OutDir, opts.AppName, opts.Platform, a)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		paths = append(paths, dir)
	}
	return paths, nil
}

type fixture struct {
	calls    []string
	makers   map[string]*stubMaker
	registry *maker.Registry
	resolver *TargetResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{makers: map[string]*stubMaker{}}
	zip := newStub("zip", &f.calls, models.PlatformDarwin, models.PlatformMAS)
	dmg := newStub("dmg", &f.calls)
	deb := newStub("deb", &f.calls, models.PlatformLinux)
	rpm := newStub("rpm", &f.calls, models.PlatformLinux)
	squirrel := newStub("squirrel", &f.calls, models.PlatformWin32)
	for _, m := range []*stubMaker{zip, dmg, deb, rpm, squirrel} {
		f.makers[m.name] = m
	}
	f.registry = maker.NewRegistry(map[models.Family][]maker.Maker{
		models.FamilyGeneric: {zip},
		models.FamilyDarwin:  {dmg},
		models.FamilyLinux:   {deb, rpm},
		models.FamilyWin32:   {squirrel},
	})
	f.resolver = NewTargetResolver(f.registry, WithHost(models.PlatformLinux))
	return f
}

// writeProject 写入 package.json 并加载配置
func writeProject(t *testing.T, forge map[string]any, extra map[string]any) *models.ProjectConfig {
	t.Helper()
	dir := t.TempDir()
	pkg := map[string]any{
		"name":    "demo",
		"version": "1.0.0",
	}
	for k, v := range extra {
		pkg[k] = v
	}
	if forge != nil {
		pkg["config"] = map[string]any{"forge": forge}
	}
	data, err := json.Marshal(pkg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadProjectConfig(dir, "")
	if err != nil {
		t.Fatalf("LoadProjectConfig: %v", err)
	}
	return cfg
}

func assertErrorAs[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Fatalf("expected %T, got %v", target, err)
	}
	return target
}
