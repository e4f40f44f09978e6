package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
)

func newPipeline(f *fixture, p Packager, states *[]State) *Pipeline {
	return NewPipeline(f.resolver, p, WithStateObserver(func(_ string, s State) {
		if states != nil {
			*states = append(*states, s)
		}
	}))
}

func stateString(states []State) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = string(s)
	}
	return strings.Join(parts, ">")
}

func TestMake_Success(t *testing.T) {
	f := newFixture(t)
	cfg := writeProject(t, nil, nil)
	var states []State
	p := &stubPackager{}

	results, err := newPipeline(f, p, &states).Make(context.Background(), MakeRequest{
		Config: cfg, Platform: "linux", Arch: "x64,arm64",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := stateString(states); got != "INIT>VALIDATE>PACKAGE>RESOLVE_TARGETS>RUN_MAKERS>AGGREGATE>DONE" {
		t.Errorf("states = %s", got)
	}
	var keys []string
	for _, r := range results {
		keys = append(keys, r.Maker+":"+string(r.Platform)+"/"+string(r.Arch))
		for _, a := range r.Artifacts {
			if !strings.HasPrefix(a, cfg.OutDir) {
				t.Errorf("artifact %s outside %s", a, cfg.OutDir)
			}
		}
	}
	if got := strings.Join(keys, " "); got != "deb:linux/x64 deb:linux/arm64 rpm:linux/x64 rpm:linux/arm64" {
		t.Errorf("results = %s", got)
	}
	if len(p.calls) != 2 {
		t.Errorf("packager calls = %d, want 2", len(p.calls))
	}
	// maker 收到的是对应目标的应用目录
	data, _ := os.ReadFile(results[1].Artifacts[0])
	if want := BundlePath(cfg.OutDir, "demo", models.PlatformLinux, models.ArchARM64); string(data) != want {
		t.Errorf("maker app dir = %s, want %s", data, want)
	}
}

func TestMake_MasWithOverrides(t *testing.T) {
	f := newFixture(t)
	cfg := writeProject(t, nil, nil)
	results, err := newPipeline(f, &stubPackager{}, nil).Make(context.Background(), MakeRequest{
		Config: cfg, Platform: "mas", Arch: "x64", OverrideTargets: []string{"zip,dmg"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Maker != "zip" || results[1].Maker != "dmg" {
		t.Fatalf("results = %+v", results)
	}
}

func TestMake_InvalidConfigStopsBeforePackaging(t *testing.T) {
	f := newFixture(t)
	cfg := writeProject(t, map[string]any{"electronPackagerConfig": map[string]any{"all": true}}, nil)
	var states []State
	p := &stubPackager{}

	_, err := newPipeline(f, p, &states).Make(context.Background(), MakeRequest{Config: cfg, Platform: "linux"})
	assertErrorAs[*ConfigValidationError](t, err)
	if len(p.calls) != 0 || len(f.calls) != 0 {
		t.Errorf("nothing should run, packager=%d makers=%v", len(p.calls), f.calls)
	}
	if got := stateString(states); got != "INIT>VALIDATE>FAILED" {
		t.Errorf("states = %s", got)
	}
}

func TestMake_InvalidPlatform(t *testing.T) {
	f := newFixture(t)
	cfg := writeProject(t, nil, nil)
	p := &stubPackager{}
	_, err := newPipeline(f, p, nil).Make(context.Background(), MakeRequest{Config: cfg, Platform: "dos"})
	if err == nil || !strings.Contains(err.Error(), "invalid platform") {
		t.Fatalf("expected invalid platform, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Error("packager should not run for an invalid platform")
	}
}

func TestMake_FirstFailureAborts(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("rpmbuild: spec file is broken")
	f.makers["rpm"].fail = boom
	cfg := writeProject(t, map[string]any{
		"make_targets": map[string]any{"linux": []string{"deb", "rpm", "zip"}},
	}, nil)
	var states []State

	results, err := newPipeline(f, &stubPackager{}, &states).Make(context.Background(), MakeRequest{
		Config: cfg, Platform: "linux", Arch: "x64",
	})
	if results != nil {
		t.Errorf("no partial results expected, got %v", results)
	}
	e := assertErrorAs[*MakerRunError](t, err)
	if e.Maker != "rpm" || e.Platform != models.PlatformLinux || e.Arch != models.ArchX64 {
		t.Errorf("error context = %+v", e)
	}
	if errors.Unwrap(err) != boom || !strings.Contains(err.Error(), boom.Error()) {
		t.Errorf("original error must be preserved, got %v", err)
	}
	if got := strings.Join(f.calls, " "); got != "deb:linux/x64 rpm:linux/x64" {
		t.Errorf("zip must never run after rpm fails, calls = %s", got)
	}
	if states[len(states)-1] != StateFailed {
		t.Errorf("final state = %s", states[len(states)-1])
	}
}

func TestMake_OverrideUnsupported(t *testing.T) {
	f := newFixture(t)
	f.makers["dmg"].supported = false
	cfg := writeProject(t, nil, nil)
	_, err := newPipeline(f, &stubPackager{}, nil).Make(context.Background(), MakeRequest{
		Config: cfg, Platform: "darwin", Arch: "x64", OverrideTargets: []string{"dmg"},
	})
	if err == nil || !strings.Contains(err.Error(), "the maker declared that it cannot run on this platform") {
		t.Fatalf("expected cannot run error, got %v", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("no maker should run, got %v", f.calls)
	}
}

func TestMake_IncompatibleExternalMaker(t *testing.T) {
	f := newFixture(t)
	cfg := writeProject(t, nil, nil)
	makerDir := filepath.Join(cfg.Dir, "makers", "legacy")
	if err := os.MkdirAll(makerDir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := "name: legacy\napi_version: v1\ncapabilities: [make]\ncommand: ./legacy\n"
	if err := os.WriteFile(filepath.Join(makerDir, "maker.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := newPipeline(f, &stubPackager{}, nil).Make(context.Background(), MakeRequest{
		Config: cfg, Platform: "linux", Arch: "x64", OverrideTargets: []string{makerDir},
	})
	if err == nil || !strings.Contains(err.Error(), "incompatible with this version") {
		t.Fatalf("expected incompatible error, got %v", err)
	}
	assertErrorAs[*maker.MakerIncompatibleError](t, err)
}

type escapingMaker struct{ stubMaker }

func (e *escapingMaker) Make(_ context.Context, opts models.MakeOptions) ([]string, error) {
	outside := filepath.Join(filepath.Dir(opts.OutDir), "stray.zip")
	if err := os.WriteFile(outside, nil, 0o644); err != nil {
		return nil, err
	}
	return []string{outside}, nil
}

func TestMake_ArtifactOutsideOutDir(t *testing.T) {
	stray := &escapingMaker{stubMaker{name: "stray", supported: true, defaults: []models.Platform{models.PlatformLinux}}}
	reg := maker.NewRegistry(map[models.Family][]maker.Maker{models.FamilyLinux: {stray}})
	resolver := NewTargetResolver(reg, WithHost(models.PlatformLinux))
	cfg := writeProject(t, nil, nil)

	var states []State
	_, err := NewPipeline(resolver, &stubPackager{}, WithStateObserver(func(_ string, s State) { states = append(states, s) })).
		Make(context.Background(), MakeRequest{Config: cfg, Platform: "linux", Arch: "x64"})
	if err == nil || !strings.Contains(err.Error(), "outside the output directory") {
		t.Fatalf("expected containment error, got %v", err)
	}
	if got := stateString(states); !strings.HasSuffix(got, "RUN_MAKERS>FAILED") {
		t.Errorf("states = %s", got)
	}
}

// missingMaker 报告一个并未生成的产物
type missingMaker struct{ stubMaker }

func (m *missingMaker) Make(_ context.Context, opts models.MakeOptions) ([]string, error) {
	return []string{filepath.Join(opts.OutDir, "make", "ghost.zip")}, nil
}

func TestMake_BadArtifactStopsLaterMakers(t *testing.T) {
	var calls []string
	stray := &escapingMaker{stubMaker{name: "stray", supported: true}}
	ghost := &missingMaker{stubMaker{name: "ghost", supported: true}}
	deb := newStub("deb", &calls, models.PlatformLinux)
	reg := maker.NewRegistry(map[models.Family][]maker.Maker{models.FamilyLinux: {stray, ghost, deb}})
	resolver := NewTargetResolver(reg, WithHost(models.PlatformLinux))

	tests := []struct {
		first   string
		wantErr string
	}{
		{"stray", "outside the output directory"},
		{"ghost", "does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.first, func(t *testing.T) {
			calls = nil
			cfg := writeProject(t, map[string]any{
				"make_targets": map[string]any{"linux": []string{tt.first, "deb"}},
			}, nil)
			_, err := NewPipeline(resolver, &stubPackager{}).
				Make(context.Background(), MakeRequest{Config: cfg, Platform: "linux", Arch: "x64"})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
			if e := assertErrorAs[*MakerRunError](t, err); e.Maker != tt.first {
				t.Errorf("failing maker = %s", e.Maker)
			}
			if len(calls) != 0 {
				t.Errorf("deb must not run after %s fails, calls = %v", tt.first, calls)
			}
		})
	}
}

func TestRunItem_UnsupportedMaker(t *testing.T) {
	var calls []string
	dmg := newStub("dmg", &calls)
	dmg.supported = false
	item := ResolvedItem{
		WorkItem: models.WorkItem{Maker: "dmg", Platform: models.PlatformDarwin, Arch: models.ArchX64},
		Impl:     dmg,
	}
	cfg := writeProject(t, nil, nil)

	_, err := runItem(context.Background(), *log, cfg, item, t.TempDir(), cfg.OutDir)
	e := assertErrorAs[*maker.MakerUnsupportedError](t, err)
	if e.Maker != "dmg" || e.Platform != "darwin" {
		t.Errorf("error context = %+v", e)
	}
	if len(calls) != 0 {
		t.Errorf("Make must not be called, calls = %v", calls)
	}
}

func TestMake_CompilePipelineWithUnpack(t *testing.T) {
	forge := map[string]any{"electronPackagerConfig": map[string]any{"asar": map[string]any{"unpack": "somedir/**"}}}
	deps := []map[string]any{
		{
			"dependencies":    map[string]any{"electron-compile": "6.4.2"},
			"devDependencies": map[string]any{"@barco/electron-prebuilt-compile": "1.8.4"},
		},
		{"devDependencies": map[string]any{"@sebak/electron-prebuilt-compile": "1.7.9"}},
	}
	for _, extra := range deps {
		f := newFixture(t)
		cfg := writeProject(t, forge, extra)
		p := &stubPackager{}
		_, err := newPipeline(f, p, nil).Make(context.Background(), MakeRequest{Config: cfg, Platform: "linux", Arch: "x64"})
		if err == nil || !strings.Contains(err.Error(), "electron-compile does not support asar.unpack") {
			t.Fatalf("deps %v: error = %v", extra, err)
		}
		if len(p.calls) != 0 || len(f.calls) != 0 {
			t.Errorf("deps %v: nothing should run, packager=%d makers=%v", extra, len(p.calls), f.calls)
		}
	}
}

func TestWithinDir(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "tmp", "out")
	tests := map[string]bool{
		filepath.Join(base, "make", "a.zip"):     true,
		filepath.Join(base, "..", "a.zip"):       false,
		filepath.Join(base, "..", "outside.zip"): false,
		base + "-other":                          false,
	}
	for path, want := range tests {
		if got := withinDir(base, path); got != want {
			t.Errorf("withinDir(%s) = %v, want %v", path, got, want)
		}
	}
}
