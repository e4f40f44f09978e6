package models

import (
	"errors"
	"strings"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	for _, s := range []string{"darwin", "mas", "linux", "win32", "all", " Linux "} {
		if _, err := ParsePlatform(s); err != nil {
			t.Errorf("ParsePlatform(%q): %v", s, err)
		}
	}
	_, err := ParsePlatform("dos")
	var invalid *InvalidPlatformError
	if !errors.As(err, &invalid) || !strings.Contains(err.Error(), "invalid platform") {
		t.Fatalf("expected InvalidPlatformError, got %v", err)
	}
}

func TestPlatformFamily(t *testing.T) {
	tests := map[Platform]Family{
		PlatformDarwin: FamilyDarwin,
		PlatformMAS:    FamilyDarwin,
		PlatformLinux:  FamilyLinux,
		PlatformWin32:  FamilyWin32,
	}
	for p, want := range tests {
		if got := p.Family(); got != want {
			t.Errorf("%s.Family() = %s, want %s", p, got, want)
		}
	}
}

func TestHostMapping(t *testing.T) {
	if platformFromGOOS("windows") != PlatformWin32 || platformFromGOOS("freebsd") != PlatformLinux {
		t.Error("unexpected GOOS mapping")
	}
	if archFromGOARCH("386") != ArchIA32 || archFromGOARCH("arm") != ArchARMv7l || archFromGOARCH("amd64") != ArchX64 {
		t.Error("unexpected GOARCH mapping")
	}
}

func TestParseArchList(t *testing.T) {
	archs, err := ParseArchList("x64, arm64,x64")
	if err != nil {
		t.Fatal(err)
	}
	if len(archs) != 2 || archs[0] != ArchX64 || archs[1] != ArchARM64 {
		t.Errorf("got %v", archs)
	}
	if archs, _ := ParseArchList(" "); len(archs) != 1 || archs[0] != HostArch() {
		t.Errorf("empty list should be host arch, got %v", archs)
	}
	if _, err := ParseArchList("x64,sparc"); err == nil {
		t.Error("expected invalid arch error")
	}
}

func TestExpandArchs(t *testing.T) {
	got := ExpandArchs([]Arch{ArchX64, ArchAll}, PlatformDarwin)
	if len(got) != 2 || got[0] != ArchX64 || got[1] != ArchARM64 {
		t.Errorf("got %v", got)
	}
	if got := ExpandArchs([]Arch{ArchAll}, PlatformLinux); len(got) != 4 {
		t.Errorf("linux all = %v", got)
	}
}

func TestParseMakerSpec(t *testing.T) {
	tests := []struct {
		raw  string
		kind MakerSpecKind
	}{
		{"zip", SpecName},
		{"@acme/snap", SpecName},
		{"./makers/snap", SpecPath},
		{"../snap", SpecPath},
		{"/opt/makers/snap", SpecPath},
		{"~/makers/snap", SpecPath},
		{"vendor/snap", SpecPath},
	}
	for _, tt := range tests {
		if got := ParseMakerSpec(tt.raw); got.Kind != tt.kind || got.Raw != tt.raw {
			t.Errorf("ParseMakerSpec(%q) = %+v, want kind %s", tt.raw, got, tt.kind)
		}
	}
	specs := ParseMakerSpecs("zip, ,dmg,")
	if len(specs) != 2 || specs[1].Raw != "dmg" {
		t.Errorf("ParseMakerSpecs = %v", specs)
	}
}

func TestProjectConfigHelpers(t *testing.T) {
	cfg := &ProjectConfig{PackageJSON: map[string]any{
		"name":            "demo",
		"productName":     "Demo App",
		"devDependencies": map[string]any{"electron-prebuilt-compile": "1.0.0"},
	}}
	if cfg.AppName() != "Demo App" {
		t.Errorf("AppName = %s", cfg.AppName())
	}
	if cfg.AppVersion() != "0.0.0" {
		t.Errorf("AppVersion = %s", cfg.AppVersion())
	}
	if !cfg.HasDependency("electron-prebuilt-compile") || cfg.HasDependency("react") {
		t.Error("HasDependency mismatch")
	}

	cfg.MakeTargets = map[string][]string{"all": {"zip"}, "dos": {"zip"}}
	if err := cfg.ValidateKeys(); err == nil {
		t.Error("expected invalid make_targets key")
	}
}

func TestPackagerConfigAsar(t *testing.T) {
	if (PackagerConfig{Asar: true}).AsarUnpack() != "" {
		t.Error("bool asar has no unpack")
	}
	c := PackagerConfig{Asar: map[string]any{"unpackdir": "native"}}
	if !c.AsarEnabled() || c.AsarUnpack() != "native" {
		t.Errorf("asar object: enabled=%v unpack=%q", c.AsarEnabled(), c.AsarUnpack())
	}
	if (PackagerConfig{}).AsarEnabled() {
		t.Error("asar defaults to disabled")
	}
}

func TestPluginDisplayName(t *testing.T) {
	for name, want := range map[string]string{
		"appforge-maker-snap":     "snap",
		"appforge-maker-snap.exe": "snap",
		"appforge-maker-flat.CMD": "flat",
	} {
		p := &PluginInfo{Name: name}
		if got := p.GetDisplayName(); got != want {
			t.Errorf("GetDisplayName(%s) = %s, want %s", name, got, want)
		}
	}
}
