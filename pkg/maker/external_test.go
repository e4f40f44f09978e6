package maker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/yeisme/appforge/pkg/models"
)

const fixtureScript = `#!/bin/sh
case "$1" in
  describe)
    echo '{"name":"fixture","api_version":"v1","capabilities":["support-check","make"],"default_platforms":["linux"]}'
    ;;
  supported)
    echo '{"supported":true}'
    ;;
  make)
    input=$(cat)
    echo "building fixture" >&2
    mkdir -p "$OUT"
    echo "$input" > "$OUT/options.json"
    echo '{"artifacts":["options.json"]}'
    ;;
esac
`

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures")
	}
}

func TestLoadExternal_Executable(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	t.Setenv("OUT", out)
	path := writeScript(t, dir, "appforge-maker-fixture", fixtureScript)

	m, err := LoadExternal(path)
	if err != nil {
		t.Fatalf("LoadExternal: %v", err)
	}
	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !m.Describe().IsDefaultFor(models.PlatformLinux) {
		t.Error("fixture should be a linux default")
	}
	if !m.IsSupportedOnCurrentPlatform() {
		t.Fatal("fixture should be supported")
	}

	artifacts, err := m.Make(context.Background(), models.MakeOptions{
		AppName:  "demo",
		OutDir:   out,
		Platform: models.PlatformLinux,
		Arch:     models.ArchX64,
	})
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	want := filepath.Join(out, "options.json")
	if len(artifacts) != 1 || artifacts[0] != want {
		t.Fatalf("artifacts = %v, want [%s]", artifacts, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"app_name":"demo"`) {
		t.Errorf("maker should receive options on stdin, got %s", data)
	}
}

func TestLoadExternal_Manifest(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	writeScript(t, dir, "run.sh", "#!/bin/sh\necho '{\"supported\":false}'\n")
	manifest := `name: manifest-maker
api_version: "1.0.0"
capabilities: [support-check, make]
command: ./run.sh
`
	if err := os.WriteFile(filepath.Join(dir, "maker.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadExternal(dir)
	if err != nil {
		t.Fatalf("LoadExternal: %v", err)
	}
	if m.Describe().Name != "manifest-maker" {
		t.Errorf("name = %q", m.Describe().Name)
	}
	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if m.IsSupportedOnCurrentPlatform() {
		t.Error("manifest maker declared itself unsupported")
	}
}

func TestLoadExternal_ManifestMissingCapability(t *testing.T) {
	dir := t.TempDir()
	manifest := `{"name":"partial","api_version":"v1","capabilities":["make"],"command":"true"}`
	if err := os.WriteFile(filepath.Join(dir, "maker.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(nil)
	_, err := r.Resolve(models.ParseMakerSpec(dir), models.PlatformLinux)
	var inc *MakerIncompatibleError
	if !errors.As(err, &inc) {
		t.Fatalf("expected MakerIncompatibleError, got %v", err)
	}
	if !strings.Contains(err.Error(), "is incompatible with this version") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRegistry_ResolveRelativePath(t *testing.T) {
	skipOnWindows(t)
	base := t.TempDir()
	makerDir := filepath.Join(base, "makers")
	if err := os.MkdirAll(makerDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, makerDir, "appforge-maker-fixture", fixtureScript)

	r := NewRegistry(nil, WithBaseDir(base))
	m, err := r.Resolve(models.ParseMakerSpec("./makers/appforge-maker-fixture"), models.PlatformLinux)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Describe().Name != "fixture" {
		t.Errorf("name = %q", m.Describe().Name)
	}
}

func TestLoadExternal_Missing(t *testing.T) {
	_, err := LoadExternal(filepath.Join(t.TempDir(), "nope"))
	var nf *MakerNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected MakerNotFoundError, got %v", err)
	}
}
