package builtin

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
)

func TestMakers_AllValid(t *testing.T) {
	for family, makers := range Makers() {
		for _, m := range makers {
			if err := maker.Validate(m); err != nil {
				t.Errorf("%s/%s: %v", family, m.Describe().Name, err)
			}
		}
	}
}

func TestMakers_RegistryDefaults(t *testing.T) {
	r := maker.NewRegistry(Makers())
	want := map[models.Platform][]string{
		models.PlatformDarwin: {"zip"},
		models.PlatformMAS:    {"zip"},
		models.PlatformLinux:  {"deb", "rpm"},
		models.PlatformWin32:  {"squirrel"},
	}
	for platform, names := range want {
		var got []string
		for _, s := range r.Defaults(platform) {
			got = append(got, s.Raw)
		}
		if strings.Join(got, ",") != strings.Join(names, ",") {
			t.Errorf("Defaults(%s) = %v, want %v", platform, got, names)
		}
	}
}

func stubHost(t *testing.T, goos string, tools ...string) {
	t.Helper()
	oldOS, oldLook := hostOS, lookPath
	t.Cleanup(func() { hostOS, lookPath = oldOS, oldLook })
	hostOS = goos
	lookPath = func(file string) (string, error) {
		for _, tool := range tools {
			if tool == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestIsSupportedOnCurrentPlatform(t *testing.T) {
	tests := []struct {
		name  string
		maker maker.Maker
		goos  string
		tools []string
		want  bool
	}{
		{"zip anywhere", NewZip(), "windows", nil, true},
		{"dmg on darwin", NewDMG(), "darwin", []string{"hdiutil"}, true},
		{"dmg on linux", NewDMG(), "linux", []string{"hdiutil"}, false},
		{"deb with dpkg", NewDeb(), "linux", []string{"dpkg-deb"}, true},
		{"deb on darwin", NewDeb(), "darwin", []string{"dpkg-deb"}, true},
		{"deb without dpkg", NewDeb(), "linux", nil, false},
		{"rpm on darwin", NewRPM(), "darwin", []string{"rpmbuild"}, false},
		{"rpm on linux", NewRPM(), "linux", []string{"rpmbuild"}, true},
		{"squirrel on linux", NewSquirrel(), "linux", []string{"nuget", "Squirrel.exe"}, false},
		{"squirrel missing nuget", NewSquirrel(), "windows", []string{"Squirrel.exe"}, false},
		{"squirrel on windows", NewSquirrel(), "windows", []string{"nuget", "Squirrel.exe"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubHost(t, tt.goos, tt.tools...)
			if got := tt.maker.IsSupportedOnCurrentPlatform(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestZip_Make(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "demo-darwin-x64")
	if err := os.MkdirAll(filepath.Join(appDir, "resources"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "resources", "app.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(root, "out")

	opts := models.MakeOptions{
		AppDir:      appDir,
		AppName:     "demo",
		OutDir:      out,
		Platform:    models.PlatformDarwin,
		Arch:        models.ArchX64,
		PackageJSON: map[string]any{"version": "1.2.3"},
	}
	// 连续执行两次，第二次应在干净目录中重新生成
	var artifacts []string
	for range 2 {
		var err error
		artifacts, err = NewZip().Make(context.Background(), opts)
		if err != nil {
			t.Fatalf("Make: %v", err)
		}
	}

	want := filepath.Join(out, "make", "zip", "darwin", "x64", "demo-darwin-x64-1.2.3.zip")
	if len(artifacts) != 1 || artifacts[0] != want {
		t.Fatalf("artifacts = %v, want [%s]", artifacts, want)
	}

	r, err := zip.OpenReader(want)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	expected := []string{"demo-darwin-x64/", "demo-darwin-x64/resources/", "demo-darwin-x64/resources/app.txt"}
	if strings.Join(names, "|") != strings.Join(expected, "|") {
		t.Errorf("entries = %v, want %v", names, expected)
	}
}

func TestZipDir_FailureRemovesPartialArchive(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "demo-linux-x64")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "main.js"), []byte("app"), 0o644); err != nil {
		t.Fatal(err)
	}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		src  string
	}{
		{"missing source", context.Background(), filepath.Join(root, "missing")},
		{"cancelled", cancelled, appDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(root, strings.ReplaceAll(tt.name, " ", "-")+".zip")
			if err := zipDir(tt.ctx, tt.src, dest); err == nil {
				t.Fatal("expected an error")
			}
			if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("partial archive left behind: %v", err)
			}
		})
	}
}

func TestDebControl(t *testing.T) {
	var buf bytes.Buffer
	err := controlTmpl.Execute(&buf, controlData{
		Name: "demo", Version: "1.0.0", Section: "utils", Priority: "optional",
		Arch: "amd64", Maintainer: "Jane <jane@example.com>", Depends: joinDepends([]any{"libgtk-3-0", "libnss3"}),
		Description: "Demo app",
	})
	if err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, line := range []string{"Package: demo", "Architecture: amd64", "Depends: libgtk-3-0, libnss3", "Description: Demo app"} {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("control missing %q:\n%s", line, got)
		}
	}
	if strings.Contains(got, "Homepage") {
		t.Errorf("empty homepage should be omitted:\n%s", got)
	}
}

func TestPackageMetadata(t *testing.T) {
	opts := models.MakeOptions{
		AppName: "Demo App",
		PackageJSON: map[string]any{
			"name":   "@acme/Demo_App",
			"author": map[string]any{"name": "Jane", "email": "jane@example.com"},
		},
	}
	if got := packageName(opts); got != "acme-demo-app" {
		t.Errorf("packageName = %q", got)
	}
	if got := author(opts); got != "Jane <jane@example.com>" {
		t.Errorf("author = %q", got)
	}
	if got := appVersion(opts); got != "0.0.0" {
		t.Errorf("appVersion = %q", got)
	}
}
