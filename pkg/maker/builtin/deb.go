package builtin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/utils/executor"
)

var debArchs = map[models.Arch]string{
	models.ArchIA32:   "i386",
	models.ArchX64:    "amd64",
	models.ArchARMv7l: "armhf",
	models.ArchARM64:  "arm64",
}

var controlTmpl = template.Must(template.New("control").Parse(`Package: {{.Name}}
Version: {{.Version}}
Section: {{.Section}}
Priority: {{.Priority}}
Architecture: {{.Arch}}
Maintainer: {{.Maintainer}}
{{- if .Depends}}
Depends: {{.Depends}}
{{- end}}
{{- if .Homepage}}
Homepage: {{.Homepage}}
{{- end}}
Description: {{.Description}}
`))

type controlData struct {
	Name        string
	Version     string
	Section     string
	Priority    string
	Arch        string
	Maintainer  string
	Depends     string
	Homepage    string
	Description string
}

// Deb 使用 dpkg-deb 生成 Debian 包
type Deb struct{}

var _ maker.Maker = (*Deb)(nil)

// NewDeb 创建 deb maker
func NewDeb() *Deb { return &Deb{} }

// Describe 实现 maker.Maker
func (d *Deb) Describe() maker.Descriptor {
	return descriptor("deb", "Debian package built with dpkg-deb", models.PlatformLinux)
}

// IsSupportedOnCurrentPlatform 实现 maker.Maker
func (d *Deb) IsSupportedOnCurrentPlatform() bool {
	return (hostOS == "linux" || hostOS == "darwin") && hasTools("dpkg-deb")
}

// Make 生成 <name>_<version>_<debarch>.deb，应用安装到 /usr/lib/<name>
//
// 选项：name、maintainer、description、section、priority、depends、homepage
func (d *Deb) Make(ctx context.Context, opts models.MakeOptions) ([]string, error) {
	arch, ok := debArchs[opts.Arch]
	if !ok {
		return nil, fmt.Errorf("deb: unsupported arch %s", opts.Arch)
	}
	dir, err := prepareOutDir("deb", opts)
	if err != nil {
		return nil, err
	}

	stage, err := os.MkdirTemp("", "appforge-deb-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(stage)

	name := packageName(opts)
	data := controlData{
		Name:        name,
		Version:     appVersion(opts),
		Section:     pkgString(opts, "section", "utils"),
		Priority:    pkgString(opts, "priority", "optional"),
		Arch:        arch,
		Maintainer:  author(opts),
		Depends:     joinDepends(option(opts.Config, "depends")),
		Homepage:    pkgString(opts, "homepage", ""),
		Description: pkgString(opts, "description", opts.AppName),
	}
	var control bytes.Buffer
	if err := controlTmpl.Execute(&control, data); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(stage, "DEBIAN"), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(stage, "DEBIAN", "control"), control.Bytes(), 0o644); err != nil {
		return nil, err
	}
	if err := copyDir(opts.AppDir, filepath.Join(stage, "usr", "lib", name)); err != nil {
		return nil, err
	}

	dest := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.deb", name, data.Version, arch))
	cmd := executor.NewExecutorContext(ctx, "dpkg-deb", "--build", "--root-owner-group", stage, dest)
	if err := run(cmd, "dpkg-deb"); err != nil {
		return nil, err
	}
	return []string{dest}, nil
}

// joinDepends 接受字符串或字符串列表
func joinDepends(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case []any:
		var buf bytes.Buffer
		for i, item := range d {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprint(&buf, item)
		}
		return buf.String()
	case []string:
		var buf bytes.Buffer
		for i, item := range d {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(item)
		}
		return buf.String()
	}
	return ""
}

// copyDir 复制目录树
func copyDir(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}
