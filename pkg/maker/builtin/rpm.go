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

var rpmArchs = map[models.Arch]string{
	models.ArchIA32:   "i386",
	models.ArchX64:    "x86_64",
	models.ArchARMv7l: "armv7hl",
	models.ArchARM64:  "aarch64",
}

var specTmpl = template.Must(template.New("spec").Parse(`Name: {{.Name}}
Version: {{.Version}}
Release: 1
Summary: {{.Summary}}
License: {{.License}}
BuildArch: {{.Arch}}
AutoReqProv: no

%description
{{.Summary}}

%install
mkdir -p %{buildroot}/usr/lib/{{.Name}}
cp -r {{.Source}}/. %{buildroot}/usr/lib/{{.Name}}/

%files
/usr/lib/{{.Name}}
`))

type specData struct {
	Name    string
	Version string
	Summary string
	License string
	Arch    string
	Source  string
}

// RPM 使用 rpmbuild 生成 RPM 包
type RPM struct{}

var _ maker.Maker = (*RPM)(nil)

// NewRPM 创建 rpm maker
func NewRPM() *RPM { return &RPM{} }

// Describe 实现 maker.Maker
func (r *RPM) Describe() maker.Descriptor {
	return descriptor("rpm", "RPM package built with rpmbuild", models.PlatformLinux)
}

// IsSupportedOnCurrentPlatform 实现 maker.Maker
func (r *RPM) IsSupportedOnCurrentPlatform() bool {
	return hostOS == "linux" && hasTools("rpmbuild")
}

// Make 生成 <name>-<version>-1.<rpmarch>.rpm
//
// 选项：name、description、license
func (r *RPM) Make(ctx context.Context, opts models.MakeOptions) ([]string, error) {
	arch, ok := rpmArchs[opts.Arch]
	if !ok {
		return nil, fmt.Errorf("rpm: unsupported arch %s", opts.Arch)
	}
	dir, err := prepareOutDir("rpm", opts)
	if err != nil {
		return nil, err
	}

	top, err := os.MkdirTemp("", "appforge-rpm-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(top)

	data := specData{
		Name:    packageName(opts),
		Version: appVersion(opts),
		Summary: pkgString(opts, "description", opts.AppName),
		License: pkgString(opts, "license", "Proprietary"),
		Arch:    arch,
		Source:  opts.AppDir,
	}
	var spec bytes.Buffer
	if err := specTmpl.Execute(&spec, data); err != nil {
		return nil, err
	}
	specPath := filepath.Join(top, data.Name+".spec")
	if err := os.WriteFile(specPath, spec.Bytes(), 0o644); err != nil {
		return nil, err
	}

	cmd := executor.NewExecutorContext(ctx, "rpmbuild", "-bb",
		"--define", "_topdir "+top,
		"--target", arch,
		specPath,
	)
	if err := run(cmd, "rpmbuild"); err != nil {
		return nil, err
	}

	built, err := filepath.Glob(filepath.Join(top, "RPMS", arch, "*.rpm"))
	if err != nil || len(built) == 0 {
		return nil, fmt.Errorf("rpmbuild produced no package for %s", arch)
	}
	var artifacts []string
	for _, src := range built {
		dest := filepath.Join(dir, filepath.Base(src))
		if err := moveFile(src, dest); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, dest)
	}
	return artifacts, nil
}

// moveFile 跨文件系统时退化为复制
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
