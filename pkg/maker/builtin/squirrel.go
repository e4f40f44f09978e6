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

var nuspecTmpl = template.Must(template.New("nuspec").Parse(`<?xml version="1.0" encoding="utf-8"?>
<package>
  <metadata>
    <id>{{.ID}}</id>
    <version>{{.Version}}</version>
    <title>{{.Title}}</title>
    <authors>{{.Authors}}</authors>
    <description>{{.Description}}</description>
  </metadata>
  <files>
    <file src="{{.Source}}\**" target="lib\net45" />
  </files>
</package>
`))

type nuspecData struct {
	ID          string
	Version     string
	Title       string
	Authors     string
	Description string
	Source      string
}

// Squirrel 使用 nuget 和 Squirrel.exe 生成 Windows 安装程序，只能在 Windows 主机上运行
type Squirrel struct{}

var _ maker.Maker = (*Squirrel)(nil)

// NewSquirrel 创建 squirrel maker
func NewSquirrel() *Squirrel { return &Squirrel{} }

// Describe 实现 maker.Maker
func (s *Squirrel) Describe() maker.Descriptor {
	return descriptor("squirrel", "Squirrel.Windows installer", models.PlatformWin32)
}

// IsSupportedOnCurrentPlatform 实现 maker.Maker
func (s *Squirrel) IsSupportedOnCurrentPlatform() bool {
	return hostOS == "windows" && hasTools("nuget", "Squirrel.exe")
}

// Make 生成 RELEASES、<AppName>Setup.exe 和完整 nupkg
//
// 选项：name（包 id）、authors、description、setupIcon、loadingGif
func (s *Squirrel) Make(ctx context.Context, opts models.MakeOptions) ([]string, error) {
	dir, err := prepareOutDir("squirrel", opts)
	if err != nil {
		return nil, err
	}
	work, err := os.MkdirTemp("", "appforge-squirrel-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(work)

	data := nuspecData{
		ID:          packageName(opts),
		Version:     appVersion(opts),
		Title:       opts.AppName,
		Authors:     pkgString(opts, "authors", author(opts)),
		Description: pkgString(opts, "description", opts.AppName),
		Source:      opts.AppDir,
	}
	var nuspec bytes.Buffer
	if err := nuspecTmpl.Execute(&nuspec, data); err != nil {
		return nil, err
	}
	nuspecPath := filepath.Join(work, data.ID+".nuspec")
	if err := os.WriteFile(nuspecPath, nuspec.Bytes(), 0o644); err != nil {
		return nil, err
	}

	if err := run(executor.NewExecutorContext(ctx, "nuget", "pack", nuspecPath, "-OutputDirectory", work, "-NoDefaultExcludes"), "nuget"); err != nil {
		return nil, err
	}
	nupkg := filepath.Join(work, fmt.Sprintf("%s.%s.nupkg", data.ID, data.Version))

	args := []string{"--releasify", nupkg, "--releaseDir", dir}
	if icon := optionString(opts, "setupIcon"); icon != "" {
		args = append(args, "--setupIcon", icon)
	}
	if gif := optionString(opts, "loadingGif"); gif != "" {
		args = append(args, "--loadingGif", gif)
	}
	if err := run(executor.NewExecutorContext(ctx, "Squirrel.exe", args...), "squirrel"); err != nil {
		return nil, err
	}

	setup := filepath.Join(dir, opts.AppName+"Setup.exe")
	if err := os.Rename(filepath.Join(dir, "Setup.exe"), setup); err != nil {
		return nil, fmt.Errorf("squirrel did not produce Setup.exe: %w", err)
	}
	return []string{
		filepath.Join(dir, "RELEASES"),
		setup,
		filepath.Join(dir, fmt.Sprintf("%s-%s-full.nupkg", data.ID, data.Version)),
	}, nil
}
