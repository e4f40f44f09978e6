package builtin

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/utils/executor"
)

// DMG 使用 hdiutil 生成 macOS 磁盘镜像，只能在 macOS 主机上运行
type DMG struct{}

var _ maker.Maker = (*DMG)(nil)

// NewDMG 创建 dmg maker
func NewDMG() *DMG { return &DMG{} }

// Describe 实现 maker.Maker
func (d *DMG) Describe() maker.Descriptor {
	return descriptor("dmg", "macOS disk image built with hdiutil")
}

// IsSupportedOnCurrentPlatform 实现 maker.Maker
func (d *DMG) IsSupportedOnCurrentPlatform() bool {
	return hostOS == "darwin" && hasTools("hdiutil")
}

// Make 生成 <AppName>-<version>-<arch>.dmg
//
// 选项：name（卷标，默认 AppName）、format（默认 UDZO）
func (d *DMG) Make(ctx context.Context, opts models.MakeOptions) ([]string, error) {
	dir, err := prepareOutDir("dmg", opts)
	if err != nil {
		return nil, err
	}
	volume := opts.AppName
	if v := optionString(opts, "name"); v != "" {
		volume = v
	}
	format := "UDZO"
	if v := optionString(opts, "format"); v != "" {
		format = v
	}
	dest := filepath.Join(dir, fmt.Sprintf("%s-%s-%s.dmg", opts.AppName, appVersion(opts), opts.Arch))

	cmd := executor.NewExecutorContext(ctx, "hdiutil", "create",
		"-volname", volume,
		"-srcfolder", opts.AppDir,
		"-ov",
		"-format", format,
		dest,
	)
	if err := run(cmd, "hdiutil"); err != nil {
		return nil, err
	}
	return []string{dest}, nil
}
