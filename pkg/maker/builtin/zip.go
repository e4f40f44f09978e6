package builtin

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
)

// Zip 把应用目录打成 zip 包，在任何主机上可用
type Zip struct{}

var _ maker.Maker = (*Zip)(nil)

// NewZip 创建 zip maker
func NewZip() *Zip { return &Zip{} }

// Describe 实现 maker.Maker
func (z *Zip) Describe() maker.Descriptor {
	return descriptor("zip", "Zip archive of the packaged application", models.PlatformDarwin, models.PlatformMAS)
}

// IsSupportedOnCurrentPlatform 实现 maker.Maker
func (z *Zip) IsSupportedOnCurrentPlatform() bool { return true }

// Make 生成 <AppName>-<platform>-<arch>-<version>.zip
func (z *Zip) Make(ctx context.Context, opts models.MakeOptions) ([]string, error) {
	dir, err := prepareOutDir("zip", opts)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(dir, fmt.Sprintf("%s-%s-%s-%s.zip", opts.AppName, opts.Platform, opts.Arch, appVersion(opts)))
	if err := zipDir(ctx, opts.AppDir, dest); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dest, err)
	}
	return []string{dest}, nil
}

// zipDir 将 srcDir 打包为 dest，归档内以 srcDir 的目录名为根，失败时删除不完整的 dest
func zipDir(ctx context.Context, srcDir, dest string) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dest)
		}
	}()

	w := zip.NewWriter(f)
	root := filepath.Base(srcDir)

	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(root, rel))

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = name

		switch {
		case info.IsDir():
			header.Name += "/"
			_, err = w.CreateHeader(header)
			return err
		case info.Mode()&os.ModeSymlink != 0:
			// 符号链接以链接目标作为内容保存，与 zip -y 一致
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			fw, err := w.CreateHeader(header)
			if err != nil {
				return err
			}
			_, err = io.WriteString(fw, target)
			return err
		}

		header.Method = zip.Deflate
		fw, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(fw, src)
		return err
	})
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
