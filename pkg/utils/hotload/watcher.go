package hotload

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch 阻塞监视 opts.Dir，直到 ctx 取消
func Watch(ctx context.Context, opts Options, hook Func) error {
	root, err := filepath.Abs(opts.Dir)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建 watcher 失败: %w", err)
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("关闭 watcher 失败")
		}
	}()

	n, err := addTree(watcher, root, root, opts.IgnorePatterns)
	if err != nil {
		return err
	}
	log.Info().Str("dir", root).Int("dirs", n).Dur("debounce", opts.debounce()).Msg("watching for changes, press Ctrl+C to exit")

	return runEventLoop(ctx, &watchState{
		root:     root,
		watcher:  watcher,
		patterns: opts.IgnorePatterns,
		debounce: opts.debounce(),
	}, hook)
}

// addTree 递归添加目录，跳过被忽略的目录
func addTree(watcher *fsnotify.Watcher, root, dir string, patterns []string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if shouldIgnore(root, path, patterns) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("将目录 '%s' 添加到 watcher 失败: %w", path, err)
		}
		count++
		return nil
	})
	return count, err
}
