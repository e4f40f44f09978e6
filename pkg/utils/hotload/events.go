package hotload

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchState 事件循环的运行时状态
type watchState struct {
	root     string
	watcher  *fsnotify.Watcher
	patterns []string
	debounce time.Duration

	timer *time.Timer
}

// runEventLoop 处理事件并防抖，钩子在循环内同步执行，不会并发
func runEventLoop(ctx context.Context, s *watchState, hook Func) error {
	for {
		select {
		case <-ctx.Done():
			s.stopTimer()
			return nil
		case event, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if handleEvent(s, event) {
				s.armOrReset()
			}
		case <-s.timerC():
			s.timer = nil
			log.Info().Msg("change detected, re-running")
			hook()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

// handleEvent 返回事件是否代表有意义的变化
func handleEvent(s *watchState, event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if shouldIgnore(s.root, event.Name, s.patterns) {
		return false
	}
	log.Debug().Str("op", event.Op.String()).Str("name", event.Name).Msg("file event")

	// 新建的目录需要加入监视
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if _, err := addTree(s.watcher, s.root, event.Name, s.patterns); err != nil {
				log.Warn().Err(err).Msg("failed to watch new directory")
			}
		}
	}
	return true
}
