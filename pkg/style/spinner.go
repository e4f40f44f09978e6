package style

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner 长时间任务期间的终端旋转指示器
type Spinner struct {
	out      io.Writer
	msg      string
	stopCh   chan struct{}
	doneCh   chan struct{}
	interval time.Duration
	once     sync.Once
	ok       bool
}

// NewSpinner 创建 Spinner，out 一般为 stderr，避免污染命令输出
func NewSpinner(out io.Writer, msg string) *Spinner {
	return &Spinner{
		out:      out,
		msg:      msg,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		interval: 120 * time.Millisecond,
	}
}

// Start 启动 spinner，直到 Stop 被调用
// out 不是终端时不输出动画帧，只在结束时输出一行结果
func (s *Spinner) Start() {
	if !isTerminal(s.out) {
		go func() {
			defer close(s.doneCh)
			<-s.stopCh
			_, _ = fmt.Fprintf(s.out, "%s %s\n", s.msg, s.mark())
		}()
		return
	}
	go func() {
		defer close(s.doneCh)
		frames := []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for i := 0; ; i = (i + 1) % len(frames) {
			_, _ = fmt.Fprintf(s.out, "\r%s %c", s.msg, frames[i])
			select {
			case <-s.stopCh:
				_, _ = fmt.Fprintf(s.out, "\r%s %s\n", s.msg, s.mark())
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop 停止 spinner，ok 决定结束标记，可重复调用
func (s *Spinner) Stop(ok bool) {
	s.once.Do(func() {
		s.ok = ok
		close(s.stopCh)
		<-s.doneCh
	})
}

func (s *Spinner) mark() string {
	if s.ok {
		return "✔"
	}
	return "✘"
}
