package hotload

import "time"

// armOrReset 启动或重置防抖定时器
func (s *watchState) armOrReset() {
	if s.timer == nil {
		s.timer = time.NewTimer(s.debounce)
		return
	}
	s.timer.Reset(s.debounce)
}

// timerC 未启动定时器时返回 nil，select 中永远不会就绪
func (s *watchState) timerC() <-chan time.Time {
	if s.timer == nil {
		return nil
	}
	return s.timer.C
}

func (s *watchState) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
