package maker

import (
	"fmt"
	"strings"
)

// MakerNotFoundError 无法把 maker 标识解析为可加载的 maker
type MakerNotFoundError struct {
	Spec       string
	Reason     string
	Suggestion string
}

func (e *MakerNotFoundError) Error() string {
	msg := fmt.Sprintf("could not find maker %q", e.Spec)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// IncompatibleMakerError maker 声明的 API 版本与宿主不兼容
type IncompatibleMakerError struct {
	Maker      string
	APIVersion string
}

func (e *IncompatibleMakerError) Error() string {
	return fmt.Sprintf("maker %q (api %q) is incompatible with this version of appforge (api %s)",
		e.Maker, e.APIVersion, HostAPIVersion)
}

// MakerIncompatibleError maker 缺少必需的能力
type MakerIncompatibleError struct {
	Maker   string
	Missing []Capability
}

func (e *MakerIncompatibleError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		missing[i] = string(c)
	}
	return fmt.Sprintf("maker %q is incompatible with this version of appforge: missing capabilities [%s]",
		e.Maker, strings.Join(missing, ", "))
}

// MakerUnsupportedError maker 声明自己无法在当前主机上运行
type MakerUnsupportedError struct {
	Maker    string
	Platform string
}

func (e *MakerUnsupportedError) Error() string {
	return fmt.Sprintf("cannot make for %s with maker %q, the maker declared that it cannot run on this platform",
		e.Platform, e.Maker)
}
