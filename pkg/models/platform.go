package models

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// Platform 目标平台标识
type Platform string

const (
	// PlatformDarwin macOS
	PlatformDarwin Platform = "darwin"
	// PlatformLinux Linux
	PlatformLinux Platform = "linux"
	// PlatformWin32 Windows
	PlatformWin32 Platform = "win32"
	// PlatformMAS Mac App Store
	PlatformMAS Platform = "mas"
	// PlatformAll 通配符，只允许出现在配置和请求中，不会出现在 WorkItem 里
	PlatformAll Platform = "all"
)

// Platforms 返回全部可识别的平台（不含通配符），顺序固定
func Platforms() []Platform {
	return []Platform{PlatformDarwin, PlatformMAS, PlatformLinux, PlatformWin32}
}

// Family 内置 maker 的分组目录，mas 与 darwin 共用一组
type Family string

const (
	FamilyGeneric Family = "generic"
	FamilyDarwin  Family = "darwin"
	FamilyLinux   Family = "linux"
	FamilyWin32   Family = "win32"
)

// Family 返回平台对应的 maker 分组
func (p Platform) Family() Family {
	switch p {
	case PlatformDarwin, PlatformMAS:
		return FamilyDarwin
	case PlatformLinux:
		return FamilyLinux
	case PlatformWin32:
		return FamilyWin32
	default:
		return FamilyGeneric
	}
}

func (p Platform) String() string { return string(p) }

// InvalidPlatformError 未识别的平台
type InvalidPlatformError struct {
	Platform string
}

func (e *InvalidPlatformError) Error() string {
	return fmt.Sprintf("invalid platform %q, expected one of: %s, all", e.Platform, joinPlatforms(Platforms()))
}

// ParsePlatform 解析平台字符串，允许 "all"
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p == PlatformAll || slices.Contains(Platforms(), p) {
		return p, nil
	}
	return "", &InvalidPlatformError{Platform: s}
}

// HostPlatform 当前主机平台
func HostPlatform() Platform {
	return platformFromGOOS(runtime.GOOS)
}

func platformFromGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return PlatformWin32
	case "darwin":
		return PlatformDarwin
	default:
		return PlatformLinux
	}
}

func joinPlatforms(ps []Platform) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}

// Arch 目标 CPU 架构
type Arch string

const (
	ArchIA32   Arch = "ia32"
	ArchX64    Arch = "x64"
	ArchARMv7l Arch = "armv7l"
	ArchARM64  Arch = "arm64"
	// ArchAll 通配符，按平台展开
	ArchAll Arch = "all"
)

func (a Arch) String() string { return string(a) }

// archsByPlatform "all" 架构在各平台上的展开结果
var archsByPlatform = map[Platform][]Arch{
	PlatformDarwin: {ArchX64, ArchARM64},
	PlatformMAS:    {ArchX64, ArchARM64},
	PlatformLinux:  {ArchIA32, ArchX64, ArchARMv7l, ArchARM64},
	PlatformWin32:  {ArchIA32, ArchX64, ArchARM64},
}

// HostArch 当前主机架构
func HostArch() Arch {
	return archFromGOARCH(runtime.GOARCH)
}

func archFromGOARCH(goarch string) Arch {
	switch goarch {
	case "386":
		return ArchIA32
	case "arm":
		return ArchARMv7l
	case "arm64":
		return ArchARM64
	default:
		return ArchX64
	}
}

// ParseArch 解析单个架构，允许 "all"
func ParseArch(s string) (Arch, error) {
	a := Arch(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ArchIA32, ArchX64, ArchARMv7l, ArchARM64, ArchAll:
		return a, nil
	}
	return "", fmt.Errorf("invalid arch %q, expected one of: ia32, x64, armv7l, arm64, all", s)
}

// ParseArchList 解析逗号分隔的架构列表，空字符串返回主机架构
func ParseArchList(s string) ([]Arch, error) {
	if strings.TrimSpace(s) == "" {
		return []Arch{HostArch()}, nil
	}
	var archs []Arch
	for part := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		a, err := ParseArch(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(archs, a) {
			archs = append(archs, a)
		}
	}
	if len(archs) == 0 {
		return []Arch{HostArch()}, nil
	}
	return archs, nil
}

// ExpandArchs 将请求的架构列表展开为平台上的具体架构，去重且保序
func ExpandArchs(archs []Arch, platform Platform) []Arch {
	var out []Arch
	for _, a := range archs {
		expanded := []Arch{a}
		if a == ArchAll {
			expanded = archsByPlatform[platform]
		}
		for _, e := range expanded {
			if !slices.Contains(out, e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// Target 一个 (平台, 架构) 组合
type Target struct {
	Platform Platform `json:"platform" yaml:"platform"`
	Arch     Arch     `json:"arch" yaml:"arch"`
}

func (t Target) String() string { return string(t.Platform) + "/" + string(t.Arch) }
