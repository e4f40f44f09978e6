// Package version 提供 appforge 的构建信息
//
// 发布构建通过 -ldflags "-X" 注入各变量；未注入时从 debug.ReadBuildInfo 中的 vcs 信息补全
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

var (
	// Version is the current version of the application
	Version = "dev"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
	// BuildDate is when the binary was built
	BuildDate = "unknown"
	// GoVersion is the Go version used to build the binary
	GoVersion = runtime.Version()
	// Platform is the target platform
	Platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	// Modified indicates if the source tree was modified (string: "true" or "false")
	Modified = "false"
	// ModSum is the module checksum
	ModSum = "unknown"
)

// Info contains version information
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Modified  string `json:"modified"`
	ModSum    string `json:"mod_sum"`
}

var fillOnce sync.Once

// fillFromBuildInfo 只补全仍为默认值的字段
func fillFromBuildInfo(bi *debug.BuildInfo) {
	if bi == nil {
		return
	}
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	if ModSum == "unknown" && bi.Main.Sum != "" {
		ModSum = bi.Main.Sum
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if GitCommit == "unknown" {
				GitCommit = s.Value
			}
		case "vcs.time":
			if BuildDate == "unknown" {
				BuildDate = s.Value
			}
		case "vcs.modified":
			if s.Value == "true" {
				Modified = "true"
			}
		}
	}
}

// GetVersion returns the version information
func GetVersion() Info {
	fillOnce.Do(func() {
		bi, _ := debug.ReadBuildInfo()
		fillFromBuildInfo(bi)
	})
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  Platform,
		Modified:  Modified,
		ModSum:    ModSum,
	}
}

// GetVersionString returns a formatted version string similar to golangci-lint
func GetVersionString() string {
	info := GetVersion()
	return fmt.Sprintf("appforge has version %s built with %s from %s (%s, modified: %s, mod sum: %q) on %s",
		info.Version,
		info.GoVersion,
		info.GitCommit,
		info.Platform,
		info.Modified,
		info.ModSum,
		info.BuildDate,
	)
}

// GetShortVersionString returns a short version string similar to gh
func GetShortVersionString() string {
	info := GetVersion()

	dateStr := info.BuildDate
	if t, err := time.Parse(time.RFC3339, info.BuildDate); err == nil {
		dateStr = t.Format("2006-01-02")
	}
	return fmt.Sprintf("appforge version %s (%s)\nhttps://github.com/yeisme/appforge/releases/tag/v%s",
		info.Version, dateStr, trimV(info.Version))
}

func trimV(v string) string {
	if len(v) > 1 && v[0] == 'v' {
		return v[1:]
	}
	return v
}
