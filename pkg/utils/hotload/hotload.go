// Package hotload 监视项目目录的文件变化，防抖后触发钩子，用于 make --watch
package hotload

import (
	"path/filepath"
	"strings"
	"time"

	log2 "github.com/yeisme/appforge/pkg/utils/log"
)

var log log2.Logger

func init() {
	log = log2.GetLogger()
}

// Func 变更防抖后执行的钩子
type Func func()

// Options 监视选项
type Options struct {
	// Dir 监视的根目录，递归包含子目录
	Dir string
	// Debounce 防抖时长，<=0 时为 300ms
	Debounce time.Duration
	// IgnorePatterns filepath.Match 语法，匹配文件名或相对 Dir 的路径
	IgnorePatterns []string
}

func (o Options) debounce() time.Duration {
	if o.Debounce <= 0 {
		return 300 * time.Millisecond
	}
	return o.Debounce
}

// 总是忽略的编辑器与系统临时文件
var commonIgnorePatterns = []string{"~*", "*~", ".DS_Store", "Thumbs.db", "*.swx", "4913"}

// shouldIgnore 判断路径是否被忽略，任一上级目录被忽略时同样忽略
func shouldIgnore(root, path string, patterns []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	all := append(append([]string{}, patterns...), commonIgnorePatterns...)

	for _, pattern := range all {
		pattern = filepath.ToSlash(strings.TrimPrefix(pattern, "./"))
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if strings.HasPrefix(rel, pattern+"/") {
			return true
		}
		for _, part := range strings.Split(rel, "/") {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}
