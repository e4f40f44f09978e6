// Package publish 将 make 产物上传到发布目标
package publish

import (
	"context"
	"path"
	"strings"

	"github.com/yeisme/appforge/pkg/models"
	log2 "github.com/yeisme/appforge/pkg/utils/log"
)

var log log2.Logger

func init() {
	log = log2.GetLogger()
}

// Request 一次发布的输入
type Request struct {
	AppName string
	Version string
	Results []models.MakerResult
}

// Publisher 发布目标
type Publisher interface {
	Name() string
	Publish(ctx context.Context, req Request) error
}

// ExpandPrefix 展开前缀模板中的 {{name}} 与 {{version}}
func ExpandPrefix(tmpl, name, version string) string {
	r := strings.NewReplacer("{{name}}", name, "{{version}}", version)
	return strings.Trim(r.Replace(tmpl), "/")
}

// ObjectKey 产物在对象存储中的键：<prefix>/<platform>/<arch>/<file>
func ObjectKey(prefix string, platform models.Platform, arch models.Arch, file string) string {
	return path.Join(prefix, string(platform), string(arch), path.Base(strings.ReplaceAll(file, `\`, "/")))
}
