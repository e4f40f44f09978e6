package project

import (
	"fmt"

	"github.com/yeisme/appforge/pkg/models"
)

// ConfigValidationError 打包选项组合不被支持，在调用外部打包器之前抛出
type ConfigValidationError struct {
	Field  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return e.Reason
}

// PackagingError 外部打包步骤失败或找不到已打包的应用
type PackagingError struct {
	Target models.Target
	Msg    string
	Err    error
}

func (e *PackagingError) Error() string {
	msg := fmt.Sprintf("packaging %s failed", e.Target)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PackagingError) Unwrap() error { return e.Err }

// MakerRunError maker 执行失败，附带目标信息，原始错误消息保持不变
type MakerRunError struct {
	Maker    string
	Platform models.Platform
	Arch     models.Arch
	Err      error
}

func (e *MakerRunError) Error() string {
	return fmt.Sprintf("maker %s failed for %s/%s: %v", e.Maker, e.Platform, e.Arch, e.Err)
}

func (e *MakerRunError) Unwrap() error { return e.Err }

// PublishError publisher 上传失败
type PublishError struct {
	Publisher string
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publisher %s failed: %v", e.Publisher, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
