// Package project 实现 appforge 的核心流水线：加载项目配置、解析目标、调用打包器、运行 maker 并汇总结果
package project

import (
	log2 "github.com/yeisme/appforge/pkg/utils/log"
)

var log log2.Logger

func init() {
	log = log2.GetLogger()
}
