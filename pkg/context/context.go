// Package context 保存一次命令执行期间共享的配置与日志记录器
package context

import (
	"context"

	"github.com/spf13/viper"
	"github.com/yeisme/appforge/pkg/configs"
	log2 "github.com/yeisme/appforge/pkg/utils/log"
)

// GlobalFlags 根命令的全局标志
type GlobalFlags struct {
	ConfigPath    string
	Debug         bool
	Verbose       bool
	Quiet         bool
	CPUProfile    string
	Trace         string
	VersionEnable bool
}

// AppContext 命令执行上下文
type AppContext struct {
	context.Context
	Config *configs.Config // 应用配置
	Viper  *viper.Viper    // 加载配置所用的 viper 实例
	Logger log2.Logger     // 日志记录器
}

// InitAppContext 加载配置并初始化日志，命令行标志覆盖配置文件
func InitAppContext(ctx context.Context, flags GlobalFlags) (*AppContext, error) {
	config, err := configs.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if flags.Debug {
		config.App.Debug = true
	}
	if flags.Verbose {
		config.App.Verbose = true
	}
	if flags.Quiet {
		config.App.Quiet = true
	}

	logger := log2.InitLogger(ctx, &config.Log, &config.App)

	return &AppContext{
		Context: ctx,
		Config:  config,
		Viper:   viper.GetViper(),
		Logger:  logger,
	}, nil
}
