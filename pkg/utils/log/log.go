// Package log 提供全局日志记录器的初始化和获取功能
// 使用 zerolog 作为日志库，支持控制台、文件、两者三种输出模式，文件模式下由 lumberjack 负责轮转
package log

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yeisme/appforge/pkg/configs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 全局日志记录器类型
type Logger = *zerolog.Logger

// globalLogger 在 InitLogger 中初始化，GetLogger 懒加载
var (
	globalLogger Logger
	mu           sync.Mutex
)

// InitLogger 初始化日志记录器
// 优先级：quiet > debug > verbose > config.Level
func InitLogger(ctx context.Context, config *configs.LogConfig, appConfig *configs.AppConfig) Logger {
	mu.Lock()
	defer mu.Unlock()

	if appConfig.Quiet {
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
		return setGlobal(zerolog.New(io.Discard))
	}

	switch {
	case appConfig.Debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case appConfig.Verbose:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(parseLogLevel(config.Level))
	}

	var writers []io.Writer
	switch strings.ToLower(config.Mode) {
	case "file":
		writers = append(writers, createFileWriter(config))
	case "both":
		writers = append(writers, createConsoleWriter(config), createFileWriter(config))
	default:
		writers = append(writers, createConsoleWriter(config))
	}

	output := writers[0]
	if len(writers) > 1 {
		output = zerolog.MultiLevelWriter(writers...)
	}

	lc := zerolog.New(output).With().Timestamp()
	if appConfig.Debug {
		lc = lc.Caller()
	}
	if appConfig.Debug || appConfig.Verbose {
		lc = lc.Str("app", appConfig.Name).Ctx(ctx)
	}
	return setGlobal(lc.Logger())
}

// setGlobal 原地更新全局记录器，包级别持有的指针随之生效
func setGlobal(logger zerolog.Logger) Logger {
	if globalLogger == nil {
		globalLogger = &logger
	} else {
		*globalLogger = logger
	}
	log.Logger = logger
	return globalLogger
}

// createConsoleWriter 控制台输出写到 stderr，stdout 留给命令结果
func createConsoleWriter(config *configs.LogConfig) io.Writer {
	if config.JSON {
		return os.Stderr
	}
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    config.NoColor || noColorEnv,
	}
}

// createFileWriter 创建带轮转的文件写入器，目录创建失败时退回 stderr
func createFileWriter(config *configs.LogConfig) io.Writer {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,    // megabytes
		MaxBackups: config.MaxBackups, // 保留备份数量
		MaxAge:     config.MaxAge,     // days
		Compress:   true,
	}
}

// GetLogger 获取全局日志记录器
func GetLogger() Logger {
	mu.Lock()
	l := globalLogger
	mu.Unlock()
	if l == nil {
		config := configs.GetConfig()
		return InitLogger(context.Background(), &config.Log, &config.App)
	}
	return l
}

// parseLogLevel 解析日志级别，无法识别时为 info
func parseLogLevel(level string) zerolog.Level {
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && l != zerolog.NoLevel {
		return l
	}
	if strings.EqualFold(level, "warning") {
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

// Component 返回带 component 字段的子记录器
func Component(name string) Logger {
	l := GetLogger().With().Str("component", name).Logger()
	return &l
}

// WithFields 带字段的日志记录
func WithFields(fields map[string]any) Logger {
	l := GetLogger().With().Fields(fields).Logger()
	return &l
}

// LineWriter 将写入的内容按行转成日志事件，用于转发子进程输出
type LineWriter struct {
	logger Logger
	level  zerolog.Level
	prefix string
	buf    bytes.Buffer
	mu     sync.Mutex
}

// NewLineWriter 创建按行写日志的 io.Writer
func NewLineWriter(logger Logger, level zerolog.Level, prefix string) *LineWriter {
	return &LineWriter{logger: logger, level: level, prefix: prefix}
}

// Write 实现 io.Writer
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// 不完整的行放回缓冲区
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush 输出缓冲区中剩余的不完整行
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	sc := bufio.NewScanner(&w.buf)
	for sc.Scan() {
		w.emit(sc.Text())
	}
	w.buf.Reset()
}

func (w *LineWriter) emit(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	w.logger.WithLevel(w.level).Str("from", w.prefix).Msg(line)
}

// Trace 创建一个 Trace 级别的日志事件
func Trace() *zerolog.Event { return GetLogger().Trace() }

// Debug 创建一个 Debug 级别的日志事件
func Debug() *zerolog.Event { return GetLogger().Debug() }

// Info 创建一个 Info 级别的日志事件
func Info() *zerolog.Event { return GetLogger().Info() }

// Warn 创建一个 Warn 级别的日志事件
func Warn() *zerolog.Event { return GetLogger().Warn() }

// Error 创建一个 Error 级别的日志事件
func Error() *zerolog.Event { return GetLogger().Error() }
