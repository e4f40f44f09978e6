// Package executor 提供了一个用于执行外部命令的工具，支持捕获输出、错误处理和流式输出等功能
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
)

// ExecError 是一个结构化的命令执行错误，包含了丰富的上下文信息
type ExecError struct {
	Cmd    string   // 执行的命令
	Args   []string // 命令参数
	Stderr string   // 标准错误输出
	Err    error    // 底层错误 (通常是 *exec.ExitError)
}

// Error 实现了 error 接口
func (e *ExecError) Error() string {
	code := "unknown"
	if c := e.ExitCode(); c >= 0 {
		code = fmt.Sprintf("%d", c)
	}
	head := fmt.Sprintf("command execution failed: %s %s, exit-code: %s, err: %v",
		e.Cmd, strings.Join(e.Args, " "), code, e.Err)

	stderr := e.CleanStderr()
	if stderr == "" {
		return head
	}
	// 按行缩进 stderr
	lines := strings.Split(stderr, "\n")
	for i, l := range lines {
		lines[i] = "\t" + l
	}
	return head + "\nstderr:\n" + strings.Join(lines, "\n")
}

// Unwrap 允许使用 errors.Is 和 errors.As 来检查底层错误
func (e *ExecError) Unwrap() error {
	return e.Err
}

// ansiRegexp 匹配 ANSI 颜色/格式化控制序列
var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// CleanStderr 返回去除 ANSI 控制码并修整空白的 stderr 文本
func (e *ExecError) CleanStderr() string {
	return strings.TrimSpace(ansiRegexp.ReplaceAllString(e.Stderr, ""))
}

// ExitCode 返回底层进程的退出码，不可用时返回 -1
func (e *ExecError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Executor 命令执行器的构建器，链式配置后通过 Run、Output 等方法执行
// 一个 Executor 实例只应执行一次
type Executor struct {
	cmd *exec.Cmd
}

// NewExecutor 创建一个新的命令执行器
func NewExecutor(name string, args ...string) *Executor {
	return &Executor{cmd: exec.Command(name, args...)}
}

// NewExecutorContext 创建一个受 ctx 控制的命令执行器，ctx 取消时进程被终止
func NewExecutorContext(ctx context.Context, name string, args ...string) *Executor {
	return &Executor{cmd: exec.CommandContext(ctx, name, args...)}
}

// WithDir 设置命令执行的工作目录
func (e *Executor) WithDir(dir string) *Executor {
	e.cmd.Dir = dir
	return e
}

// WithStdin 设置命令的标准输入
func (e *Executor) WithStdin(r io.Reader) *Executor {
	e.cmd.Stdin = r
	return e
}

// WithEnv 在当前进程环境变量之上附加环境变量
func (e *Executor) WithEnv(envs ...string) *Executor {
	if len(envs) == 0 {
		return e
	}
	e.cmd.Env = append(e.cmd.Environ(), envs...)
	return e
}

// String 返回可读的命令行
func (e *Executor) String() string {
	return strings.Join(e.cmd.Args, " ")
}

func (e *Executor) wrap(err error, stderr string) error {
	return &ExecError{
		Cmd:    e.cmd.Path,
		Args:   e.cmd.Args[1:],
		Stderr: stderr,
		Err:    err,
	}
}

// Run 执行命令，并分别返回标准输出和标准错误
// 即使命令执行失败，stdout 和 stderr 也会返回捕获到的内容
func (e *Executor) Run() (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	e.cmd.Stdout = &outBuf
	e.cmd.Stderr = &errBuf

	if runErr := e.cmd.Run(); runErr != nil {
		err = e.wrap(runErr, errBuf.String())
	}
	return outBuf.String(), errBuf.String(), err
}

// Output 执行命令并返回其标准输出，错误中包含标准错误内容
func (e *Executor) Output() (string, error) {
	stdout, _, err := e.Run()
	return stdout, err
}

// CombinedOutput 执行命令并返回其合并的标准输出和标准错误
func (e *Executor) CombinedOutput() (string, error) {
	output, err := e.cmd.CombinedOutput()
	if err != nil {
		return string(output), e.wrap(err, string(output))
	}
	return string(output), nil
}

// RunStreaming 执行命令并将标准输出/错误流式写入提供的 io.Writer
// stderr 同时被缓存，出错时放入 ExecError.Stderr
func (e *Executor) RunStreaming(stdout, stderr io.Writer) error {
	var errBuf bytes.Buffer
	if stdout != nil {
		e.cmd.Stdout = stdout
	}
	if stderr != nil {
		e.cmd.Stderr = io.MultiWriter(stderr, &errBuf)
	} else {
		e.cmd.Stderr = &errBuf
	}

	if err := e.cmd.Run(); err != nil {
		return e.wrap(err, errBuf.String())
	}
	return nil
}
