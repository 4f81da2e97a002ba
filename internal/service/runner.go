package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"research-assist/internal/config"
)

// RunOutcome 单次脚本执行的捕获结果
type RunOutcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CodeRunner 实验服务依赖的执行接口，测试里可替换
type CodeRunner interface {
	Execute(ctx context.Context, code, language string) (*RunOutcome, error)
}

var languageSuffixes = map[string]string{
	"python": ".py",
	"r":      ".R",
	"julia":  ".jl",
}

var defaultInterpreters = map[string]string{
	"python": "python",
	"r":      "Rscript",
	"julia":  "julia",
}

// ScriptRunner 把代码落盘到临时文件，再起子进程解释执行。
// 不做超时、内存和网络隔离，需要的话由调用方在外层包装。
type ScriptRunner struct {
	workDir      string
	interpreters map[string]string
}

func NewScriptRunner(cfg config.RunnerConfig) *ScriptRunner {
	interpreters := make(map[string]string, len(defaultInterpreters))
	for lang, cmd := range defaultInterpreters {
		interpreters[lang] = cmd
	}
	for lang, cmd := range cfg.Interpreters {
		if cmd != "" {
			interpreters[lang] = cmd
		}
	}
	return &ScriptRunner{
		workDir:      cfg.WorkDir,
		interpreters: interpreters,
	}
}

// Execute 执行一段代码并返回退出码和两路输出。
// 除了语言不支持之外不返回错误：无法启动子进程时退出码记为-1，错误文本放进stderr。
func (r *ScriptRunner) Execute(ctx context.Context, code, language string) (*RunOutcome, error) {
	suffix, ok := languageSuffixes[language]
	if !ok {
		return nil, fmt.Errorf("%w: 不支持的语言 %q", ErrValidation, language)
	}
	interpreter := r.interpreters[language]

	// O_EXCL独占创建，并发执行不会复用文件名
	file, err := os.CreateTemp(r.workDir, "experiment_*"+suffix)
	if err != nil {
		return spawnFailure(err), nil
	}
	scriptPath := file.Name()
	defer os.Remove(scriptPath)

	if _, err := file.WriteString(code); err != nil {
		file.Close()
		return spawnFailure(err), nil
	}
	if err := file.Close(); err != nil {
		return spawnFailure(err), nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, interpreter, scriptPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// 解释器不存在等平台层启动失败
			return spawnFailure(runErr), nil
		}
	}

	return &RunOutcome{
		ExitCode: exitCode,
		Stdout:   sanitizeOutput(stdout.Bytes()),
		Stderr:   sanitizeOutput(stderr.Bytes()),
		Duration: duration,
	}, nil
}

func spawnFailure(err error) *RunOutcome {
	return &RunOutcome{
		ExitCode: -1,
		Stdout:   "",
		Stderr:   err.Error(),
	}
}

// 输出按UTF-8解码，非法字节替换而不是报错
func sanitizeOutput(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
