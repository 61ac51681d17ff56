package research

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rodytech/leadgen-demo-data/internal/logger"
)

// ScriptSource 以子进程方式调用调研脚本，并读取其写入的输出文件
type ScriptSource struct {
	Interpreter string
	Script      string
	WorkDir     string
	OutputDir   string
	// Timeout 为 0 时不限制执行时间
	Timeout time.Duration
}

func (s *ScriptSource) Name() string { return "script" }

// Fetch 执行调研脚本；任何失败都转换为 ExternalUnavailable
func (s *ScriptSource) Fetch(ctx context.Context, topic string, count int) Result {
	// 脚本路径相对当前目录解析，子进程在 WorkDir 中运行
	script, err := filepath.Abs(s.Script)
	if err != nil {
		return Unavailable(fmt.Sprintf("research script path invalid: %v", err))
	}
	if _, err := os.Stat(script); err != nil {
		logger.Warnf("[Research] 调研脚本不存在，%s 使用样例数据", topic)
		return Unavailable("research script not found")
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.Interpreter, script,
		"--industry", topic,
		"--count", strconv.Itoa(count),
		"--sample",
	)
	cmd.Dir = s.WorkDir
	// 超时杀掉进程后不再等待孙进程持有的输出管道
	cmd.WaitDelay = time.Second

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Warnf("[Research] %s 调研超时 (%v)，使用样例数据", topic, s.Timeout)
			return Unavailable(fmt.Sprintf("research timed out after %v", s.Timeout))
		}
		logger.Warnf("[Research] %s 调研失败，使用样例数据: %v", topic, err)
		return Unavailable(fmt.Sprintf("research failed: %v", err))
	}

	if errOutput := stderr.String(); strings.Contains(errOutput, "Error") {
		logger.Warnf("[Research] %s 调研警告: %s", topic, strings.TrimSpace(errOutput))
	}

	records, path, err := LoadLatestArtifact(filepath.Join(s.OutputDir, topic))
	if err != nil {
		logger.Warnf("[Research] 无法读取 %s 的调研输出 %s，使用样例数据: %v", topic, path, err)
		return Unavailable(fmt.Sprintf("research output unusable: %v", err))
	}

	logger.Infof("[Research] 从 %s 读取 %d 条潜在客户", filepath.Base(path), len(records))
	return Success(records)
}
