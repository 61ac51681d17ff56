package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rodytech/leadgen-demo-data/internal/logger"
)

// snapshotPattern 匹配 {topic}-today.json 和 {topic}-YYYY-MM-DD.json
var snapshotPattern = regexp.MustCompile(`^.+-(today|\d{4}-\d{2}-\d{2})\.json$`)

// IsSnapshotFile 判断文件名是否为快照
func IsSnapshotFile(name string) bool {
	return snapshotPattern.MatchString(name)
}

type Sweeper struct {
	dir           string
	retentionDays int
	now           func() time.Time
}

func NewSweeper(dir string, retentionDays int) *Sweeper {
	return &Sweeper{dir: dir, retentionDays: retentionDays, now: time.Now}
}

// Sweep 删除修改时间超过保留天数的快照，单个文件删除失败只记录日志。
// 恰好等于保留天数的文件会被保留。
func (s *Sweeper) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read data dir: %w", err)
	}

	now := s.now()
	retention := time.Duration(s.retentionDays) * 24 * time.Hour
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsSnapshotFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warnf("[Snapshot] 读取 %s 信息失败: %v", entry.Name(), err)
			continue
		}

		if now.Sub(info.ModTime()) <= retention {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			logger.Warnf("[Snapshot] 删除过期快照 %s 失败: %v", entry.Name(), err)
			continue
		}
		deleted++
		logger.Infof("[Snapshot] 已删除过期快照: %s", entry.Name())
	}
	return deleted, nil
}
