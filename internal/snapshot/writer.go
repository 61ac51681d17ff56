package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rodytech/leadgen-demo-data/internal/logger"
	"github.com/rodytech/leadgen-demo-data/internal/model"
)

// ErrInvalidTopic 行业 key 不能作为文件名
var ErrInvalidTopic = errors.New("invalid topic key")

const (
	latestSuffix = "-today.json"
	dateLayout   = "2006-01-02"
)

// LatestName 返回行业快照的固定文件名
func LatestName(topic string) string {
	return topic + latestSuffix
}

// ArchiveName 返回带日期的快照副本文件名
func ArchiveName(topic string, day time.Time) string {
	return fmt.Sprintf("%s-%s.json", topic, day.Format(dateLayout))
}

type Writer struct {
	dir      string
	timezone string
	location *time.Location
	archive  bool
	validate *validator.Validate
	now      func() time.Time
}

func NewWriter(dir, timezone string, location *time.Location, archive bool) *Writer {
	return &Writer{
		dir:      dir,
		timezone: timezone,
		location: location,
		archive:  archive,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Write 附加元数据后写入 {topic}-today.json，返回文件路径
func (w *Writer) Write(snapshot *model.TopicSnapshot) (string, error) {
	if err := checkTopic(snapshot.Topic); err != nil {
		return "", err
	}

	now := w.now()
	snapshot.Stamp(now, w.timezone)
	if err := w.validate.Struct(snapshot); err != nil {
		return "", fmt.Errorf("snapshot validation failed: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.dir, LatestName(snapshot.Topic))
	if err := writeFile(path, data); err != nil {
		return "", err
	}

	if w.archive {
		archivePath := filepath.Join(w.dir, ArchiveName(snapshot.Topic, now.In(w.location)))
		if err := writeFile(archivePath, data); err != nil {
			return "", err
		}
	}

	logger.Infof("[Snapshot] 已保存 %s (%d 个潜在客户, %d 个联系人)",
		filepath.Base(path), len(snapshot.Prospects), len(snapshot.Contacts))
	return path, nil
}

// writeFile 先写临时文件再重命名，避免页面读到半个文件
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

func checkTopic(topic string) error {
	if topic == "" || topic == "." || topic == ".." || strings.ContainsAny(topic, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	return nil
}
