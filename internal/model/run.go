package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// RunStatus 每日运行状态
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// runDateLayout 运行日期（按生成时区计算的自然日）
const runDateLayout = "2006-01-02"

// ErrRunNotFound 指定日期没有运行记录
var ErrRunNotFound = errors.New("run not found")

const runSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	run_date      TEXT NOT NULL UNIQUE,
	status        TEXT NOT NULL DEFAULT 'in_progress',
	error_message TEXT NOT NULL DEFAULT '',
	create_time   DATETIME NOT NULL,
	update_time   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_status ON runs(status);`

// Run 调度器的每日运行记录
type Run struct {
	ID           string
	RunDate      string
	Status       RunStatus
	ErrorMessage string
	CreateTime   time.Time
	UpdateTime   time.Time
}

type RunModel struct {
	db *sql.DB
}

// OpenRunModel 打开 sqlite 运行记录库并创建表
func OpenRunModel(path string) (*RunModel, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("创建运行记录目录失败: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=rwc&_journal_mode=WAL", path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(runSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("创建运行记录表失败: %w", err)
	}
	return &RunModel{db: db}, nil
}

// Close 关闭数据库
func (m *RunModel) Close() error {
	return m.db.Close()
}

// Create 创建运行记录
func (m *RunModel) Create(ctx context.Context, runDate time.Time, status RunStatus) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		ID:         uuid.NewString(),
		RunDate:    runDate.Format(runDateLayout),
		Status:     status,
		CreateTime: now,
		UpdateTime: now,
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO runs (id, run_date, status, error_message, create_time, update_time) VALUES (?, ?, ?, '', ?, ?)`,
		run.ID, run.RunDate, string(run.Status), run.CreateTime, run.UpdateTime,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetByDate 查询指定日期的运行记录
func (m *RunModel) GetByDate(ctx context.Context, runDate time.Time) (*Run, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT id, run_date, status, error_message, create_time, update_time FROM runs WHERE run_date = ?`,
		runDate.Format(runDateLayout),
	)

	var run Run
	var status string
	err := row.Scan(&run.ID, &run.RunDate, &status, &run.ErrorMessage, &run.CreateTime, &run.UpdateTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	return &run, nil
}

// GetOrCreate 获取或创建指定日期的运行记录
func (m *RunModel) GetOrCreate(ctx context.Context, runDate time.Time, status RunStatus) (*Run, error) {
	existing, err := m.GetByDate(ctx, runDate)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrRunNotFound) {
		return nil, err
	}
	return m.Create(ctx, runDate, status)
}

// MarkCompleted 标记运行完成
func (m *RunModel) MarkCompleted(ctx context.Context, id string) error {
	return m.setStatus(ctx, id, RunStatusCompleted, "")
}

// MarkFailed 标记运行失败
func (m *RunModel) MarkFailed(ctx context.Context, id string, errorMsg string) error {
	return m.setStatus(ctx, id, RunStatusFailed, errorMsg)
}

func (m *RunModel) setStatus(ctx context.Context, id string, status RunStatus, errorMsg string) error {
	res, err := m.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error_message = ?, update_time = ? WHERE id = ?`,
		string(status), errorMsg, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound
	}
	return nil
}
