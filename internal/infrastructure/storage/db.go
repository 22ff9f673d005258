package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/takizuka/todo-backend/internal/infrastructure/config"
	_ "modernc.org/sqlite"
)

// MemoryDSN 内存数据库
const MemoryDSN = ":memory:"

// OpenDB 打开数据库连接
func OpenDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		dir, err := config.EnsureDataDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dir, config.DefaultDBFileName)
	}

	dsn := dbPath
	if dbPath != MemoryDSN {
		// 确保目录存在
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = fileDSN(dbPath)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 内存库每个连接是独立的数据库，只能使用单连接
	if dbPath == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// fileDSN 为文件数据库附加连接参数：WAL 模式，写锁等待 5 秒
func fileDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// InitSchema 初始化表结构
func InitSchema(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS todo (
		todo_id INTEGER PRIMARY KEY AUTOINCREMENT,
		todo_title TEXT NOT NULL,
		finished INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create todo table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_todo_finished ON todo(finished);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create todo indexes: %w", err)
	}

	return nil
}

// ProvideDB 打开数据库并初始化表结构（Wire provider）
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, func(), error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}
