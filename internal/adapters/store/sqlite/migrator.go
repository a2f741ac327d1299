package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"sort"

	"osint-aggregator/internal/platform/hash"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator 负责执行内嵌 SQL 迁移脚本。
//
// 每个脚本执行后连同内容 sha256 登记到 schema_migrations，
// 重复 Up 跳过已登记的文件；已登记文件内容变化视为错误
// （已应用的迁移不允许事后改写，只能追加新文件）。
type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Up 按文件名字典序（001_xxx.sql -> 002_xxx.sql）执行未应用的迁移。
func (m *Migrator) Up(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
		    name       TEXT PRIMARY KEY,
		    sha256     TEXT    NOT NULL,
		    applied_at INTEGER NOT NULL DEFAULT (unixepoch())
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := migrationFS.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if err := m.apply(ctx, entry.Name(), raw); err != nil {
			return err
		}
	}

	return nil
}

func (m *Migrator) apply(ctx context.Context, name string, raw []byte) error {
	sum := hash.Bytes(raw)

	var applied string
	err := m.db.QueryRowContext(ctx, `
		SELECT sha256 FROM schema_migrations WHERE name = ? LIMIT 1
	`, name).Scan(&applied)
	switch {
	case err == nil:
		if applied != sum {
			return fmt.Errorf("migration %s changed after being applied (recorded %s, embedded %s)", name, applied, sum)
		}
		return nil
	case err != sql.ErrNoRows:
		return fmt.Errorf("check migration %s: %w", name, err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(raw)); err != nil {
		return fmt.Errorf("exec migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schema_migrations(name, sha256) VALUES(?, ?)
	`, name, sum); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	return tx.Commit()
}
