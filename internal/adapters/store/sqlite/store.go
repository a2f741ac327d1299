package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"osint-aggregator/internal/domain/model"
	"osint-aggregator/internal/platform/hash"
)

// Store 封装与 SQLite 的读写逻辑。
//
// 报告写入是 create-only：同一 report_id 不允许二次写入，
// 记录创建后不可变，读路径无需任何锁。
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveReport 持久化一份新生成的报告。
// 载荷整体序列化入库，同时记录 sha256 便于完整性校验。
func (s *Store) SaveReport(ctx context.Context, r model.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", r.ReportID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports(report_id, generated_at, total_findings, payload_json, payload_sha256, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, r.ReportID, r.GeneratedAt, r.Summary.TotalFindings, string(payload), hash.Bytes(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert report %s: %w", r.ReportID, err)
	}
	return nil
}

// GetReport 按 id 读取报告；不存在时返回 (nil, nil)。
func (s *Store) GetReport(ctx context.Context, reportID string) (*model.Report, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload_json
		FROM reports
		WHERE report_id = ?
		LIMIT 1
	`, reportID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query report %s: %w", reportID, err)
	}

	var r model.Report
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", reportID, err)
	}
	return &r, nil
}

// ListReports 返回报告索引（不含载荷），按创建时间倒序。
func (s *Store) ListReports(ctx context.Context, limit, offset int) ([]model.ReportInfo, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT report_id, generated_at, total_findings, payload_sha256, created_at
		FROM reports
		ORDER BY created_at DESC, report_id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := []model.ReportInfo{}
	for rows.Next() {
		var info model.ReportInfo
		if err := rows.Scan(&info.ReportID, &info.GeneratedAt, &info.TotalFindings, &info.PayloadSHA256, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// GetSchemaMetaValue 查询 schema_meta 表指定 key 的 value。
func (s *Store) GetSchemaMetaValue(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM schema_meta
		WHERE key = ?
		LIMIT 1
	`, key).Scan(&v)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("query schema_meta %s: %w", key, err)
	}
	return v, nil
}
