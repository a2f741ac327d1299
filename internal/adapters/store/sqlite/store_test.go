package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"reflect"
	"testing"

	"osint-aggregator/internal/domain/model"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	if err := NewMigrator(db).Up(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db)
}

func sampleReport(id string) model.Report {
	return model.Report{
		ReportID:    id,
		GeneratedAt: "2026-09-01T10:00:00Z",
		Summary: model.Summary{
			TotalFindings:  3,
			EmailAddresses: 2,
			PhoneNumbers:   1,
		},
		Findings: []model.Finding{
			{Type: "email", Count: 2, Severity: "high"},
			{Type: "phone", Count: 1, Severity: "high"},
		},
		Recommendations: []string{"Consider using email aliases for public registrations"},
		RawData:         json.RawMessage(`{"results":{"emails":[{},{}],"phones":[{}]}}`),
	}
}

func TestStore_SaveAndGetReport(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	want := sampleReport("rpt_roundtrip")

	if err := store.SaveReport(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetReport(context.Background(), "rpt_roundtrip")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("report nil")
	}
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

func TestStore_GetReportMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	got, err := store.GetReport(context.Background(), "rpt_absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestStore_SaveReportCreateOnly(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	rep := sampleReport("rpt_once")

	if err := store.SaveReport(context.Background(), rep); err != nil {
		t.Fatalf("first save: %v", err)
	}
	// 同一 report_id 二次写入必须失败，记录不可变
	if err := store.SaveReport(context.Background(), rep); err == nil {
		t.Fatal("second save succeeded")
	}
}

func TestStore_ListReports(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	for _, id := range []string{"rpt_a", "rpt_b", "rpt_c"} {
		if err := store.SaveReport(context.Background(), sampleReport(id)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	infos, err := store.ListReports(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("infos=%d, want 2", len(infos))
	}
	for _, info := range infos {
		if info.TotalFindings != 3 || info.PayloadSHA256 == "" {
			t.Fatalf("info=%+v", info)
		}
	}

	rest, err := store.ListReports(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("rest=%d, want 1", len(rest))
	}

	// limit<=0 回落默认值而不是报错
	all, err := store.ListReports(context.Background(), 0, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("all=%d err=%v", len(all), err)
	}
}

func TestMigrator_UpIsIdempotent(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	m := NewMigrator(db)
	if err := m.Up(context.Background()); err != nil {
		t.Fatalf("first up: %v", err)
	}

	// 先写一行数据，再次 Up 必须跳过已登记的迁移而不是重放
	store := NewStore(db)
	if err := store.SaveReport(context.Background(), sampleReport("rpt_keep")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.Up(context.Background()); err != nil {
		t.Fatalf("second up: %v", err)
	}

	got, err := store.GetReport(context.Background(), "rpt_keep")
	if err != nil || got == nil {
		t.Fatalf("report lost after re-migrate: %v %v", got, err)
	}

	// 每个迁移文件恰好登记一次
	var n int
	if err := db.QueryRowContext(context.Background(), `
		SELECT COUNT(*) FROM schema_migrations WHERE name = '001_init.sql'
	`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Fatalf("001_init.sql recorded %d times", n)
	}
}

func TestMigrator_SchemaMeta(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	v, err := store.GetSchemaMetaValue(context.Background(), "schema_version")
	if err != nil {
		t.Fatalf("schema_version: %v", err)
	}
	if v != "1" {
		t.Fatalf("schema_version=%q", v)
	}

	name, err := store.GetSchemaMetaValue(context.Background(), "schema_name")
	if err != nil {
		t.Fatalf("schema_name: %v", err)
	}
	if name != "osint_reports" {
		t.Fatalf("schema_name=%q", name)
	}

	missing, err := store.GetSchemaMetaValue(context.Background(), "absent")
	if err != nil || missing != "" {
		t.Fatalf("missing=%q err=%v", missing, err)
	}
}
