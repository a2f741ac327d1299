package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	sqliteadapter "osint-aggregator/internal/adapters/store/sqlite"
	"osint-aggregator/internal/app"
	"osint-aggregator/internal/platform/id"
	"osint-aggregator/internal/services/report"
	"osint-aggregator/internal/services/webapp"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// CLI 入口。所有子命令错误都统一输出到 stderr 并返回非 0 状态码。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run 是一级命令路由：serve / migrate / report。
func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	switch args[0] {
	case "serve":
		return runServe(ctx, args[1:])
	case "migrate":
		return runMigrate(ctx, args[1:])
	case "report":
		return runReport(ctx, args[1:])
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// runServe 启动 HTTP API 服务。flag 优先于环境变量。
func runServe(ctx context.Context, args []string) error {
	cfg := app.LoadConfig()

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.ListenAddr, "listen address")
	dbPath := fs.String("db", cfg.DBPath, "sqlite database path")
	debug := fs.Bool("debug", cfg.Debug, "debug logging")
	rulePath := fs.String("rules", cfg.PlatformRulePath, "platform rules yaml (empty = embedded default)")
	wifiAuth := fs.Bool("wifi-authorized", cfg.WifiScanAuthorized, "allow wifi scanning (invokes host commands)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.ListenAddr = *addr
	cfg.DBPath = *dbPath
	cfg.Debug = *debug
	cfg.PlatformRulePath = *rulePath
	cfg.WifiScanAuthorized = *wifiAuth

	log := newLogger(cfg.Debug)
	log.WithFields(logrus.Fields{
		"version": app.Version,
		"commit":  app.Commit,
	}).Info("starting")

	return webapp.Run(ctx, cfg, log)
}

// runMigrate 执行 SQLite 迁移，确保数据库结构完整。
func runMigrate(ctx context.Context, args []string) error {
	cfg := app.LoadConfig()

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dbPath := fs.String("db", cfg.DBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}

	m := sqliteadapter.NewMigrator(db)
	if err := m.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	store := sqliteadapter.NewStore(db)
	version, err := store.GetSchemaMetaValue(ctx, "schema_version")
	if err != nil {
		return err
	}
	fmt.Printf("migrated: %s (schema_version=%s)\n", *dbPath, version)
	return nil
}

// runReport 离线生成报告：读取结果包 JSON 文件，派生报告并输出到 stdout；
// 带 -save 时同时登记到 SQLite 报告库。
func runReport(ctx context.Context, args []string) error {
	cfg := app.LoadConfig()

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	in := fs.String("in", "", "results bundle json file (required)")
	dbPath := fs.String("db", cfg.DBPath, "sqlite database path")
	save := fs.Bool("save", false, "persist report to the database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("report: -in is required")
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	if !json.Valid(raw) {
		return fmt.Errorf("bundle is not valid json: %s", *in)
	}

	rep := report.Generate(raw, id.New("rpt"))

	if *save {
		if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
			return fmt.Errorf("create db directory: %w", err)
		}
		db, err := sql.Open("sqlite", *dbPath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer db.Close()
		if err := sqliteadapter.NewMigrator(db).Up(ctx); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		if err := sqliteadapter.NewStore(db).SaveReport(ctx, rep); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func printUsage() {
	fmt.Println(`osint-cli - personal exposure aggregation service

usage:
  osint-cli serve   [-addr :5000] [-db data/osint.db] [-debug] [-rules file.yaml] [-wifi-authorized]
  osint-cli migrate [-db data/osint.db]
  osint-cli report  -in bundle.json [-save] [-db data/osint.db]`)
}
