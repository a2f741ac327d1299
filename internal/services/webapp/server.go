package webapp

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"osint-aggregator/internal/adapters/platformrules"
	"osint-aggregator/internal/adapters/providers"
	sqliteadapter "osint-aggregator/internal/adapters/store/sqlite"
	"osint-aggregator/internal/app"
	"osint-aggregator/internal/services/aggregate"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Server 是聚合查询 API 的运行时对象。
// 所有依赖在启动时显式构建并注入，没有包级单例。
type Server struct {
	cfg   app.Config
	store *sqliteadapter.Store
	agg   *aggregate.Service
	log   *logrus.Logger
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/search/name", s.handleSearchName)
	mux.HandleFunc("/api/search/image", s.handleSearchImage)
	mux.HandleFunc("/api/search/phone/", s.handleSearchPhone)
	mux.HandleFunc("/api/search/email/", s.handleSearchEmail)
	mux.HandleFunc("/api/search/wifi", s.handleSearchWifi)
	mux.HandleFunc("/api/report/generate", s.handleReportGenerate)
	mux.HandleFunc("/api/reports", s.handleReportIndex)
	mux.HandleFunc("/api/report/", s.handleReportRoutes)

	// 未匹配路由统一返回 JSON 404，保持错误信封一致
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Errorf("endpoint not found"))
	})
}

// Run 启动 HTTP 服务：
// - 打开/迁移 SQLite 报告库
// - 加载社交平台目录并构建全部适配器
// - 注册路由并托管到 ctx 的生命周期
func Run(ctx context.Context, cfg app.Config, log *logrus.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}

	migrator := sqliteadapter.NewMigrator(db)
	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	loaded, err := platformrules.NewLoader(cfg.PlatformRulePath).Load(ctx)
	if err != nil {
		return fmt.Errorf("load platform rules: %w", err)
	}
	log.WithFields(logrus.Fields{
		"source":    loaded.Source,
		"version":   loaded.Bundle.Version,
		"platforms": len(loaded.Bundle.Platforms),
		"sha256":    loaded.SHA256,
	}).Info("platform rules loaded")

	agg := aggregate.New(
		providers.NewSocial(loaded.Bundle.Platforms, cfg.AdapterTimeout),
		providers.NewEmail(),
		providers.NewPhone(),
		providers.NewAddress(cfg.GoogleMapsAPIKey, cfg.AdapterTimeout),
		providers.NewImage(),
		providers.NewWifi(),
		cfg.AdapterTimeout,
	)

	s := &Server{
		cfg:   cfg,
		store: sqliteadapter.NewStore(db),
		agg:   agg,
		log:   log,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{
		"addr":            cfg.ListenAddr,
		"geocoding":       cfg.GoogleMapsAPIKey != "",
		"wifi_authorized": cfg.WifiScanAuthorized,
	}).Info("listening")

	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Debug("request")
	})
}
