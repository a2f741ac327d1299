package app

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"LISTEN_ADDR", "PORT", "OSINT_DEBUG", "OSINT_DB_PATH",
		"OSINT_PLATFORM_RULES", "OSINT_WIFI_AUTHORIZED", "OSINT_ADAPTER_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.ListenAddr != "127.0.0.1:5000" {
		t.Fatalf("listen_addr=%q", cfg.ListenAddr)
	}
	if cfg.DBPath != "data/osint.db" {
		t.Fatalf("db_path=%q", cfg.DBPath)
	}
	if cfg.AdapterTimeout != 15*time.Second {
		t.Fatalf("adapter_timeout=%v", cfg.AdapterTimeout)
	}
	// 扫描授权默认必须关闭
	if cfg.WifiScanAuthorized {
		t.Fatal("wifi_scan_authorized=true by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "0.0.0.0:8080")
	t.Setenv("OSINT_DEBUG", "1")
	t.Setenv("OSINT_DB_PATH", "/tmp/osint-test.db")
	t.Setenv("OSINT_WIFI_AUTHORIZED", "true")
	t.Setenv("OSINT_ADAPTER_TIMEOUT", "3s")

	cfg := LoadConfig()
	if cfg.ListenAddr != "0.0.0.0:8080" || !cfg.Debug || cfg.DBPath != "/tmp/osint-test.db" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if !cfg.WifiScanAuthorized {
		t.Fatal("wifi_scan_authorized=false")
	}
	if cfg.AdapterTimeout != 3*time.Second {
		t.Fatalf("adapter_timeout=%v", cfg.AdapterTimeout)
	}
}

func TestLoadConfig_PortFallback(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("PORT", "9000")

	cfg := LoadConfig()
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Fatalf("listen_addr=%q", cfg.ListenAddr)
	}
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("OSINT_DEBUG", "not-a-bool")
	t.Setenv("OSINT_ADAPTER_TIMEOUT", "-5s")

	cfg := LoadConfig()
	if cfg.Debug {
		t.Fatal("debug=true from garbage value")
	}
	if cfg.AdapterTimeout != 15*time.Second {
		t.Fatalf("adapter_timeout=%v", cfg.AdapterTimeout)
	}
}
