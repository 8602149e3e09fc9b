package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
	"github.com/voxboxor/voxboxor/internal/testutil/testlog"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestServerTemplateLoads(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "voxd.toml")
	if err := WriteTemplate(path, "server", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := LoadNodeConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "voxd" || cfg.Listen != ":30000" || len(cfg.CorsOrigins) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	sc := cfg.Session()
	if sc.PeerIDMin != schema.PeerIDCltMin || sc.PeerIDMax != 0xFFFF || sc.HandshakeTimeout != 2*time.Second {
		t.Fatalf("unexpected session config: %+v", sc)
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "voxd.toml")
	if err := WriteTemplate(path, "server", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "server", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, "client", true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := Template("proxy"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestLoadNodeConfigAppliesDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, `listen = "127.0.0.1:4000"`+"\n")
	cfg, err := LoadNodeConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "voxd" || cfg.Listen != "127.0.0.1:4000" || cfg.PeerIDMin != 2 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestValidateNodeConfig(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name   string
		mutate func(*NodeConfig)
		want   string
	}{
		{"missing name", func(c *NodeConfig) { c.Name = " " }, "missing name"},
		{"bad listen", func(c *NodeConfig) { c.Listen = "30000" }, "listen invalid"},
		{"bad admin", func(c *NodeConfig) { c.AdminAddr = "nope" }, "admin_addr invalid"},
		{"reserved min", func(c *NodeConfig) { c.PeerIDMin = 1 }, "peer_id_min"},
		{"inverted range", func(c *NodeConfig) { c.PeerIDMin, c.PeerIDMax = 10, 5 }, "below peer_id_min"},
		{"bad timeout", func(c *NodeConfig) { c.HandshakeTimeout = "soon" }, "handshake_timeout invalid"},
		{"bad level", func(c *NodeConfig) { c.LogLevel = "loud" }, "log_level unknown"},
	}
	for _, tc := range cases {
		cfg := DefaultNodeConfig()
		tc.mutate(&cfg)
		err := ValidateNodeConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
	if err := ValidateNodeConfig(DefaultNodeConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadNodeConfigParseError(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "name = \n")
	if _, err := LoadNodeConfig(path); err == nil || !strings.Contains(err.Error(), "config parse failed") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if _, err := LoadNodeConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected load error")
	}
}
