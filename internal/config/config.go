package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/voxboxor/voxboxor/internal/logging"
	"github.com/voxboxor/voxboxor/internal/protocol/schema"
	"github.com/voxboxor/voxboxor/internal/protocol/session"
)

// NodeConfig is the handshake server's config file.
type NodeConfig struct {
	Name             string   `toml:"name"`
	Listen           string   `toml:"listen"`
	PeerIDMin        uint16   `toml:"peer_id_min"`
	PeerIDMax        uint16   `toml:"peer_id_max"`
	HandshakeTimeout string   `toml:"handshake_timeout"`
	AdminAddr        string   `toml:"admin_addr"`
	CorsOrigins      []string `toml:"cors_origins"`
	LogLevel         string   `toml:"log_level"`
}

func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		Name:             "voxd",
		Listen:           ":30000",
		PeerIDMin:        uint16(schema.PeerIDCltMin),
		PeerIDMax:        0xFFFF,
		HandshakeTimeout: "2s",
		AdminAddr:        "127.0.0.1:9300",
		LogLevel:         "info",
	}
}

// LoadNodeConfig reads path over DefaultNodeConfig and validates the result.
func LoadNodeConfig(path string) (NodeConfig, error) {
	cfg := DefaultNodeConfig()
	if err := loadToml(path, &cfg); err != nil {
		return NodeConfig{}, err
	}
	if err := ValidateNodeConfig(cfg); err != nil {
		return NodeConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateNodeConfig(cfg NodeConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("node config missing name")
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		return fmt.Errorf("node config missing listen")
	}
	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return fmt.Errorf("node config listen invalid: %w", err)
	}
	if cfg.AdminAddr != "" {
		if _, _, err := net.SplitHostPort(cfg.AdminAddr); err != nil {
			return fmt.Errorf("node config admin_addr invalid: %w", err)
		}
	}
	if cfg.PeerIDMin < uint16(schema.PeerIDCltMin) {
		return fmt.Errorf("node config peer_id_min must be >= %d", schema.PeerIDCltMin)
	}
	if cfg.PeerIDMax < cfg.PeerIDMin {
		return fmt.Errorf("node config peer_id_max %d below peer_id_min %d", cfg.PeerIDMax, cfg.PeerIDMin)
	}
	if _, err := cfg.handshakeTimeout(); err != nil {
		return err
	}
	if cfg.LogLevel != "" {
		if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
			return fmt.Errorf("node config log_level unknown: %q", cfg.LogLevel)
		}
	}
	return nil
}

func (c NodeConfig) handshakeTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.HandshakeTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.HandshakeTimeout))
	if err != nil {
		return 0, fmt.Errorf("node config handshake_timeout invalid: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("node config handshake_timeout negative: %s", d)
	}
	return d, nil
}

// Session maps the file onto session.Config. cfg must be valid.
func (c NodeConfig) Session() session.Config {
	out := session.DefaultConfig()
	out.PeerIDMin = schema.PeerID(c.PeerIDMin)
	out.PeerIDMax = schema.PeerID(c.PeerIDMax)
	if d, err := c.handshakeTimeout(); err == nil && d > 0 {
		out.HandshakeTimeout = d
	}
	return out
}
