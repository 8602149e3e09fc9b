package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/voxboxor/voxboxor/internal/protocol/session"
)

// clientProfile is the connect command's optional TOML file. Only keys
// present in the file override session.DefaultConfig.
type clientProfile struct {
	HandshakeTimeout   string  `toml:"handshake_timeout"`
	MaxConnectAttempts int     `toml:"max_connect_attempts"`
	BackoffInitial     string  `toml:"backoff_initial"`
	BackoffMultiplier  float64 `toml:"backoff_multiplier"`
	BackoffMax         string  `toml:"backoff_max"`
	BackoffJitter      bool    `toml:"backoff_jitter"`
}

func loadClientProfile(path string) (session.Config, error) {
	cfg := session.DefaultConfig()

	var raw clientProfile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return session.Config{}, fmt.Errorf("load client profile: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return session.Config{}, fmt.Errorf("load client profile: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("handshake_timeout") {
		d, err := parseDuration("handshake_timeout", raw.HandshakeTimeout)
		if err != nil {
			return session.Config{}, err
		}
		cfg.HandshakeTimeout = d
	}

	if meta.IsDefined("max_connect_attempts") {
		if raw.MaxConnectAttempts < 1 {
			return session.Config{}, fmt.Errorf("max_connect_attempts must be >= 1")
		}
		cfg.MaxConnectAttempts = raw.MaxConnectAttempts
	}

	if meta.IsDefined("backoff_initial") {
		d, err := parseDuration("backoff_initial", raw.BackoffInitial)
		if err != nil {
			return session.Config{}, err
		}
		cfg.Backoff.InitialDelay = d
	}

	if meta.IsDefined("backoff_multiplier") {
		cfg.Backoff.Multiplier = raw.BackoffMultiplier
	}

	if meta.IsDefined("backoff_max") {
		d, err := parseDuration("backoff_max", raw.BackoffMax)
		if err != nil {
			return session.Config{}, err
		}
		cfg.Backoff.MaxDelay = d
	}

	if meta.IsDefined("backoff_jitter") {
		cfg.Backoff.Jitter = raw.BackoffJitter
	}

	return cfg, nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
