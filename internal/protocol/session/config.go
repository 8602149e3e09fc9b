package session

import (
	"time"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// BackoffConfig defines retry backoff behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines handshake defaults shared by Server and Client.
type Config struct {
	// PeerIDMin and PeerIDMax bound the ids a server hands out.
	PeerIDMin schema.PeerID
	PeerIDMax schema.PeerID
	// HandshakeTimeout bounds one connect attempt waiting for s_connected.
	HandshakeTimeout   time.Duration
	MaxConnectAttempts int
	Backoff            BackoffConfig
}

func DefaultConfig() Config {
	return Config{
		PeerIDMin:          schema.PeerIDCltMin,
		PeerIDMax:          0xFFFF,
		HandshakeTimeout:   2 * time.Second,
		MaxConnectAttempts: 5,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}
