package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// Datagrams is the part of a connected transport the client handshake uses.
type Datagrams interface {
	Send(ctx context.Context, b []byte) error
	Recv(ctx context.Context) ([]byte, error)
}

// Connect sends c_connect until an s_connected arrives, retrying with
// backoff after each HandshakeTimeout. Datagrams that are not an
// s_connected are skipped.
func (c *Client) Connect(ctx context.Context, conn Datagrams, cfg Config, rng *rand.Rand) (schema.PeerID, error) {
	if id, ok := c.PeerID(); ok {
		return id, fmt.Errorf("%w: %d", ErrPeerIDAlreadySet, id)
	}
	connect, err := c.ConnectPacket()
	if err != nil {
		return schema.PeerIDNil, err
	}
	attempts := max(cfg.MaxConnectAttempts, 1)
	backoff := NewBackoff(cfg.Backoff, rng)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := conn.Send(ctx, connect); err != nil {
			return schema.PeerIDNil, fmt.Errorf("send connect: %w", err)
		}
		id, err := c.awaitConnected(ctx, conn, cfg)
		if err == nil || errors.Is(err, ErrPeerIDAlreadySet) {
			return id, err
		}
		if ctx.Err() != nil {
			return schema.PeerIDNil, ctx.Err()
		}
		lastErr = err
		log.Debug().Err(err).Int("attempt", attempt).Msg("session.Connect retry")
		if attempt < attempts {
			if err := backoff.Wait(ctx); err != nil {
				return schema.PeerIDNil, err
			}
		}
	}
	return schema.PeerIDNil, fmt.Errorf("session: handshake failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) awaitConnected(ctx context.Context, conn Datagrams, cfg Config) (schema.PeerID, error) {
	waitCtx := ctx
	if cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.HandshakeTimeout)
		defer cancel()
	}
	for {
		b, err := conn.Recv(waitCtx)
		if err != nil {
			return schema.PeerIDNil, err
		}
		id, err := c.HandleConnected(b)
		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, ErrPeerIDAlreadySet):
			return id, err
		default:
			log.Debug().Err(err).Int("bytes", len(b)).Msg("session.Connect skipped datagram")
		}
	}
}

// Disconnect sends c_disconnect and forgets the assigned id.
func (c *Client) Disconnect(ctx context.Context, conn Datagrams) error {
	b, err := c.DisconnectPacket()
	if err != nil {
		return err
	}
	if err := conn.Send(ctx, b); err != nil {
		return fmt.Errorf("send disconnect: %w", err)
	}
	c.Reset()
	return nil
}
