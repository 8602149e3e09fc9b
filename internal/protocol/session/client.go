package session

import (
	"fmt"
	"sync"

	"github.com/voxboxor/voxboxor/internal/observability"
	"github.com/voxboxor/voxboxor/internal/protocol"
	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// Client tracks the peer id a server assigned to this side of a
// connection. The id can be set once per connection.
type Client struct {
	codec *protocol.Codec

	mu sync.Mutex
	id schema.PeerID
}

// NewClient builds a Client over codec; a nil codec uses protocol.Default.
func NewClient(codec *protocol.Codec) *Client {
	if codec == nil {
		codec = protocol.Default()
	}
	return &Client{codec: codec}
}

func (c *Client) ConnectPacket() ([]byte, error) {
	b, err := c.codec.EncodeConnect()
	observability.RecordPacket(observability.OpEncode, protocol.KindConnect.String(), err)
	return b, err
}

// HandleConnected decodes an s_connected and records the assigned id.
func (c *Client) HandleConnected(b []byte) (schema.PeerID, error) {
	pkt, err := c.codec.Decode(protocol.KindConnected, b)
	observability.RecordPacket(observability.OpDecode, protocol.KindConnected.String(), err)
	if err != nil {
		return schema.PeerIDNil, err
	}
	id, err := pkt.PeerID("peer_id_new", schema.Control)
	if err != nil {
		return schema.PeerIDNil, err
	}
	if id < schema.PeerIDCltMin {
		return schema.PeerIDNil, fmt.Errorf("%w: %d", ErrInvalidPeerID, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id != schema.PeerIDNil {
		return c.id, fmt.Errorf("%w: have %d, got %d", ErrPeerIDAlreadySet, c.id, id)
	}
	c.id = id
	return id, nil
}

// PeerID returns the assigned id and whether one is known.
func (c *Client) PeerID() (schema.PeerID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id, c.id != schema.PeerIDNil
}

// DisconnectPacket encodes a c_disconnect carrying the assigned id.
func (c *Client) DisconnectPacket() ([]byte, error) {
	id, ok := c.PeerID()
	if !ok {
		return nil, ErrNotConnected
	}
	b, err := c.codec.EncodeDisconnect(id)
	observability.RecordPacket(observability.OpEncode, protocol.KindDisconnect.String(), err)
	return b, err
}

// Reset forgets the assigned id so the client can connect again.
func (c *Client) Reset() {
	c.mu.Lock()
	c.id = schema.PeerIDNil
	c.mu.Unlock()
}
