package protocol

import "github.com/voxboxor/voxboxor/internal/protocol/schema"

// EncodeConnect encodes the client's connection request.
func (c *Codec) EncodeConnect() ([]byte, error) {
	return c.Encode(KindConnect, nil)
}

// EncodeConnected encodes the server's SET_PEER_ID reply assigning id.
func (c *Codec) EncodeConnected(id schema.PeerID) ([]byte, error) {
	return c.Encode(KindConnected, Values{"peer_id_new": id})
}

// EncodeDisconnect encodes a disconnect sent by the peer with id sender.
func (c *Codec) EncodeDisconnect(sender schema.PeerID) ([]byte, error) {
	return c.Encode(KindDisconnect, Values{"sender_peer_id": sender})
}
