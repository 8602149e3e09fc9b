package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/observability"
	"github.com/voxboxor/voxboxor/internal/protocol"
	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// Peer is one client known to a Server.
type Peer struct {
	ID          schema.PeerID `json:"id" yaml:"id"`
	Addr        string        `json:"addr" yaml:"addr"`
	ConnectedAt time.Time     `json:"connected_at" yaml:"connected_at"`
}

// Server answers client handshakes. It is safe for concurrent use.
type Server struct {
	codec *protocol.Codec
	ids   *PeerAllocator
	now   func() time.Time

	mu     sync.Mutex
	byAddr map[string]Peer
	byID   map[schema.PeerID]string
}

// NewServer builds a Server over codec; a nil codec uses protocol.Default.
func NewServer(codec *protocol.Codec, cfg Config) *Server {
	if codec == nil {
		codec = protocol.Default()
	}
	return &Server{
		codec:  codec,
		ids:    NewPeerAllocator(cfg.PeerIDMin, cfg.PeerIDMax),
		now:    time.Now,
		byAddr: make(map[string]Peer),
		byID:   make(map[schema.PeerID]string),
	}
}

// Handle classifies a datagram from addr and dispatches it. The reply is
// nil when nothing should be sent back.
func (s *Server) Handle(addr string, b []byte) ([]byte, error) {
	kind, _, err := s.codec.Classify(schema.Client, b)
	if err != nil {
		observability.RecordPacket(observability.OpDecode, "unknown", err)
		return nil, err
	}
	switch kind {
	case protocol.KindConnect:
		reply, _, err := s.HandleConnect(addr, b)
		return reply, err
	case protocol.KindDisconnect:
		_, err := s.HandleDisconnect(addr, b)
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedPacket, kind)
	}
}

// HandleConnect decodes a c_connect from addr and returns the s_connected
// reply. A repeated connect from the same address gets its existing id.
func (s *Server) HandleConnect(addr string, b []byte) ([]byte, schema.PeerID, error) {
	_, err := s.codec.Decode(protocol.KindConnect, b)
	observability.RecordPacket(observability.OpDecode, protocol.KindConnect.String(), err)
	if err != nil {
		return nil, schema.PeerIDNil, err
	}

	s.mu.Lock()
	peer, known := s.byAddr[addr]
	if !known {
		id, err := s.ids.Allocate()
		if err != nil {
			s.mu.Unlock()
			log.Warn().Err(err).Str("addr", addr).Msg("session.HandleConnect rejected")
			return nil, schema.PeerIDNil, err
		}
		peer = Peer{ID: id, Addr: addr, ConnectedAt: s.now()}
		s.byAddr[addr] = peer
		s.byID[id] = addr
	}
	n := len(s.byAddr)
	s.mu.Unlock()
	observability.SetSessionPeers(n)

	reply, err := s.codec.EncodeConnected(peer.ID)
	observability.RecordPacket(observability.OpEncode, protocol.KindConnected.String(), err)
	if err != nil {
		return nil, schema.PeerIDNil, err
	}
	log.Info().
		Str("addr", addr).
		Uint16("peer_id", uint16(peer.ID)).
		Bool("repeat", known).
		Msg("session.HandleConnect")
	return reply, peer.ID, nil
}

// HandleDisconnect decodes a c_disconnect from addr and releases the
// sender's id. The sender must be a peer bound to addr.
func (s *Server) HandleDisconnect(addr string, b []byte) (schema.PeerID, error) {
	pkt, err := s.codec.Decode(protocol.KindDisconnect, b)
	observability.RecordPacket(observability.OpDecode, protocol.KindDisconnect.String(), err)
	if err != nil {
		return schema.PeerIDNil, err
	}
	id, err := pkt.PeerID("sender_peer_id", schema.Basic)
	if err != nil {
		return schema.PeerIDNil, err
	}

	s.mu.Lock()
	bound, ok := s.byID[id]
	if !ok || bound != addr {
		s.mu.Unlock()
		return id, fmt.Errorf("%w: peer %d from %s", ErrUnknownPeer, id, addr)
	}
	delete(s.byID, id)
	delete(s.byAddr, addr)
	s.ids.Release(id)
	n := len(s.byAddr)
	s.mu.Unlock()
	observability.SetSessionPeers(n)

	log.Info().Str("addr", addr).Uint16("peer_id", uint16(id)).Msg("session.HandleDisconnect")
	return id, nil
}

// Peers returns the connected peers ordered by id.
func (s *Server) Peers() []Peer {
	s.mu.Lock()
	out := make([]Peer, 0, len(s.byAddr))
	for _, p := range s.byAddr {
		out = append(out, p)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) PeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byAddr)
}
