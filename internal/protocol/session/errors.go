package session

import "errors"

var (
	ErrOutOfPeerIDs     = errors.New("session: out of peer ids")
	ErrUnknownPeer      = errors.New("session: unknown peer")
	ErrInvalidPeerID    = errors.New("session: invalid peer id")
	ErrPeerIDAlreadySet = errors.New("session: peer id already set")
	ErrNotConnected     = errors.New("session: not connected")
	ErrUnexpectedPacket = errors.New("session: unexpected packet")
)
