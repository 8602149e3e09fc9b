// Package transport moves handshake datagrams over UDP.
//
// Ownership boundary:
// - server read loop dispatching datagrams to a Handler
// - client Conn with context-aware Send/Recv
// - datagram size limits and drop accounting
package transport
