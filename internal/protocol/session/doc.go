// Package session owns the stateful side of the connection handshake. The
// packet codec in package protocol is stateless; everything that remembers
// peers lives here.
//
// Ownership boundary:
// - client peer id allocation and release
// - server handling of c_connect / c_disconnect
// - client tracking of the id learned from s_connected
// - handshake timeouts and retry backoff
package session
