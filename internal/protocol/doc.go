// Package protocol owns the low-level Minetest handshake packet codec.
//
// Ownership boundary:
// - resolving a packet key to a wire template (schema composition)
// - encoding supplied values into big-endian fixed-width packets
// - decoding packets into section-qualified field views
//
// Connection state, peer id allocation and sockets live in
// internal/protocol/session and internal/transport.
package protocol
