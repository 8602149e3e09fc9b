package schema

// Known packet keys.
var (
	// ClientConnect is the client's first packet requesting a connection.
	ClientConnect = Key{Client, "connect"}

	// ServerConnected is the server's SET_PEER_ID reply to ClientConnect.
	ServerConnected = Key{Server, "connected"}

	// ClientDisconnect tells the server the client is leaving.
	ClientDisconnect = Key{Client, "disconnect"}
)

// Default is the packet table of the connection handshake.
var Default = MustNewRegistry(HandshakeDefinitions()...)

// HandshakeDefinitions returns a fresh copy of the section definitions
// behind Default.
func HandshakeDefinitions() []Definition {
	return []Definition{
		{
			Section: Basic,
			Wildcard: &Layout{
				Names:  []string{"protocol_id", "sender_peer_id", "channel"},
				Widths: []Width{U32, U16, U8},
			},
			Packets: []Packet{
				{Key: ClientConnect, Defaults: []Value{Fixed(ProtocolID), Fixed(uint32(PeerIDNil)), Fixed(0)}},
				{Key: ServerConnected, Defaults: []Value{Fixed(ProtocolID), Fixed(uint32(PeerIDNil)), Fixed(0)}},
				{Key: ClientDisconnect, Defaults: []Value{Fixed(ProtocolID), Required, Fixed(0)}},
			},
		},
		{
			Section: Reliable,
			Wildcard: &Layout{
				Names:  []string{"type", "seqnum"},
				Widths: []Width{U8, U16},
			},
			// Disconnect has no reliable header, only basic+control.
			Packets: []Packet{
				{Key: ClientConnect, Defaults: []Value{Fixed(uint32(TypeReliable)), Fixed(uint32(SeqnumInit))}},
				{Key: ServerConnected, Defaults: []Value{Fixed(uint32(TypeReliable)), Fixed(uint32(SeqnumInit))}},
			},
		},
		{
			Section: Original,
			Wildcard: &Layout{
				Names:  []string{"type"},
				Widths: []Width{U8},
			},
			Packets: []Packet{
				{Key: ClientConnect, Defaults: []Value{Fixed(uint32(TypeOriginal))}},
			},
		},
		{
			// Control layouts are all packet specific.
			Section: Control,
			Packets: []Packet{
				{
					Key: ServerConnected,
					Layout: &Layout{
						Names:  []string{"type", "controltype", "peer_id_new"},
						Widths: []Width{U8, U8, U16},
					},
					Defaults: []Value{Fixed(uint32(TypeControl)), Fixed(uint32(ControlSetPeerID)), Required},
				},
				{
					Key: ClientDisconnect,
					Layout: &Layout{
						Names:  []string{"type", "controltype"},
						Widths: []Width{U8, U8},
					},
					Defaults: []Value{Fixed(uint32(TypeControl)), Fixed(uint32(ControlDisco))},
				},
			},
		},
	}
}
