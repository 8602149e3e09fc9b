package schema

// ProtocolID must be at the start of every network packet.
const ProtocolID uint32 = 0x4f457403

// PeerIDs aren't used to identify peers, network addresses are,
// they exist for backward compatibility.
type PeerID uint16

const (
	// Used by clients before the server sets their ID.
	PeerIDNil PeerID = iota

	// The server always has this ID.
	PeerIDSrv

	// Lowest ID the server can assign to a client.
	PeerIDCltMin
)

// ChannelCount is the maximum channel number + 1.
const ChannelCount = 3

// MaxNetPktSize is the largest datagram a peer sends or accepts.
const MaxNetPktSize = 512

// SeqnumInit is the first sequence number of a reliable channel.
const SeqnumInit uint16 = 65500

// Values of the "type" field of the reliable, original and control sections.
const (
	TypeControl  uint8 = 0
	TypeOriginal uint8 = 1
	TypeSplit    uint8 = 2
	TypeReliable uint8 = 3
)

// Values of the "controltype" field of the control section.
const (
	ControlAck       uint8 = 0
	ControlSetPeerID uint8 = 1
	ControlPing      uint8 = 2
	ControlDisco     uint8 = 3
)
