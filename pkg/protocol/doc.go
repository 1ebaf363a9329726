// Package protocol implements the binary wire protocol of a length-framed
// game server, and a mutation tracker that lets callers rewrite decoded
// messages before forwarding them.
//
// # Wire Format
//
// Every message is framed with a little-endian length that counts the whole
// frame, followed by a message id. Net module frames (id 82) add a module id:
//
//	┌────────────────────┬───────────┬───────────────────────────┐
//	│ Length             │ ID        │ Module (only for ID 82)   │
//	│ (2 bytes, LE)      │ (1 byte)  │ (2 bytes, LE)             │
//	└────────────────────┴───────────┴───────────────────────────┘
//
// A frame is at most 65535 bytes long.
//
// # Encoding
//
//   - Fixed-width integers and floats: little-endian
//   - Varint: 7 payload bits per byte, at most 5 bytes; used only for string lengths
//   - Strings: varint byte length followed by UTF-8 bytes
//   - Vector2: two float32; Color: three bytes
//
// # Direction
//
// Some messages have a different shape depending on whether they travel
// ToServer or ToClient. The direction is passed to every ReadBody and
// WriteBody call; fields that belong to one direction take zero bytes in
// the other.
//
// # Optional Fields
//
// Messages with optional fields precede them with ChainedFlags. Bits 0-6 of
// the primary byte each gate one field; bit 7 announces a secondary byte for
// a second group. The flags are computed from which Option fields are set
// when encoding, and the secondary byte is omitted when its group is empty.
//
// # Decoding
//
// Registry.Decode resolves the id to a registered type and decodes the body,
// which must be consumed exactly. Ids without a registered type decode to a
// *Raw that keeps the body verbatim.
//
//	pkt, n, err := protocol.Decode(frame, protocol.ToServer)
//
// # Tracking Changes
//
// Track moves a decoded value into a Tracked, which keeps a snapshot next to
// the live copy handed to handlers. After handlers ran, IsDirty tells whether
// the frame must be re-encoded or can be forwarded as received:
//
//	in, _ := reg.TrackPacket(pkt, dir, frame[:n])
//	// ... handlers mutate in.Message() ...
//	out, err := in.Forward()
package protocol
