package protocol

// Direction is the side a message travels towards. Some message types have a
// different wire shape depending on it.
type Direction uint8

const (
	ToServer Direction = 0x00 // Client → Server
	ToClient Direction = 0x01 // Server → Client
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case ToServer:
		return "ToServer"
	case ToClient:
		return "ToClient"
	default:
		return "Unknown"
	}
}

