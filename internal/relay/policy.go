package relay

import "fmt"

// Policy is what the relay does with a frame that fails to decode.
type Policy int

const (
	// PolicyForward sends the undecodable frame on unchanged.
	PolicyForward Policy = iota
	// PolicyDrop discards the frame and keeps the connection.
	PolicyDrop
	// PolicyClose closes the connection.
	PolicyClose
)

func (p Policy) String() string {
	switch p {
	case PolicyForward:
		return "forward"
	case PolicyDrop:
		return "drop"
	case PolicyClose:
		return "close"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses forward, drop or close.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "forward", "":
		return PolicyForward, nil
	case "drop":
		return PolicyDrop, nil
	case "close":
		return PolicyClose, nil
	}
	return 0, fmt.Errorf("relay: unknown decode error policy %q", s)
}
