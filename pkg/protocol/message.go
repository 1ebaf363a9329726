package protocol

// Message is a typed protocol message body.
//
// ReadBody decodes fields from the decoder under the given direction and must
// consume exactly the bytes belonging to the message. WriteBody is its
// inverse: under the same direction it writes the bytes ReadBody consumes.
// Fields that only exist in one direction contribute zero bytes in the other.
type Message interface {
	ID() MessageID
	ReadBody(d *Decoder, dir Direction) error
	WriteBody(e *Encoder, dir Direction) error
}

// ModuleMessage is a message carried inside an IDNetModule frame.
type ModuleMessage interface {
	Message
	Module() ModuleID
}

// Dirtier is implemented by messages holding variable-length content that a
// byte-image comparison cannot see. Setters of that content mark the message dirty.
type Dirtier interface {
	Dirty() bool
	ClearDirty()
}

// ReadBody decodes body into m and returns the number of bytes consumed.
// Unlike Decode, it tolerates unconsumed trailing bytes, so it is the entry
// point for reading a body under a different direction from the one it was
// written in.
func ReadBody(m Message, body []byte, dir Direction) (int, error) {
	d := NewDecoder(body)
	if err := m.ReadBody(d, dir); err != nil {
		return d.Position(), err
	}
	return d.Position(), nil
}

// WriteBody encodes the body of m and returns it.
func WriteBody(m Message, dir Direction) ([]byte, error) {
	e := NewEncoder()
	if err := m.WriteBody(e, dir); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}
