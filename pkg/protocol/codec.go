package protocol

import "sync"

// Packet is a decoded frame: either a registered message type or a *Raw.
type Packet struct {
	Header  Header
	Message Message
}

// Known reports whether the frame decoded to a registered type.
func (p Packet) Known() bool {
	_, raw := p.Message.(*Raw)
	return !raw
}

// Decode decodes the frame at the start of buf. It returns the packet and
// the number of bytes the frame occupies. Frames whose id has no registered
// type decode to a *Raw.
//
// A body must be consumed exactly; leftover or missing bytes fail with
// ErrMalformedLength or ErrTruncated wrapped in a *DecodeError. A body written
// under one direction and decoded under the other usually fails this way; use
// ReadBody for such cross-direction reads.
func (r *Registry) Decode(buf []byte, dir Direction) (Packet, int, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Packet{}, 0, err
	}
	body := buf[h.Size():h.Length]

	m, ok := r.New(h.ID, h.Module)
	if !ok {
		raw := NewRaw(h.ID, h.Module, body)
		return Packet{Header: h, Message: &raw}, int(h.Length), nil
	}

	d := NewDecoder(body)
	if err := m.ReadBody(d, dir); err != nil {
		return Packet{}, 0, &DecodeError{ID: h.ID, Module: h.Module, Offset: d.Position(), Err: err}
	}
	if !d.EOF() {
		return Packet{}, 0, &DecodeError{ID: h.ID, Module: h.Module, Offset: d.Position(), Err: ErrMalformedLength}
	}
	return Packet{Header: h, Message: m}, int(h.Length), nil
}

// Decode decodes with the DefaultRegistry.
func Decode(buf []byte, dir Direction) (Packet, int, error) {
	return DefaultRegistry().Decode(buf, dir)
}

var scratchPool = sync.Pool{
	New: func() any { return NewEncoderWithCap(256) },
}

// Encode encodes m as a complete frame.
func Encode(m Message, dir Direction) ([]byte, error) {
	scratch := scratchPool.Get().(*Encoder)
	defer func() {
		scratch.Reset()
		scratchPool.Put(scratch)
	}()

	if err := m.WriteBody(scratch, dir); err != nil {
		return nil, err
	}

	var mod ModuleID
	if mm, ok := m.(ModuleMessage); ok {
		mod = mm.Module()
	}
	body := scratch.Bytes()
	out := make([]byte, 0, headerSize(m.ID())+len(body))
	out, err := appendHeader(out, m.ID(), mod, len(body))
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}

// InFlight is a tracked packet together with the frame it was decoded from.
type InFlight struct {
	Tracker
	Header    Header
	Direction Direction
	Frame     []byte
}

// TrackPacket wraps a decoded packet for dispatch. frame must be the exact
// bytes the packet was decoded from.
func (r *Registry) TrackPacket(p Packet, dir Direction, frame []byte) (*InFlight, error) {
	t, err := r.Track(p.Message)
	if err != nil {
		return nil, err
	}
	return &InFlight{Tracker: t, Header: p.Header, Direction: dir, Frame: frame}, nil
}

// Forward returns the bytes to send on: the original frame when nothing
// changed, or a fresh encoding of the live value. A re-encode cleans the
// tracker. Forward returns nil for a canceled packet.
func (f *InFlight) Forward() ([]byte, error) {
	if _, canceled := f.Canceled(); canceled {
		return nil, nil
	}
	if !f.IsDirty() {
		return f.Frame, nil
	}
	out, err := Encode(f.Message(), f.Direction)
	if err != nil {
		return nil, err
	}
	f.Clean()
	return out, nil
}
