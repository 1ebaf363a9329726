package protocol

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// MaxStringLen bounds a decoded string. No string can be longer than a frame.
const MaxStringLen = MaxFrameSize

// Decoder is a binary decoder that reads from a byte buffer.
// All fixed-width values are read little-endian.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a new decoder from the given byte slice.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF returns true if all bytes have been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// Position returns the current read position.
func (d *Decoder) Position() int {
	return d.pos
}

// ReadUint8 reads a single byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrTruncated
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadInt8 reads a signed byte.
func (d *Decoder) ReadInt8() (int8, error) {
	b, err := d.ReadUint8()
	return int8(b), err
}

// ReadFixed copies exactly len(dst) bytes into dst.
func (d *Decoder) ReadFixed(dst []byte) error {
	if d.pos+len(dst) > len(d.buf) {
		return ErrTruncated
	}
	d.pos += copy(dst, d.buf[d.pos:])
	return nil
}

// ReadRest consumes and returns every unread byte.
// The returned slice references the decoder's buffer; do not modify.
func (d *Decoder) ReadRest() []byte {
	b := d.buf[d.pos:]
	d.pos = len(d.buf)
	return b
}

// ReadVarint reads a 7-bit encoded integer.
func (d *Decoder) ReadVarint() (uint32, error) {
	v, n := DecodeVarint(d.buf[d.pos:])
	switch {
	case n == -2:
		return 0, ErrVarintOverflow
	case n < 0:
		return 0, ErrTruncated
	}
	d.pos += n
	return v, nil
}

// ReadString reads a varint length-prefixed UTF-8 string.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadVarint()
	if err != nil {
		return "", err
	}
	// Bounds check: length must fit in remaining buffer
	if uint64(length) > uint64(d.Remaining()) {
		return "", ErrTruncated
	}
	if length > MaxStringLen {
		return "", ErrMalformedLength
	}
	n := int(length)
	raw := d.buf[d.pos : d.pos+n]
	d.pos += n
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	s, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// ReadUint16 reads a uint16 in little-endian byte order.
func (d *Decoder) ReadUint16() (uint16, error) {
	if d.pos+2 > len(d.buf) {
		return 0, ErrTruncated
	}
	v := uint16(d.buf[d.pos]) | uint16(d.buf[d.pos+1])<<8
	d.pos += 2
	return v, nil
}

// ReadUint32 reads a uint32 in little-endian byte order.
func (d *Decoder) ReadUint32() (uint32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, ErrTruncated
	}
	v := uint32(d.buf[d.pos]) | uint32(d.buf[d.pos+1])<<8 |
		uint32(d.buf[d.pos+2])<<16 | uint32(d.buf[d.pos+3])<<24
	d.pos += 4
	return v, nil
}

// ReadInt16 reads an int16 in little-endian byte order.
func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

// ReadFloat32 reads a float32 in IEEE 754 format (little-endian).
func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadVector2 reads two float32 values.
func (d *Decoder) ReadVector2() (Vector2, error) {
	x, err := d.ReadFloat32()
	if err != nil {
		return Vector2{}, err
	}
	y, err := d.ReadFloat32()
	if err != nil {
		return Vector2{}, err
	}
	return Vector2{X: x, Y: y}, nil
}

// ReadColor reads three bytes as an RGB color.
func (d *Decoder) ReadColor() (Color, error) {
	var rgb [3]byte
	if err := d.ReadFixed(rgb[:]); err != nil {
		return Color{}, err
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}
