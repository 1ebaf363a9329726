package protocol

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestEncoderDecoder(t *testing.T) {
	e := NewEncoder()

	e.WriteUint8(0x42)
	e.WriteInt8(-3)
	e.WriteBytes([]byte{0x01, 0x02, 0x03})
	e.WriteVarint(12345)
	e.WriteString("hello world")
	e.WriteUint16(0x1234)
	e.WriteUint32(0x12345678)
	e.WriteInt16(-1234)
	e.WriteFloat32(3.14159)
	e.WriteVector2(Vector2{X: 1.5, Y: -2})
	e.WriteColor(Color{R: 255, G: 128, B: 1})

	d := NewDecoder(e.Bytes())

	if b, err := d.ReadUint8(); err != nil || b != 0x42 {
		t.Errorf("ReadUint8() = %x, %v; want 0x42, nil", b, err)
	}
	if v, err := d.ReadInt8(); err != nil || v != -3 {
		t.Errorf("ReadInt8() = %d, %v; want -3, nil", v, err)
	}
	fixed := make([]byte, 3)
	if err := d.ReadFixed(fixed); err != nil || string(fixed) != "\x01\x02\x03" {
		t.Errorf("ReadFixed() = %v, %v; want [1 2 3], nil", fixed, err)
	}
	if v, err := d.ReadVarint(); err != nil || v != 12345 {
		t.Errorf("ReadVarint() = %d, %v; want 12345, nil", v, err)
	}
	if s, err := d.ReadString(); err != nil || s != "hello world" {
		t.Errorf("ReadString() = %q, %v; want \"hello world\", nil", s, err)
	}
	if v, err := d.ReadUint16(); err != nil || v != 0x1234 {
		t.Errorf("ReadUint16() = %x, %v; want 0x1234, nil", v, err)
	}
	if v, err := d.ReadUint32(); err != nil || v != 0x12345678 {
		t.Errorf("ReadUint32() = %x, %v; want 0x12345678, nil", v, err)
	}
	if v, err := d.ReadInt16(); err != nil || v != -1234 {
		t.Errorf("ReadInt16() = %d, %v; want -1234, nil", v, err)
	}
	if v, err := d.ReadFloat32(); err != nil || math.Abs(float64(v)-3.14159) > 0.00001 {
		t.Errorf("ReadFloat32() = %f, %v; want 3.14159, nil", v, err)
	}
	if v, err := d.ReadVector2(); err != nil || v != (Vector2{X: 1.5, Y: -2}) {
		t.Errorf("ReadVector2() = %v, %v", v, err)
	}
	if v, err := d.ReadColor(); err != nil || v != (Color{R: 255, G: 128, B: 1}) {
		t.Errorf("ReadColor() = %v, %v", v, err)
	}

	if !d.EOF() {
		t.Errorf("EOF() = false, remaining %d", d.Remaining())
	}
}

func TestEncoderLittleEndian(t *testing.T) {
	e := NewEncoder()
	e.WriteUint16(0x0102)
	e.WriteUint32(0x03040506)
	e.WriteFloat32(1)

	want := []byte{0x02, 0x01, 0x06, 0x05, 0x04, 0x03, 0x00, 0x00, 0x80, 0x3F}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("Bytes() = %v, want %v", e.Bytes(), want)
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoderWithCap(4)
	e.WriteString("abc")
	if e.Len() != 4 {
		t.Errorf("Len() = %d, want 4", e.Len())
	}
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", e.Len())
	}
}

func TestDecoderTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(d *Decoder) error
	}{
		{"uint8", nil, func(d *Decoder) error { _, err := d.ReadUint8(); return err }},
		{"uint16", []byte{0x01}, func(d *Decoder) error { _, err := d.ReadUint16(); return err }},
		{"uint32", []byte{0x01, 0x02, 0x03}, func(d *Decoder) error { _, err := d.ReadUint32(); return err }},
		{"vector2", make([]byte, 7), func(d *Decoder) error { _, err := d.ReadVector2(); return err }},
		{"color", []byte{1, 2}, func(d *Decoder) error { _, err := d.ReadColor(); return err }},
		{"fixed", []byte{1, 2}, func(d *Decoder) error { return d.ReadFixed(make([]byte, 3)) }},
		{"string_body", []byte{0x05, 'a', 'b'}, func(d *Decoder) error { _, err := d.ReadString(); return err }},
		{"string_length", []byte{0x80}, func(d *Decoder) error { _, err := d.ReadString(); return err }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.read(NewDecoder(tc.data)); err != ErrTruncated {
				t.Errorf("error = %v, want ErrTruncated", err)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"a",
		"Terraria194",
		"héllo wörld",
		"日本語テキスト",
		"emoji 🎮",
		strings.Repeat("x", 127),
		strings.Repeat("y", 128),
		strings.Repeat("z", 20000),
	}

	for _, s := range tests {
		e := NewEncoder()
		e.WriteString(s)
		if e.Len() != VarintLen(uint32(len(s)))+len(s) {
			t.Errorf("WriteString(len %d) wrote %d bytes", len(s), e.Len())
		}

		d := NewDecoder(e.Bytes())
		got, err := d.ReadString()
		if err != nil {
			t.Fatalf("ReadString() error = %v", err)
		}
		if got != s {
			t.Errorf("ReadString() = %q, want %q", got, s)
		}
	}
}

func TestReadStringInvalidUTF8(t *testing.T) {
	d := NewDecoder([]byte{0x03, 0xFF, 'o', 'k'})
	got, err := d.ReadString()
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if got != "�ok" {
		t.Errorf("ReadString() = %q, want %q", got, "�ok")
	}
	if !d.EOF() {
		t.Errorf("ReadString() left %d bytes", d.Remaining())
	}
}

func TestDecoderReadRest(t *testing.T) {
	d := NewDecoder([]byte{1, 2, 3, 4})
	_, _ = d.ReadUint8()
	rest := d.ReadRest()
	if !bytes.Equal(rest, []byte{2, 3, 4}) {
		t.Errorf("ReadRest() = %v, want [2 3 4]", rest)
	}
	if !d.EOF() || d.Position() != 4 {
		t.Errorf("after ReadRest: EOF=%v pos=%d", d.EOF(), d.Position())
	}
}
