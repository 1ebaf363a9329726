package protocol

import (
	"io"
)

// Frame constants.
const (
	// HeaderSize is the size of a plain frame header: length (2) + id (1).
	HeaderSize = 3

	// ModuleHeaderSize is the header size of a net module frame:
	// length (2) + id (1) + module (2).
	ModuleHeaderSize = 5

	// MaxFrameSize is the maximum total frame size, header included.
	MaxFrameSize = 65535
)

// Header is the decoded envelope of a single frame.
//
// Wire format:
//
//	┌────────────────────┬───────────┬───────────────────────────┐
//	│ Length             │ ID        │ Module (only for ID 82)   │
//	│ (2 bytes, LE)      │ (1 byte)  │ (2 bytes, LE)             │
//	└────────────────────┴───────────┴───────────────────────────┘
//	│  Body (Length - header size bytes)                          │
//	└─────────────────────────────────────────────────────────────┘
//
// Length counts the whole frame, including itself.
type Header struct {
	Length uint16
	ID     MessageID
	Module ModuleID
}

// Size returns the header size in bytes.
func (h Header) Size() int {
	return headerSize(h.ID)
}

// BodyLen returns the number of body bytes the header declares.
func (h Header) BodyLen() int {
	return int(h.Length) - h.Size()
}

func headerSize(id MessageID) int {
	if id == IDNetModule {
		return ModuleHeaderSize
	}
	return HeaderSize
}

// ParseHeader decodes the header at the start of data and checks that the
// declared length covers the header and fits inside data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrTruncated
	}
	h := Header{
		Length: uint16(data[0]) | uint16(data[1])<<8,
		ID:     MessageID(data[2]),
	}
	size := headerSize(h.ID)
	if int(h.Length) < size {
		return Header{}, ErrMalformedLength
	}
	if int(h.Length) > len(data) {
		return Header{}, ErrMalformedLength
	}
	if h.ID == IDNetModule {
		h.Module = ModuleID(uint16(data[3]) | uint16(data[4])<<8)
	}
	return h, nil
}

// appendHeader writes a header for a body of bodyLen bytes.
func appendHeader(buf []byte, id MessageID, module ModuleID, bodyLen int) ([]byte, error) {
	total := headerSize(id) + bodyLen
	if total > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	buf = append(buf, byte(total), byte(total>>8), byte(id))
	if id == IDNetModule {
		buf = append(buf, byte(module), byte(module>>8))
	}
	return buf, nil
}

// ReadFrame reads one complete frame, header included, from an io.Reader.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}

	length := int(prefix[0]) | int(prefix[1])<<8
	if length < HeaderSize {
		return nil, ErrMalformedLength
	}

	frame := make([]byte, length)
	copy(frame, prefix[:])
	if _, err := io.ReadFull(r, frame[2:]); err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if MessageID(frame[2]) == IDNetModule && length < ModuleHeaderSize {
		return nil, ErrMalformedLength
	}
	return frame, nil
}

// WriteFrame writes a complete frame to an io.Writer.
func WriteFrame(w io.Writer, frame []byte) error {
	if len(frame) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(frame)
	return err
}
