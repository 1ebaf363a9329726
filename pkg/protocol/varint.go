package protocol

// MaxVarintLen is the maximum number of bytes a 7-bit encoded integer may occupy.
// Five bytes carry 35 payload bits, of which only the low 32 are usable.
const MaxVarintLen = 5

// EncodeVarint encodes v as a 7-bit varint into buf.
// Returns the number of bytes written.
// buf must have at least MaxVarintLen bytes available.
// 7 bits of data per byte, the high bit indicates continuation.
func EncodeVarint(buf []byte, v uint32) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// DecodeVarint decodes a 7-bit varint from buf.
// Returns (value, bytesRead). If bytesRead < 0, decoding failed:
//   - -1: buffer too short (incomplete varint)
//   - -2: varint overflow (more than 32 bits, or a sixth byte)
func DecodeVarint(buf []byte) (uint32, int) {
	var v uint32
	var shift uint

	for i, b := range buf {
		if i == MaxVarintLen-1 {
			// Last permitted byte: no continuation, and only 4 payload bits left.
			if b > 0x0F {
				return 0, -2
			}
			return v | uint32(b)<<shift, i + 1
		}
		v |= uint32(b&0x7F) << shift
		if b < 0x80 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, -1
}

// VarintLen returns the number of bytes needed to encode v as a varint.
func VarintLen(v uint32) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}
