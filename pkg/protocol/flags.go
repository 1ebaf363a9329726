package protocol

// Flags is a bitset byte gating optional fields.
type Flags uint8

// Has reports whether bit is set.
func (f Flags) Has(bit uint8) bool {
	return f&(1<<bit) != 0
}

// Set sets or clears bit.
func (f *Flags) Set(bit uint8, on bool) {
	if on {
		*f |= 1 << bit
	} else {
		*f &^= 1 << bit
	}
}

// continueBit marks that a secondary flag byte follows the primary one.
const continueBit = 7

// ChainedFlags is a primary flag byte whose bit 7 gates a secondary byte.
// Bits 0-6 of the primary and all bits of the secondary gate one field each.
type ChainedFlags struct {
	Primary   Flags
	Secondary Flags
}

// SetPrimary sets bit (0-6) of the primary group.
func (c *ChainedFlags) SetPrimary(bit uint8, on bool) {
	if bit >= continueBit {
		panic("protocol: primary flag bit out of range")
	}
	c.Primary.Set(bit, on)
}

// SetSecondary sets bit of the secondary group.
func (c *ChainedFlags) SetSecondary(bit uint8, on bool) {
	c.Secondary.Set(bit, on)
}

// Chained reports whether the secondary byte is present on the wire.
func (c ChainedFlags) Chained() bool {
	return c.Secondary != 0
}

// Encode writes the primary byte and, only when a secondary field is
// present, the secondary byte. The continuation bit is derived, never stored.
func (c ChainedFlags) Encode(e *Encoder) {
	p := c.Primary
	p.Set(continueBit, c.Chained())
	e.WriteUint8(uint8(p))
	if c.Chained() {
		e.WriteUint8(uint8(c.Secondary))
	}
}

// Size returns the number of bytes Encode writes.
func (c ChainedFlags) Size() int {
	if c.Chained() {
		return 2
	}
	return 1
}

// DecodeChainedFlags reads the primary byte and, if its bit 7 is set, the
// secondary byte.
func DecodeChainedFlags(d *Decoder) (ChainedFlags, error) {
	p, err := d.ReadUint8()
	if err != nil {
		return ChainedFlags{}, err
	}
	c := ChainedFlags{Primary: Flags(p)}
	if !c.Primary.Has(continueBit) {
		return c, nil
	}
	c.Primary.Set(continueBit, false)
	s, err := d.ReadUint8()
	if err != nil {
		return ChainedFlags{}, err
	}
	c.Secondary = Flags(s)
	return c, nil
}
