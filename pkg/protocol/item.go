package protocol

// ItemOwner transfers ownership of a world item.
//
//	[ItemIndex: i16][OwnerIndex: u8]
type ItemOwner struct {
	ItemIndex  int16
	OwnerIndex uint8
}

func (*ItemOwner) ID() MessageID { return IDItemOwner }

func (m *ItemOwner) ReadBody(d *Decoder, _ Direction) error {
	idx, err := d.ReadInt16()
	if err != nil {
		return err
	}
	owner, err := d.ReadUint8()
	if err != nil {
		return err
	}
	m.ItemIndex, m.OwnerIndex = idx, owner
	return nil
}

func (m *ItemOwner) WriteBody(e *Encoder, _ Direction) error {
	e.WriteInt16(m.ItemIndex)
	e.WriteUint8(m.OwnerIndex)
	return nil
}
