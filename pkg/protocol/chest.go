package protocol

// ChestName requests (ToServer) or sets (ToClient) a chest's name.
//
//	[Chest: i16][X: i16][Y: i16]
//	ToClient only: [Name: string]
//
// A request carries no name; the field contributes zero bytes in that direction.
type ChestName struct {
	Chest int16
	X, Y  int16
	Name  string
}

func (*ChestName) ID() MessageID { return IDChestName }

func (m *ChestName) ReadBody(d *Decoder, dir Direction) error {
	var (
		v   ChestName
		err error
	)
	if v.Chest, err = d.ReadInt16(); err != nil {
		return err
	}
	if v.X, err = d.ReadInt16(); err != nil {
		return err
	}
	if v.Y, err = d.ReadInt16(); err != nil {
		return err
	}
	if dir == ToClient {
		if v.Name, err = d.ReadString(); err != nil {
			return err
		}
	}
	*m = v
	return nil
}

func (m *ChestName) WriteBody(e *Encoder, dir Direction) error {
	e.WriteInt16(m.Chest)
	e.WriteInt16(m.X)
	e.WriteInt16(m.Y)
	if dir == ToClient {
		e.WriteString(m.Name)
	}
	return nil
}
