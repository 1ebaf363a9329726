package protocol

// MaxBuffs is the number of buff slots a player has.
const MaxBuffs = 44

// PlayerBuffs lists a player's active buff ids.
//
//	[PlayerIndex: u8][BuffID: u16]...[0: u16]
//
// The list is terminated by a zero id, or ends after MaxBuffs entries.
//
// The buff list lives outside the struct's byte image, so copies of a
// PlayerBuffs share it. The setters never write to a shared list: they
// install a new one and mark the message dirty.
type PlayerBuffs struct {
	PlayerIndex uint8

	buffs *[]uint16
	dirty bool
}

// NewPlayerBuffs returns a PlayerBuffs holding a copy of ids.
func NewPlayerBuffs(player uint8, ids ...uint16) PlayerBuffs {
	m := PlayerBuffs{PlayerIndex: player}
	m.setList(ids)
	return m
}

func (*PlayerBuffs) ID() MessageID { return IDPlayerBuffs }

// Buffs returns a copy of the buff ids.
func (m *PlayerBuffs) Buffs() []uint16 {
	if m.buffs == nil {
		return nil
	}
	return append([]uint16(nil), *m.buffs...)
}

// Len returns the number of buffs.
func (m *PlayerBuffs) Len() int {
	if m.buffs == nil {
		return 0
	}
	return len(*m.buffs)
}

// SetBuffs replaces the buff list and marks the message dirty.
// Zero ids are dropped and the list is truncated to MaxBuffs.
func (m *PlayerBuffs) SetBuffs(ids []uint16) {
	m.setList(ids)
	m.dirty = true
}

// AddBuff appends id and reports whether there was room.
func (m *PlayerBuffs) AddBuff(id uint16) bool {
	if id == 0 || m.Len() >= MaxBuffs {
		return false
	}
	list := make([]uint16, 0, m.Len()+1)
	if m.buffs != nil {
		list = append(list, *m.buffs...)
	}
	list = append(list, id)
	m.buffs = &list
	m.dirty = true
	return true
}

// RemoveBuff removes every occurrence of id and reports whether any was found.
func (m *PlayerBuffs) RemoveBuff(id uint16) bool {
	if m.buffs == nil {
		return false
	}
	list := make([]uint16, 0, len(*m.buffs))
	for _, b := range *m.buffs {
		if b != id {
			list = append(list, b)
		}
	}
	if len(list) == len(*m.buffs) {
		return false
	}
	m.buffs = &list
	m.dirty = true
	return true
}

func (m *PlayerBuffs) Dirty() bool { return m.dirty }
func (m *PlayerBuffs) ClearDirty() { m.dirty = false }

func (m *PlayerBuffs) setList(ids []uint16) {
	list := make([]uint16, 0, len(ids))
	for _, id := range ids {
		if id != 0 && len(list) < MaxBuffs {
			list = append(list, id)
		}
	}
	m.buffs = &list
}

func (m *PlayerBuffs) ReadBody(d *Decoder, _ Direction) error {
	player, err := d.ReadUint8()
	if err != nil {
		return err
	}
	list := make([]uint16, 0, 8)
	for len(list) < MaxBuffs {
		id, err := d.ReadUint16()
		if err != nil {
			return err
		}
		if id == 0 {
			break
		}
		list = append(list, id)
	}
	*m = PlayerBuffs{PlayerIndex: player, buffs: &list}
	return nil
}

func (m *PlayerBuffs) WriteBody(e *Encoder, _ Direction) error {
	e.WriteUint8(m.PlayerIndex)
	if m.buffs != nil {
		for _, id := range *m.buffs {
			e.WriteUint16(id)
		}
	}
	if m.Len() < MaxBuffs {
		e.WriteUint16(0)
	}
	return nil
}
