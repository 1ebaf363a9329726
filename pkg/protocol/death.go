package protocol

// Flag bits of DeathReason.
const (
	deathKillerPlayer    = 0
	deathKillerNPC       = 1
	deathProjectileIndex = 2
	deathOtherKind       = 3
	deathProjectileType  = 4
	deathItemType        = 5
	deathItemPrefix      = 6

	deathCustomReason = 0 // secondary
)

// DeathReason describes what killed or hurt a player. It is embedded in
// PlayerHurt and PlayerDeath.
//
//	[Flags: u8 (+u8 when bit 7 is set)]
//	[KillerPlayer: i16][KillerNPC: i16][ProjectileIndex: i16][OtherKind: u8]
//	[ProjectileType: i16][ItemType: i16][ItemPrefix: u8][CustomReason: string]
//
// Fields are present only when set, in the order above.
type DeathReason struct {
	KillerPlayer    Option[int16]
	KillerNPC       Option[int16]
	ProjectileIndex Option[int16]
	OtherKind       Option[uint8]
	ProjectileType  Option[int16]
	ItemType        Option[int16]
	ItemPrefix      Option[uint8]
	CustomReason    Option[string]
}

// Flags computes the flag bytes from the fields that are set.
func (r *DeathReason) Flags() ChainedFlags {
	var f ChainedFlags
	f.SetPrimary(deathKillerPlayer, r.KillerPlayer.IsSet())
	f.SetPrimary(deathKillerNPC, r.KillerNPC.IsSet())
	f.SetPrimary(deathProjectileIndex, r.ProjectileIndex.IsSet())
	f.SetPrimary(deathOtherKind, r.OtherKind.IsSet())
	f.SetPrimary(deathProjectileType, r.ProjectileType.IsSet())
	f.SetPrimary(deathItemType, r.ItemType.IsSet())
	f.SetPrimary(deathItemPrefix, r.ItemPrefix.IsSet())
	f.SetSecondary(deathCustomReason, r.CustomReason.IsSet())
	return f
}

// Decode reads a DeathReason from d.
func (r *DeathReason) Decode(d *Decoder) error {
	f, err := DecodeChainedFlags(d)
	if err != nil {
		return err
	}
	var v DeathReason
	p := f.Primary
	if err := readOptional(d, p, deathKillerPlayer, &v.KillerPlayer, (*Decoder).ReadInt16); err != nil {
		return err
	}
	if err := readOptional(d, p, deathKillerNPC, &v.KillerNPC, (*Decoder).ReadInt16); err != nil {
		return err
	}
	if err := readOptional(d, p, deathProjectileIndex, &v.ProjectileIndex, (*Decoder).ReadInt16); err != nil {
		return err
	}
	if err := readOptional(d, p, deathOtherKind, &v.OtherKind, (*Decoder).ReadUint8); err != nil {
		return err
	}
	if err := readOptional(d, p, deathProjectileType, &v.ProjectileType, (*Decoder).ReadInt16); err != nil {
		return err
	}
	if err := readOptional(d, p, deathItemType, &v.ItemType, (*Decoder).ReadInt16); err != nil {
		return err
	}
	if err := readOptional(d, p, deathItemPrefix, &v.ItemPrefix, (*Decoder).ReadUint8); err != nil {
		return err
	}
	if err := readOptional(d, f.Secondary, deathCustomReason, &v.CustomReason, (*Decoder).ReadString); err != nil {
		return err
	}
	*r = v
	return nil
}

// Encode writes r to e.
func (r *DeathReason) Encode(e *Encoder) {
	r.Flags().Encode(e)
	writeOptional(e, r.KillerPlayer, (*Encoder).WriteInt16)
	writeOptional(e, r.KillerNPC, (*Encoder).WriteInt16)
	writeOptional(e, r.ProjectileIndex, (*Encoder).WriteInt16)
	writeOptional(e, r.OtherKind, (*Encoder).WriteUint8)
	writeOptional(e, r.ProjectileType, (*Encoder).WriteInt16)
	writeOptional(e, r.ItemType, (*Encoder).WriteInt16)
	writeOptional(e, r.ItemPrefix, (*Encoder).WriteUint8)
	writeOptional(e, r.CustomReason, (*Encoder).WriteString)
}

// PlayerHurt reports damage dealt to a player.
//
//	[PlayerIndex: u8][Reason: DeathReason][Damage: i16][HitDirection: u8]
//	[Flags: u8][Cooldown: i8]
type PlayerHurt struct {
	PlayerIndex  uint8
	Reason       DeathReason
	Damage       int16
	HitDirection uint8
	Flags        uint8
	Cooldown     int8
}

func (*PlayerHurt) ID() MessageID { return IDPlayerHurt }

func (m *PlayerHurt) ReadBody(d *Decoder, _ Direction) error {
	var (
		v   PlayerHurt
		err error
	)
	if v.PlayerIndex, err = d.ReadUint8(); err != nil {
		return err
	}
	if err = v.Reason.Decode(d); err != nil {
		return err
	}
	if v.Damage, err = d.ReadInt16(); err != nil {
		return err
	}
	if v.HitDirection, err = d.ReadUint8(); err != nil {
		return err
	}
	if v.Flags, err = d.ReadUint8(); err != nil {
		return err
	}
	if v.Cooldown, err = d.ReadInt8(); err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *PlayerHurt) WriteBody(e *Encoder, _ Direction) error {
	e.WriteUint8(m.PlayerIndex)
	m.Reason.Encode(e)
	e.WriteInt16(m.Damage)
	e.WriteUint8(m.HitDirection)
	e.WriteUint8(m.Flags)
	e.WriteInt8(m.Cooldown)
	return nil
}

// PlayerDeath reports a player's death.
//
//	[PlayerIndex: u8][Reason: DeathReason][Damage: i16][HitDirection: u8][Flags: u8]
type PlayerDeath struct {
	PlayerIndex  uint8
	Reason       DeathReason
	Damage       int16
	HitDirection uint8
	Flags        uint8
}

func (*PlayerDeath) ID() MessageID { return IDPlayerDeath }

func (m *PlayerDeath) ReadBody(d *Decoder, _ Direction) error {
	var (
		v   PlayerDeath
		err error
	)
	if v.PlayerIndex, err = d.ReadUint8(); err != nil {
		return err
	}
	if err = v.Reason.Decode(d); err != nil {
		return err
	}
	if v.Damage, err = d.ReadInt16(); err != nil {
		return err
	}
	if v.HitDirection, err = d.ReadUint8(); err != nil {
		return err
	}
	if v.Flags, err = d.ReadUint8(); err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *PlayerDeath) WriteBody(e *Encoder, _ Direction) error {
	e.WriteUint8(m.PlayerIndex)
	m.Reason.Encode(e)
	e.WriteInt16(m.Damage)
	e.WriteUint8(m.HitDirection)
	e.WriteUint8(m.Flags)
	return nil
}
