package protocol

// Flag bits of ProjectileUpdate.
const (
	projAI0            = 0
	projAI1            = 1
	projBanner         = 2
	projDamage         = 3
	projKnockback      = 4
	projOriginalDamage = 5
	projUUID           = 6

	projAI2 = 0 // secondary
)

// ProjectileUpdate syncs one projectile.
//
//	[Identity: i16][Position: Vector2][Velocity: Vector2][Owner: u8][Type: i16]
//	[Flags: u8 (+u8 when bit 7 is set)]
//	[AI0: f32][AI1: f32][Banner: u16][Damage: i16][Knockback: f32]
//	[OriginalDamage: i16][UUID: i16][AI2: f32]
//
// Optional fields are present only when set, in the order above.
type ProjectileUpdate struct {
	Identity int16
	Position Vector2
	Velocity Vector2
	Owner    uint8
	Type     int16

	AI0            Option[float32]
	AI1            Option[float32]
	Banner         Option[uint16]
	Damage         Option[int16]
	Knockback      Option[float32]
	OriginalDamage Option[int16]
	UUID           Option[int16]
	AI2            Option[float32]
}

func (*ProjectileUpdate) ID() MessageID { return IDProjectileUpdate }

// Flags computes the flag bytes from the fields that are set.
func (m *ProjectileUpdate) Flags() ChainedFlags {
	var f ChainedFlags
	f.SetPrimary(projAI0, m.AI0.IsSet())
	f.SetPrimary(projAI1, m.AI1.IsSet())
	f.SetPrimary(projBanner, m.Banner.IsSet())
	f.SetPrimary(projDamage, m.Damage.IsSet())
	f.SetPrimary(projKnockback, m.Knockback.IsSet())
	f.SetPrimary(projOriginalDamage, m.OriginalDamage.IsSet())
	f.SetPrimary(projUUID, m.UUID.IsSet())
	f.SetSecondary(projAI2, m.AI2.IsSet())
	return f
}

func (m *ProjectileUpdate) ReadBody(d *Decoder, _ Direction) error {
	var (
		v   ProjectileUpdate
		err error
	)
	if v.Identity, err = d.ReadInt16(); err != nil {
		return err
	}
	if v.Position, err = d.ReadVector2(); err != nil {
		return err
	}
	if v.Velocity, err = d.ReadVector2(); err != nil {
		return err
	}
	if v.Owner, err = d.ReadUint8(); err != nil {
		return err
	}
	if v.Type, err = d.ReadInt16(); err != nil {
		return err
	}

	f, err := DecodeChainedFlags(d)
	if err != nil {
		return err
	}
	p := f.Primary
	if err := readOptional(d, p, projAI0, &v.AI0, (*Decoder).ReadFloat32); err != nil {
		return err
	}
	if err := readOptional(d, p, projAI1, &v.AI1, (*Decoder).ReadFloat32); err != nil {
		return err
	}
	if err := readOptional(d, p, projBanner, &v.Banner, (*Decoder).ReadUint16); err != nil {
		return err
	}
	if err := readOptional(d, p, projDamage, &v.Damage, (*Decoder).ReadInt16); err != nil {
		return err
	}
	if err := readOptional(d, p, projKnockback, &v.Knockback, (*Decoder).ReadFloat32); err != nil {
		return err
	}
	if err := readOptional(d, p, projOriginalDamage, &v.OriginalDamage, (*Decoder).ReadInt16); err != nil {
		return err
	}
	if err := readOptional(d, p, projUUID, &v.UUID, (*Decoder).ReadInt16); err != nil {
		return err
	}
	if err := readOptional(d, f.Secondary, projAI2, &v.AI2, (*Decoder).ReadFloat32); err != nil {
		return err
	}

	*m = v
	return nil
}

func (m *ProjectileUpdate) WriteBody(e *Encoder, _ Direction) error {
	e.WriteInt16(m.Identity)
	e.WriteVector2(m.Position)
	e.WriteVector2(m.Velocity)
	e.WriteUint8(m.Owner)
	e.WriteInt16(m.Type)

	m.Flags().Encode(e)
	writeOptional(e, m.AI0, (*Encoder).WriteFloat32)
	writeOptional(e, m.AI1, (*Encoder).WriteFloat32)
	writeOptional(e, m.Banner, (*Encoder).WriteUint16)
	writeOptional(e, m.Damage, (*Encoder).WriteInt16)
	writeOptional(e, m.Knockback, (*Encoder).WriteFloat32)
	writeOptional(e, m.OriginalDamage, (*Encoder).WriteInt16)
	writeOptional(e, m.UUID, (*Encoder).WriteInt16)
	writeOptional(e, m.AI2, (*Encoder).WriteFloat32)
	return nil
}
