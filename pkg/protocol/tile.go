package protocol

// TileEditKind is the kind of world edit a TileModify performs.
type TileEditKind uint8

const (
	KillTile       TileEditKind = 0
	PlaceTile      TileEditKind = 1
	KillWall       TileEditKind = 2
	PlaceWall      TileEditKind = 3
	KillTileNoItem TileEditKind = 4
	PlaceWire      TileEditKind = 5
	KillWire       TileEditKind = 6
	PoundTile      TileEditKind = 7
	PlaceActuator  TileEditKind = 8
	KillActuator   TileEditKind = 9
	PlaceWire2     TileEditKind = 10
	KillWire2      TileEditKind = 11
	PlaceWire3     TileEditKind = 12
	KillWire3      TileEditKind = 13
	SlopeTile      TileEditKind = 14
	FrameTrack     TileEditKind = 15
	PlaceWire4     TileEditKind = 16
	KillWire4      TileEditKind = 17
	PokeLogicGate  TileEditKind = 18
	Actuate        TileEditKind = 19
	TryKillTile    TileEditKind = 20
	ReplaceTile    TileEditKind = 21
	ReplaceWall    TileEditKind = 22
	SlopePoundTile TileEditKind = 23
)

var tileEditNames = [...]string{
	"KillTile", "PlaceTile", "KillWall", "PlaceWall", "KillTileNoItem",
	"PlaceWire", "KillWire", "PoundTile", "PlaceActuator", "KillActuator",
	"PlaceWire2", "KillWire2", "PlaceWire3", "KillWire3", "SlopeTile",
	"FrameTrack", "PlaceWire4", "KillWire4", "PokeLogicGate", "Actuate",
	"TryKillTile", "ReplaceTile", "ReplaceWall", "SlopePoundTile",
}

// Valid reports whether k is a known edit kind.
func (k TileEditKind) Valid() bool {
	return int(k) < len(tileEditNames)
}

// String returns the string representation of the edit kind.
func (k TileEditKind) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return tileEditNames[k]
}

// TileModify edits a single tile.
//
//	[Kind: u8][X: i16][Y: i16][Style: i16][Extra: u8]
type TileModify struct {
	Kind  TileEditKind
	X, Y  int16
	Style int16
	Extra uint8
}

func (*TileModify) ID() MessageID { return IDTileModify }

func (m *TileModify) ReadBody(d *Decoder, _ Direction) error {
	kind, err := d.ReadUint8()
	if err != nil {
		return err
	}
	if !TileEditKind(kind).Valid() {
		return invalidDiscriminant("TileModify.Kind", uint64(kind))
	}
	var v TileModify
	v.Kind = TileEditKind(kind)
	if v.X, err = d.ReadInt16(); err != nil {
		return err
	}
	if v.Y, err = d.ReadInt16(); err != nil {
		return err
	}
	if v.Style, err = d.ReadInt16(); err != nil {
		return err
	}
	if v.Extra, err = d.ReadUint8(); err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *TileModify) WriteBody(e *Encoder, _ Direction) error {
	if !m.Kind.Valid() {
		return invalidDiscriminant("TileModify.Kind", uint64(m.Kind))
	}
	e.WriteUint8(uint8(m.Kind))
	e.WriteInt16(m.X)
	e.WriteInt16(m.Y)
	e.WriteInt16(m.Style)
	e.WriteUint8(m.Extra)
	return nil
}
