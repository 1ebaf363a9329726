package protocol

// TextModule carries chat. Its shape depends on the direction.
//
//	ToServer: [Command: string][Text: string]
//	ToClient: [Author: u8][Message: NetworkText][Color: Color]
//
// Fields of the other direction are ignored when writing and left at their
// zero values when reading.
type TextModule struct {
	Command string
	Text    string

	Author  uint8
	message *NetworkText
	Color   Color
}

// NewChatCommand returns a client chat message.
func NewChatCommand(command, text string) TextModule {
	return TextModule{Command: command, Text: text}
}

// NewChatBroadcast returns a server chat line.
func NewChatBroadcast(author uint8, msg *NetworkText, c Color) TextModule {
	m := TextModule{Author: author, Color: c}
	m.SetMessage(msg)
	return m
}

func (*TextModule) ID() MessageID    { return IDNetModule }
func (*TextModule) Module() ModuleID { return ModuleText }

// Message returns the broadcast text.
func (m *TextModule) Message() *NetworkText { return m.message }

// SetMessage replaces the broadcast text. It panics if t is nil.
func (m *TextModule) SetMessage(t *NetworkText) {
	if t == nil {
		panic("protocol: TextModule.SetMessage called with nil text")
	}
	m.message = t
}

func (m *TextModule) ReadBody(d *Decoder, dir Direction) error {
	var v TextModule
	if dir == ToServer {
		var err error
		if v.Command, err = d.ReadString(); err != nil {
			return err
		}
		if v.Text, err = d.ReadString(); err != nil {
			return err
		}
		*m = v
		return nil
	}

	author, err := d.ReadUint8()
	if err != nil {
		return err
	}
	t, err := readText(d)
	if err != nil {
		return err
	}
	c, err := d.ReadColor()
	if err != nil {
		return err
	}
	v.Author, v.message, v.Color = author, t, c
	*m = v
	return nil
}

func (m *TextModule) WriteBody(e *Encoder, dir Direction) error {
	if dir == ToServer {
		e.WriteString(m.Command)
		e.WriteString(m.Text)
		return nil
	}
	e.WriteUint8(m.Author)
	writeText(e, m.message)
	e.WriteColor(m.Color)
	return nil
}

// PingModule marks a map position for other players.
//
//	[Position: Vector2]
type PingModule struct {
	Position Vector2
}

func (*PingModule) ID() MessageID    { return IDNetModule }
func (*PingModule) Module() ModuleID { return ModulePing }

func (m *PingModule) ReadBody(d *Decoder, _ Direction) error {
	p, err := d.ReadVector2()
	if err != nil {
		return err
	}
	m.Position = p
	return nil
}

func (m *PingModule) WriteBody(e *Encoder, _ Direction) error {
	e.WriteVector2(m.Position)
	return nil
}
