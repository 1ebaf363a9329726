package protocol

// SmartText is a colored, width-limited chat line sent to clients.
//
//	[Color: Color][Text: NetworkText][MaxWidth: i16]
type SmartText struct {
	Color    Color
	text     *NetworkText
	MaxWidth int16
}

// NewSmartText returns a SmartText with the given text.
func NewSmartText(c Color, text *NetworkText, maxWidth int16) SmartText {
	m := SmartText{Color: c, MaxWidth: maxWidth}
	m.SetText(text)
	return m
}

func (*SmartText) ID() MessageID { return IDSmartText }

// Text returns the message text.
func (m *SmartText) Text() *NetworkText { return m.text }

// SetText replaces the text. It panics if t is nil.
func (m *SmartText) SetText(t *NetworkText) {
	if t == nil {
		panic("protocol: SmartText.SetText called with nil text")
	}
	m.text = t
}

func (m *SmartText) ReadBody(d *Decoder, _ Direction) error {
	c, err := d.ReadColor()
	if err != nil {
		return err
	}
	t, err := readText(d)
	if err != nil {
		return err
	}
	w, err := d.ReadInt16()
	if err != nil {
		return err
	}
	*m = SmartText{Color: c, text: t, MaxWidth: w}
	return nil
}

func (m *SmartText) WriteBody(e *Encoder, _ Direction) error {
	e.WriteColor(m.Color)
	writeText(e, m.text)
	e.WriteInt16(m.MaxWidth)
	return nil
}
