package protocol

// ConnectRequest is the first message a client sends.
//
//	[Version: string]
type ConnectRequest struct {
	Version string
}

func (*ConnectRequest) ID() MessageID { return IDConnectRequest }

func (m *ConnectRequest) ReadBody(d *Decoder, _ Direction) error {
	v, err := d.ReadString()
	if err != nil {
		return err
	}
	m.Version = v
	return nil
}

func (m *ConnectRequest) WriteBody(e *Encoder, _ Direction) error {
	e.WriteString(m.Version)
	return nil
}

// Disconnect tells the client why it is being dropped.
//
//	[Reason: NetworkText]
type Disconnect struct {
	reason *NetworkText
}

// NewDisconnect returns a Disconnect carrying reason.
func NewDisconnect(reason *NetworkText) Disconnect {
	var m Disconnect
	m.SetReason(reason)
	return m
}

func (*Disconnect) ID() MessageID { return IDDisconnect }

// Reason returns the disconnect reason.
func (m *Disconnect) Reason() *NetworkText { return m.reason }

// SetReason replaces the reason. It panics if t is nil.
func (m *Disconnect) SetReason(t *NetworkText) {
	if t == nil {
		panic("protocol: Disconnect.SetReason called with nil text")
	}
	m.reason = t
}

func (m *Disconnect) ReadBody(d *Decoder, _ Direction) error {
	t, err := readText(d)
	if err != nil {
		return err
	}
	m.reason = t
	return nil
}

func (m *Disconnect) WriteBody(e *Encoder, _ Direction) error {
	writeText(e, m.reason)
	return nil
}

// PlayerSlot assigns the client its player index.
//
//	[PlayerIndex: u8]
type PlayerSlot struct {
	PlayerIndex uint8
}

func (*PlayerSlot) ID() MessageID { return IDPlayerSlot }

func (m *PlayerSlot) ReadBody(d *Decoder, _ Direction) error {
	v, err := d.ReadUint8()
	if err != nil {
		return err
	}
	m.PlayerIndex = v
	return nil
}

func (m *PlayerSlot) WriteBody(e *Encoder, _ Direction) error {
	e.WriteUint8(m.PlayerIndex)
	return nil
}
