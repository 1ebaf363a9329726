package protocol

// Raw is the opaque fallback for frames whose id (or module) has no
// registered type. The body is kept verbatim so the frame can be forwarded
// unchanged.
type Raw struct {
	id       MessageID
	module   ModuleID
	body     string
	captured bool
}

// NewRaw returns a Raw holding a copy of body.
func NewRaw(id MessageID, module ModuleID, body []byte) Raw {
	return Raw{id: id, module: module, body: string(body), captured: true}
}

func (r *Raw) ID() MessageID    { return r.id }
func (r *Raw) Module() ModuleID { return r.module }

// Body returns the captured body bytes.
func (r *Raw) Body() []byte { return []byte(r.body) }

// Captured reports whether the body was ever captured.
func (r *Raw) Captured() bool { return r.captured }

// SetBody replaces the body.
func (r *Raw) SetBody(body []byte) {
	r.body = string(body)
	r.captured = true
}

func (r *Raw) ReadBody(d *Decoder, _ Direction) error {
	r.body = string(d.ReadRest())
	r.captured = true
	return nil
}

func (r *Raw) WriteBody(e *Encoder, _ Direction) error {
	if !r.captured {
		return ErrNotCaptured
	}
	e.WriteRaw(r.body)
	return nil
}
