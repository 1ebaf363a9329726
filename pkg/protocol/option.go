package protocol

// Option is an optional field value. A set Option contributes its field to
// the wire; an unset one contributes zero bytes.
type Option[T comparable] struct {
	v  T
	ok bool
}

// Some returns a set Option holding v.
func Some[T comparable](v T) Option[T] {
	return Option[T]{v: v, ok: true}
}

// Get returns the value and whether it is set.
func (o Option[T]) Get() (T, bool) {
	return o.v, o.ok
}

// Value returns the value, or the zero value when unset.
func (o Option[T]) Value() T {
	return o.v
}

// IsSet reports whether the option holds a value.
func (o Option[T]) IsSet() bool {
	return o.ok
}

// Set stores v.
func (o *Option[T]) Set(v T) {
	o.v, o.ok = v, true
}

// Clear unsets the option.
func (o *Option[T]) Clear() {
	var zero T
	o.v, o.ok = zero, false
}

// readOptional reads o with read if bit is set in f; otherwise o is left unset.
func readOptional[T comparable](d *Decoder, f Flags, bit uint8, o *Option[T], read func(*Decoder) (T, error)) error {
	if !f.Has(bit) {
		return nil
	}
	v, err := read(d)
	if err != nil {
		return err
	}
	o.Set(v)
	return nil
}

// writeOptional writes o with write if it is set.
func writeOptional[T comparable](e *Encoder, o Option[T], write func(*Encoder, T)) {
	if v, ok := o.Get(); ok {
		write(e, v)
	}
}
