package protocol

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// TextMode selects how a NetworkText is interpreted by the receiver.
type TextMode uint8

const (
	TextLiteral   TextMode = 0 // Opaque string
	TextFormatted TextMode = 1 // Format string with substitutions
	TextLocalized TextMode = 2 // Localization key with substitutions
)

// String returns the string representation of the mode.
func (m TextMode) String() string {
	switch m {
	case TextLiteral:
		return "Literal"
	case TextFormatted:
		return "Formatted"
	case TextLocalized:
		return "Localized"
	default:
		return "Unknown"
	}
}

// maxSubstitutions is bounded by the u8 count on the wire.
const maxSubstitutions = 255

// NetworkText is rich text sent over the wire. It is immutable once built,
// so messages hold it by pointer and a pointer change is a value change.
//
// Wire format:
//
//	[Mode: u8][Text: string]
//	if Mode != Literal: [Count: u8][Substitution: NetworkText (Literal)]...
type NetworkText struct {
	mode TextMode
	text string
	subs []string
}

// Literal returns a literal text.
func Literal(s string) *NetworkText {
	return &NetworkText{mode: TextLiteral, text: s}
}

// Formatted returns a format string with literal substitutions.
func Formatted(format string, subs ...string) *NetworkText {
	return withSubs(TextFormatted, format, subs)
}

// Localized returns a localization key with literal substitutions.
func Localized(key string, subs ...string) *NetworkText {
	return withSubs(TextLocalized, key, subs)
}

func withSubs(mode TextMode, text string, subs []string) *NetworkText {
	if len(subs) > maxSubstitutions {
		panic("protocol: too many NetworkText substitutions")
	}
	return &NetworkText{mode: mode, text: text, subs: append([]string(nil), subs...)}
}

// Mode returns the text mode.
func (t *NetworkText) Mode() TextMode { return t.mode }

// Text returns the literal string, format string or key.
func (t *NetworkText) Text() string { return t.text }

// Substitutions returns a copy of the substitutions.
func (t *NetworkText) Substitutions() []string {
	return append([]string(nil), t.subs...)
}

// Equal reports structural equality: mode, text and substitutions in order.
// Two nil texts are equal.
func (t *NetworkText) Equal(o *NetworkText) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.mode != o.mode || t.text != o.text || len(t.subs) != len(o.subs) {
		return false
	}
	for i := range t.subs {
		if t.subs[i] != o.subs[i] {
			return false
		}
	}
	return true
}

// Hash returns a structural hash consistent with Equal.
func (t *NetworkText) Hash() uint64 {
	if t == nil {
		return 0
	}
	h := xxhash.New()
	var prefix [5]byte
	prefix[0] = byte(t.mode)
	_, _ = h.Write(prefix[:1])
	writeLen := func(s string) {
		n := uint32(len(s))
		prefix[1], prefix[2], prefix[3], prefix[4] = byte(n), byte(n>>8), byte(n>>16), byte(n>>24)
		_, _ = h.Write(prefix[1:])
		_, _ = h.WriteString(s)
	}
	writeLen(t.text)
	for _, s := range t.subs {
		writeLen(s)
	}
	return h.Sum64()
}

// String renders the text for logs. Formatted substitutions are applied
// as {0}, {1}, ... placeholders.
func (t *NetworkText) String() string {
	if t == nil {
		return ""
	}
	switch t.mode {
	case TextFormatted:
		s := t.text
		for i, sub := range t.subs {
			s = strings.ReplaceAll(s, "{"+strconv.Itoa(i)+"}", sub)
		}
		return s
	case TextLocalized:
		if len(t.subs) == 0 {
			return t.text
		}
		return t.text + "(" + strings.Join(t.subs, ", ") + ")"
	default:
		return t.text
	}
}

// writeText encodes t. A nil text encodes as an empty literal.
func writeText(e *Encoder, t *NetworkText) {
	if t == nil {
		t = Literal("")
	}
	e.WriteUint8(uint8(t.mode))
	e.WriteString(t.text)
	if t.mode == TextLiteral {
		return
	}
	e.WriteUint8(uint8(len(t.subs)))
	for _, s := range t.subs {
		e.WriteUint8(uint8(TextLiteral))
		e.WriteString(s)
	}
}

func readText(d *Decoder) (*NetworkText, error) {
	mode, err := d.ReadUint8()
	if err != nil {
		return nil, err
	}
	if TextMode(mode) > TextLocalized {
		return nil, invalidDiscriminant("NetworkText.Mode", uint64(mode))
	}
	text, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	t := &NetworkText{mode: TextMode(mode), text: text}
	if t.mode == TextLiteral {
		return t, nil
	}

	count, err := d.ReadUint8()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		t.subs = make([]string, 0, count)
	}
	for i := 0; i < int(count); i++ {
		sub, err := d.ReadUint8()
		if err != nil {
			return nil, err
		}
		if TextMode(sub) != TextLiteral {
			return nil, invalidDiscriminant("NetworkText.Substitution.Mode", uint64(sub))
		}
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		t.subs = append(t.subs, s)
	}
	return t, nil
}
