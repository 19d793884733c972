package dlc

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding"

	"github.com/sourcekris/kartdlc/pointer"
)

// TextSize is the capacity of every text field.
const TextSize = 128

// Text is a NUL-terminated text field. Bytes after the terminator are zero.
type Text [TextSize]byte

// Bytes returns the text up to its terminator.
func (t Text) Bytes() []byte {
	if i := bytes.IndexByte(t[:], 0); i >= 0 {
		return t[:i]
	}
	return t[:]
}

// String returns the raw bytes as a string with no transcoding.
func (t Text) String() string {
	return string(t.Bytes())
}

// Decode converts the text to UTF-8 with enc. A nil enc returns the raw
// bytes.
func (t Text) Decode(enc encoding.Encoding) (string, error) {
	if enc == nil {
		return t.String(), nil
	}
	out, err := enc.NewDecoder().Bytes(t.Bytes())
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(out), nil
}

// TextBlock holds the texts shown for an event in one language.
type TextBlock struct {
	Title       Text
	Type        Text
	Stage       Text
	Character   Text
	Description Text
}

// IsZero reports whether every field is empty.
func (b TextBlock) IsZero() bool {
	return b == TextBlock{}
}

func readText(rs io.ReadSeeker) (Text, error) {
	var t Text
	err := pointer.ReadCString(rs, t[:])
	return t, err
}

// ReadTextBlock reads five base-relative pointers to texts, in the order
// title, type, stage, character, description.
func ReadTextBlock(rs io.ReadSeeker, base uint32) (TextBlock, error) {
	var b TextBlock
	fields := []struct {
		name string
		dst  *Text
	}{
		{"title", &b.Title},
		{"type", &b.Type},
		{"stage", &b.Stage},
		{"character", &b.Character},
		{"description", &b.Description},
	}
	for _, f := range fields {
		t, err := pointer.BaseRelative(rs, base, readText)
		if err != nil {
			return TextBlock{}, fmt.Errorf("text %s: %w", f.name, err)
		}
		*f.dst = t
	}
	return b, nil
}
