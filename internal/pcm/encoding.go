package pcm

import (
	"fmt"
	"strings"
)

// Encoding identifies how raw sample bytes are laid out.
type Encoding int

const (
	Unknown Encoding = iota
	U8
	S8
	U16
	S16
	S32
	F32
)

var encodingNames = map[Encoding]string{
	U8:  "u8",
	S8:  "s8",
	U16: "u16",
	S16: "s16",
	S32: "s32",
	F32: "f32",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// Width returns the size of one sample in bytes, or 0 for unknown encodings.
func (e Encoding) Width() int {
	switch e {
	case U8, S8:
		return 1
	case U16, S16:
		return 2
	case S32, F32:
		return 4
	default:
		return 0
	}
}

// ParseEncoding accepts the short names used in configuration files.
func ParseEncoding(s string) (Encoding, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for enc, name := range encodingNames {
		if name == want {
			return enc, nil
		}
	}
	return Unknown, fmt.Errorf("unknown sample encoding %q", s)
}

// MarshalText lets encodings round-trip through JSON, TOML and YAML documents.
func (e Encoding) MarshalText() ([]byte, error) {
	if _, ok := encodingNames[e]; !ok {
		return nil, fmt.Errorf("unknown sample encoding %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *Encoding) UnmarshalText(b []byte) error {
	enc, err := ParseEncoding(string(b))
	if err != nil {
		return err
	}
	*e = enc
	return nil
}
