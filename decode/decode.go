package decode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidUTF8     = errors.New("invalid utf-8 sequence")
	ErrNonASCII        = errors.New("non-ascii character")
	ErrUnknownHandling = errors.New("unknown utf8 handling")
)

// Handling selects what happens to bytes that cannot be converted.
type Handling int

const (
	Strict Handling = iota
	Replace
	XMLCharRefReplace
	Ignore
)

func (h Handling) String() string {
	switch h {
	case Strict:
		return "strict"
	case Replace:
		return "replace"
	case XMLCharRefReplace:
		return "xmlcharrefreplace"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// ParseHandling maps a mode name to a Handling. The empty string is strict.
func ParseHandling(s string) (Handling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "replace":
		return Replace, nil
	case "xmlcharrefreplace":
		return XMLCharRefReplace, nil
	case "ignore":
		return Ignore, nil
	default:
		return Strict, fmt.Errorf("%w: %q", ErrUnknownHandling, s)
	}
}

func (h Handling) MarshalText() ([]byte, error) {
	if h < Strict || h > Ignore {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandling, int(h))
	}
	return []byte(h.String()), nil
}

func (h *Handling) UnmarshalText(b []byte) error {
	v, err := ParseHandling(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Error reports the position of the first byte or rune that could not be
// converted under the strict mode.
type Error struct {
	Pos  int
	Byte byte
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at position %d (0x%02x)", e.Err, e.Pos, e.Byte)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Policy is fixed when a reader is constructed.
type Policy struct {
	Handling Handling
	// HideWarnings suppresses diagnostics; it never changes the outcome.
	HideWarnings bool
}

// Decode converts b to text as UTF-8.
func (p Policy) Decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}

	var sb strings.Builder
	sb.Grow(len(b))

	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r != utf8.RuneError || size > 1 {
			sb.Write(b[i : i+size])
			i += size
			continue
		}

		switch p.Handling {
		case Replace:
			// One replacement per maximal invalid subpart.
			sb.WriteRune(utf8.RuneError)
			i += invalidPrefixLen(b[i:])
			continue
		case XMLCharRefReplace:
			writeCharRef(&sb, rune(b[i]))
		case Ignore:
		default:
			return "", &Error{Pos: i, Byte: b[i], Err: ErrInvalidUTF8}
		}
		i++
	}

	return sb.String(), nil
}

// invalidPrefixLen returns how many bytes at the start of b form the longest
// prefix of a well-formed UTF-8 sequence. b must not start with a complete
// valid sequence. The result is at least 1.
func invalidPrefixLen(b []byte) int {
	lo, hi := byte(0x80), byte(0xbf)
	var need int

	switch c := b[0]; {
	case c >= 0xc2 && c <= 0xdf:
		need = 2
	case c == 0xe0:
		need, lo = 3, 0xa0
	case c == 0xed:
		need, hi = 3, 0x9f
	case c >= 0xe1 && c <= 0xef:
		need = 3
	case c == 0xf0:
		need, lo = 4, 0x90
	case c == 0xf4:
		need, hi = 4, 0x8f
	case c >= 0xf1 && c <= 0xf3:
		need = 4
	default:
		return 1
	}

	n := 1
	for n < need && n < len(b) && b[n] >= lo && b[n] <= hi {
		n++
		lo, hi = 0x80, 0xbf
	}
	return n
}

// EncodeASCII converts an in-memory text payload to raw bytes.
func (p Policy) EncodeASCII(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))

	for i, r := range s {
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}

		switch p.Handling {
		case Replace:
			out = append(out, '?')
		case XMLCharRefReplace:
			out = append(out, "&#"...)
			out = strconv.AppendInt(out, int64(r), 10)
			out = append(out, ';')
		case Ignore:
		default:
			return nil, &Error{Pos: i, Byte: s[i], Err: ErrNonASCII}
		}
	}

	return out, nil
}

func writeCharRef(sb *strings.Builder, r rune) {
	sb.WriteString("&#")
	sb.WriteString(strconv.Itoa(int(r)))
	sb.WriteByte(';')
}
