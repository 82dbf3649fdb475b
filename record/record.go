package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/davidvella/marc/decode"
)

const (
	LeaderLength      = 24
	DirectoryEntry    = 12
	FieldTerminator   = "\x1e"
	EndOfRecord       = "\x1d"
	SubfieldIndicator = "\x1f"
)

var ErrMalformedRecord = errors.New("malformed record")

// Builder constructs a Record from the decoded text of one framed record.
type Builder interface {
	Build(text string, hideWarnings bool, handling decode.Handling) (*Record, error)
}

// BuilderFunc is a function type that implements Builder.
type BuilderFunc func(text string, hideWarnings bool, handling decode.Handling) (*Record, error)

// Build calls the function.
func (f BuilderFunc) Build(text string, hideWarnings bool, handling decode.Handling) (*Record, error) {
	return f(text, hideWarnings, handling)
}

// DefaultBuilder parses the leader, directory and fields.
var DefaultBuilder Builder = BuilderFunc(Parse)

type Subfield struct {
	Code  string
	Value string
}

type Field struct {
	Tag        string
	Indicators [2]string
	Subfields  []Subfield
	// Data holds the content of control fields (tags below 010).
	Data string
}

func (f Field) IsControl() bool {
	return f.Tag < "010" && strings.TrimLeft(f.Tag, "0123456789") == ""
}

// Value returns the first subfield with the given code.
func (f Field) Value(code string) string {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return sf.Value
		}
	}
	return ""
}

type Record struct {
	Leader string
	Fields []Field

	// Offset and Length locate the framed bytes within the source. They are
	// set by the reader.
	Offset int64
	Length int

	HideWarnings bool
	Handling     decode.Handling

	text string
}

// Text returns the decoded text the record was built from.
func (r *Record) Text() string {
	return r.text
}

func (r *Record) Get(tag string) []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Tag == tag {
			out = append(out, f)
		}
	}
	return out
}

// Value returns the data of the first matching field. For control fields
// code is ignored.
func (r *Record) Value(tag, code string) string {
	for _, f := range r.Fields {
		if f.Tag != tag {
			continue
		}
		if f.IsControl() {
			return f.Data
		}
		return f.Value(code)
	}
	return ""
}

func (r *Record) ControlNumber() string {
	return strings.TrimSpace(r.Value("001", ""))
}

func (r *Record) Title() string {
	return strings.TrimSpace(r.Value("245", "a"))
}

// Parse is the default Builder.
func Parse(text string, hideWarnings bool, handling decode.Handling) (*Record, error) {
	if len(text) < LeaderLength {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the leader", ErrMalformedRecord, len(text))
	}

	leader := text[:LeaderLength]
	base, err := strconv.Atoi(leader[12:17])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base address %q", ErrMalformedRecord, leader[12:17])
	}
	if base <= LeaderLength || base > len(text) {
		return nil, fmt.Errorf("%w: base address %d out of range", ErrMalformedRecord, base)
	}

	directory := strings.TrimSuffix(text[LeaderLength:base], FieldTerminator)
	if len(directory)%DirectoryEntry != 0 {
		return nil, fmt.Errorf("%w: directory length %d", ErrMalformedRecord, len(directory))
	}

	// Fields are recovered by terminator rather than by the directory's byte
	// offsets, which no longer line up once lossy handling has rewritten bytes.
	data := strings.TrimSuffix(text[base:], EndOfRecord)
	chunks := strings.Split(data, FieldTerminator)

	entries := len(directory) / DirectoryEntry
	if entries > len(chunks) {
		return nil, fmt.Errorf("%w: directory lists %d fields, found %d", ErrMalformedRecord, entries, len(chunks))
	}

	r := &Record{
		Leader:       leader,
		Fields:       make([]Field, 0, entries),
		Length:       len(text),
		HideWarnings: hideWarnings,
		Handling:     handling,
		text:         text,
	}

	for i := 0; i < entries; i++ {
		tag := directory[i*DirectoryEntry : i*DirectoryEntry+3]
		r.Fields = append(r.Fields, parseField(tag, chunks[i]))
	}

	return r, nil
}

func parseField(tag, chunk string) Field {
	f := Field{Tag: tag}
	if f.IsControl() {
		f.Data = chunk
		return f
	}

	parts := strings.Split(chunk, SubfieldIndicator)
	ind := parts[0]
	if len(ind) > 0 {
		f.Indicators[0] = ind[:1]
	}
	if len(ind) > 1 {
		f.Indicators[1] = ind[1:2]
	}

	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		_, n := utf8.DecodeRuneInString(p)
		f.Subfields = append(f.Subfields, Subfield{Code: p[:n], Value: p[n:]})
	}

	return f
}
