// Package marctest assembles transmission-format MARC records for tests.
package marctest

import (
	"fmt"
	"strings"
)

type Field struct {
	Tag     string
	Content string
}

// Control returns a control field.
func Control(tag, data string) Field {
	return Field{Tag: tag, Content: data}
}

// Data returns a data field from indicators and code/value pairs.
func Data(tag, indicators string, codeValues ...string) Field {
	var sb strings.Builder
	sb.WriteString(indicators)
	for i := 0; i+1 < len(codeValues); i += 2 {
		sb.WriteString("\x1f")
		sb.WriteString(codeValues[i])
		sb.WriteString(codeValues[i+1])
	}
	return Field{Tag: tag, Content: sb.String()}
}

// Record encodes fields with a matching leader, directory and terminators.
func Record(fields ...Field) []byte {
	var (
		directory strings.Builder
		data      strings.Builder
	)

	for _, f := range fields {
		content := f.Content + "\x1e"
		fmt.Fprintf(&directory, "%s%04d%05d", f.Tag, len(content), data.Len())
		data.WriteString(content)
	}

	base := 24 + directory.Len() + 1
	total := base + data.Len() + 1
	leader := fmt.Sprintf("%05dnam a22%05d   4500", total, base)

	return []byte(leader + directory.String() + "\x1e" + data.String() + "\x1d")
}

// Minimal is a well-formed 30 byte record with no fields.
func Minimal() []byte {
	return []byte("00030nam a2200025   4500\x1eabcd\x1d")
}

// Join concatenates records into one stream.
func Join(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}
