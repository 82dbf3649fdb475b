package decode_test

import (
	"errors"
	"testing"

	"github.com/davidvella/marc/decode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPolicy_Decode(t *testing.T) {
	tests := []struct {
		name     string
		handling decode.Handling
		input    []byte
		want     string
		wantErr  error
	}{
		{
			name:     "valid utf-8 is untouched in strict mode",
			handling: decode.Strict,
			input:    []byte("Caf\xc3\xa9"),
			want:     "Café",
		},
		{
			name:     "strict fails on invalid byte",
			handling: decode.Strict,
			input:    []byte("ab\xffcd"),
			wantErr:  decode.ErrInvalidUTF8,
		},
		{
			name:     "replace substitutes each invalid byte",
			handling: decode.Replace,
			input:    []byte("ab\xff\xfecd"),
			want:     "ab��cd",
		},
		{
			name:     "xmlcharrefreplace writes byte values",
			handling: decode.XMLCharRefReplace,
			input:    []byte("ab\xffcd"),
			want:     "ab&#255;cd",
		},
		{
			name:     "ignore drops invalid bytes",
			handling: decode.Ignore,
			input:    []byte("ab\xff\xfecd"),
			want:     "abcd",
		},
		{
			name:     "encoded replacement character is kept",
			handling: decode.Ignore,
			input:    []byte("a\xef\xbf\xbd\xffb"),
			want:     "a�b",
		},
		{
			name:     "truncated multi-byte sequence",
			handling: decode.Replace,
			input:    []byte("a\xe2\x82"),
			want:     "a\uFFFD",
		},
		{
			name:     "cut-off sequence before ascii is one replacement",
			handling: decode.Replace,
			input:    []byte("\xe2\x82A"),
			want:     "\uFFFDA",
		},
		{
			name:     "cut-off four byte sequence",
			handling: decode.Replace,
			input:    []byte("\xf0\x9f\x98A"),
			want:     "\uFFFDA",
		},
		{
			name:     "second byte out of range starts a new subpart",
			handling: decode.Replace,
			input:    []byte("\xe0\x80A"),
			want:     "\uFFFD\uFFFDA",
		},
		{
			name:     "surrogate lead is split",
			handling: decode.Replace,
			input:    []byte("\xed\xa0\x80"),
			want:     "\uFFFD\uFFFD\uFFFD",
		},
		{
			name:     "cut-off sequence keeps the following valid rune",
			handling: decode.Replace,
			input:    []byte("\xe2\x82\xc3\xa9"),
			want:     "\uFFFDé",
		},
		{
			name:     "ignore drops a cut-off sequence",
			handling: decode.Ignore,
			input:    []byte("\xe2\x82A"),
			want:     "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode.Policy{Handling: tt.handling}.Decode(tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_DecodeErrorPosition(t *testing.T) {
	_, err := decode.Policy{}.Decode([]byte("abc\x80"))

	var de *decode.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 3, de.Pos)
	assert.Equal(t, byte(0x80), de.Byte)
	assert.EqualError(t, err, "invalid utf-8 sequence at position 3 (0x80)")
}

func TestPolicy_HideWarningsDoesNotChangeOutcome(t *testing.T) {
	input := []byte("x\xffy")

	shown, errShown := decode.Policy{Handling: decode.Strict}.Decode(input)
	hidden, errHidden := decode.Policy{Handling: decode.Strict, HideWarnings: true}.Decode(input)

	assert.Equal(t, shown, hidden)
	assert.ErrorIs(t, errShown, decode.ErrInvalidUTF8)
	assert.ErrorIs(t, errHidden, decode.ErrInvalidUTF8)
}

func TestPolicy_EncodeASCII(t *testing.T) {
	tests := []struct {
		name     string
		handling decode.Handling
		input    string
		want     []byte
		wantErr  bool
	}{
		{
			name:     "ascii passes through",
			handling: decode.Strict,
			input:    "00026",
			want:     []byte("00026"),
		},
		{
			name:     "strict rejects non-ascii",
			handling: decode.Strict,
			input:    "é",
			wantErr:  true,
		},
		{
			name:     "replace uses question mark",
			handling: decode.Replace,
			input:    "aéb",
			want:     []byte("a?b"),
		},
		{
			name:     "xmlcharrefreplace uses code point",
			handling: decode.XMLCharRefReplace,
			input:    "aéb",
			want:     []byte("a&#233;b"),
		},
		{
			name:     "ignore drops",
			handling: decode.Ignore,
			input:    "aéb",
			want:     []byte("ab"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode.Policy{Handling: tt.handling}.EncodeASCII(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, decode.ErrNonASCII)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHandling(t *testing.T) {
	for _, h := range []decode.Handling{decode.Strict, decode.Replace, decode.XMLCharRefReplace, decode.Ignore} {
		got, err := decode.ParseHandling(h.String())
		assert.NoError(t, err)
		assert.Equal(t, h, got)
	}

	got, err := decode.ParseHandling("")
	assert.NoError(t, err)
	assert.Equal(t, decode.Strict, got)

	_, err = decode.ParseHandling("backslashreplace")
	assert.ErrorIs(t, err, decode.ErrUnknownHandling)
}

func TestHandling_YAML(t *testing.T) {
	var cfg struct {
		Mode decode.Handling `yaml:"mode"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("mode: xmlcharrefreplace\n"), &cfg))
	assert.Equal(t, decode.XMLCharRefReplace, cfg.Mode)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mode: xmlcharrefreplace\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("mode: bogus\n"), &cfg))
}
