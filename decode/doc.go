// Package decode holds the policy used to turn raw MARC bytes into text.
//
// A Policy names one of four handling modes for bytes that are not valid
// UTF-8:
//
//	strict             fail with *decode.Error
//	replace            substitute U+FFFD for every invalid byte
//	xmlcharrefreplace  substitute &#N; where N is the byte value
//	ignore             drop the invalid bytes
//
// The same modes govern EncodeASCII, which is used when a record stream is
// supplied as an in-memory string rather than a byte source.
//
// Basic usage:
//
//	p := decode.Policy{Handling: decode.Replace}
//	text, err := p.Decode(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
package decode
