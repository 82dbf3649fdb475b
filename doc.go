// Package marc reads MARC21 records in transmission format from a stream.
//
// Every record begins with its own total length as five ASCII digits. The
// Reader uses that prefix, and nothing else, to find record boundaries: it
// reads the prefix, reads the remaining length-5 bytes, decodes the whole
// buffer to text under the configured decode.Policy and hands the text to a
// record.Builder.
//
// Basic usage:
//
//	r, err := marc.NewReader(source.Path("batch.mrc"),
//	    marc.WithUTF8Handling(decode.Replace))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for {
//	    rec, err := r.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if marc.IsRecoverable(err) {
//	        continue
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(rec.ControlNumber())
//	}
//
// Errors:
//   - io.EOF: the stream ended cleanly before a new record.
//   - ErrRecordLengthInvalid: the prefix was short or not numeric.
//   - ErrTruncatedRecord: the stream ended inside a record.
//   - *DecodeError: strict decoding failed; the next record can still be read.
//   - *ConstructionError: the builder rejected the text; the next record can
//     still be read.
//
// The two framing errors are sticky. Once one is returned the reader keeps
// returning it.
package marc
