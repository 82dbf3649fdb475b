// Package entryio implements the binary format used to persist store.Entry
// values, both as Pebble values and as the stream written by marc export.
// Each entry starts with magic bytes followed by length-prefixed fields.
// String lengths are bounded before allocation, so corrupt data yields
// ErrStringTooLong rather than a panic.
//
// Basic usage:
//
//	var buf bytes.Buffer
//	n, err := entryio.Write(&buf, entry)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for e, err := range entryio.Seq(&buf) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(e.ControlNumber)
//	}
//
//	// Calculate entry size
//	size := entryio.Size(entry)
package entryio
