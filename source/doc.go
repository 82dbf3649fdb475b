// Package source normalizes the inputs a MARC reader accepts into a single
// sequential byte cursor.
//
// The accepted shapes are resolved once, when the reader is constructed:
//
//	source.Buffered(br)   // *bufio.Reader used as-is
//	source.Stream(r)      // any io.Reader, buffered on top
//	source.Reopen(f)      // close f, then open f.Name() for reading
//	source.Path("x.mrc")  // open a file
//	source.Text(s)        // in-memory text, encoded to ASCII
//	source.Bytes(b)       // in-memory bytes
//
// The Source returned by Open owns any handle it opened and releases it on
// Close.
package source
