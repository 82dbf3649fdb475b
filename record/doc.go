// Package record builds MARC21 records from the decoded text of one framed
// record.
//
// The reader never inspects records itself; it calls a Builder. The default
// builder, Parse, splits the text into the 24 character leader, the directory
// of 12 character entries, and the fields. Control fields (001 to 009) keep
// their raw data; data fields carry two indicators and subfields.
//
//	rec, err := record.Parse(text, false, decode.Strict)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rec.ControlNumber(), rec.Title())
package record
