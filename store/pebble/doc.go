// Package pebble implements store.Store on top of a Pebble database.
//
//	s, err := pebble.NewStorage(pebble.DefaultStorageOptions("catalogue"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
package pebble
