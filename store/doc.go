// Package store defines the catalogue that decoded MARC records are loaded
// into. Entries are keyed by the record's control number (field 001).
// Implementations live in store/memory and store/pebble.
package store
