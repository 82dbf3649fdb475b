// Package ingest loads framed MARC records into a store.Store.
package ingest
