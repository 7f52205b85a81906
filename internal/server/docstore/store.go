// Package docstore implements whole-document access to the two singleton
// records the server persists: the emission ledger and the user list.
// There is no field-level update; every mutation is a whole-record read,
// in-memory modify, whole-record write.
package docstore

import "context"

// Keys of the singleton records.
const (
	KeyEmissions = "emissions"
	KeyUsers     = "users"
)

// Document is one persisted record. Revision is the optimistic-lock stamp:
// Get returns the current revision and Put succeeds only while the stored
// revision still matches, so a concurrent writer cannot silently discard
// another writer's change.
type Document struct {
	Key      string
	Revision int64
	Body     []byte
}

// Store is the document store contract.
//
// A missing record is an expected, recoverable condition (the record has not
// been created yet), reported as common.ErrorNotFound. Real I/O failures are
// wrapped in common.ErrorStorage.
type Store interface {
	// Get returns the current document for key, or common.ErrorNotFound if
	// the record has never been written.
	Get(ctx context.Context, key string) (*Document, error)

	// Put writes doc.Body under doc.Key. doc.Revision must carry the revision
	// observed by Get (zero for a record that does not exist yet). A stale
	// revision yields common.ErrorRevisionConflict and the caller is expected
	// to re-read and retry.
	Put(ctx context.Context, doc *Document) error
}
