// Package store provides the durable, append-only byte-stream backing for
// composition records, plus a keyed side-table for reduction records. It
// never decodes record contents; callers hand it opaque bytes and a hash.
package store

import "context"

// Writer appends composition record bytes durably, and separately stores
// reduction record bytes under a stable key. Both operations must be
// crash-safe: a process killed mid-write must never leave a corrupt file
// visible to a subsequent Reader.
type Writer interface {
	// AppendComposition durably appends one composition record's canonical
	// bytes, keyed by its content hash. Ordering across calls is the append
	// order; a later Reader.Records call must reverse-iterate in exactly
	// this order.
	AppendComposition(ctx context.Context, hash string, canonical []byte) error
	// PutReduction durably stores a reduction record's canonical bytes
	// under its subject hash, overwriting any prior reduction for that hash.
	PutReduction(ctx context.Context, subjectHash string, canonical []byte) error
	// PutAttestation durably stores a detached attestation signature over a
	// reduction record's canonical bytes, keyed by the same subject hash the
	// reduction is keyed by. Only called when a deployment has attestation
	// configured; a Store need not treat its absence as an error condition.
	PutAttestation(ctx context.Context, subjectHash string, canonical []byte) error
}

// Reader exposes reverse iteration over appended composition records, plus
// keyed reduction lookup.
type Reader interface {
	// Head returns the hash of the most recently appended composition
	// record, or ok=false if the store is empty.
	Head(ctx context.Context) (hash string, ok bool, err error)
	// Records returns an Iterator that walks composition records from most
	// recently appended to oldest.
	Records(ctx context.Context) (Iterator, error)
	// Reduction returns the canonical bytes of the reduction record stored
	// under subjectHash, or ok=false if none exists.
	Reduction(ctx context.Context, subjectHash string) (canonical []byte, ok bool, err error)
	// Attestation returns the canonical bytes of the attestation signature
	// stored under subjectHash, or ok=false if none exists (attestation was
	// never configured, or signing failed and nothing was persisted).
	Attestation(ctx context.Context, subjectHash string) (canonical []byte, ok bool, err error)
}

// Iterator walks composition records newest-first. Callers must call Close
// when done, even after an error or early exit.
type Iterator interface {
	// Next advances the iterator and reports whether a record is available.
	Next(ctx context.Context) (hash string, canonical []byte, ok bool, err error)
	Close() error
}

// Store combines Writer and Reader over one durable backing.
type Store interface {
	Writer
	Reader
}
