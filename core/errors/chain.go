package errors

import stderrors "errors"

// ErrDisposed is returned by every public operation once an engine has been disposed.
var ErrDisposed = stderrors.New("engine disposed")

// ChainIncomplete reports that rehydration exhausted the store's history without
// finding a reduction or genesis record reachable from head.
func ChainIncomplete(head string) error {
	return Wrap(
		stderrors.New("chain incomplete: no reduction or genesis reachable from head "+head),
		CategoryChainIncomplete,
		"chain_incomplete",
		"store is missing a reduction or genesis reachable from the current head",
		false,
	)
}

// RecordDecodeError wraps a failure to parse or schema-validate a stored record.
func RecordDecodeError(cause error) error {
	return Wrap(
		cause,
		CategoryRecordDecode,
		"record_decode_failed",
		"stored bytes do not parse as a canonical composition or reduction record",
		false,
	)
}

// StoreIoError wraps an underlying storage failure (append, read, enumerate).
func StoreIoError(cause error) error {
	return Wrap(
		cause,
		CategoryIOFailure,
		"store_io_failed",
		"check store directory permissions and disk space",
		true,
	)
}

// ProcessError wraps a rejection raised by the opaque process adapter.
func ProcessError(cause error) error {
	return Wrap(
		cause,
		CategoryProcessRejected,
		"process_rejected",
		"the adapter refused the event or state; engine should be considered poisoned",
		false,
	)
}

// Disposed reports that an operation was attempted on a disposed engine.
func Disposed() error {
	return Wrap(
		ErrDisposed,
		CategoryDisposed,
		"disposed",
		"engine has been disposed; construct a new one to resume",
		false,
	)
}
