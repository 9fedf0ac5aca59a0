package store

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wardenhq/procledger/core/digest"
	"github.com/wardenhq/procledger/core/errors"
	"github.com/wardenhq/procledger/core/fsx"
)

// DefaultDirectory is the conventional store location for the procledger CLI.
const DefaultDirectory = ".procledger/store"

const (
	recordsFileName    = "records.jsonl"
	reductionsDirName  = "reductions"
	attestationDirName = "attestations"

	maxRecordsLineBytes = 16 * 1024 * 1024
)

// FSStore is a filesystem-backed Store. Composition records are appended, one
// canonical record per line, to a single records.jsonl log via
// fsx.AppendLineLocked, so append order is line order and reverse iteration
// is a matter of reading the file bottom to top. Each record's hash is its
// own content digest, recomputed on read rather than carried in a filename.
// Reduction and attestation records are each written one file per subject
// hash, under reductions/ and attestations/ respectively.
type FSStore struct {
	dir            string
	lockTimeout    time.Duration
	lockStaleAfter time.Duration
}

// Open prepares an FSStore rooted at dir using the append lock's package
// default timeout and staleness window, creating the reductions/ and
// attestations/ subdirectories if absent. The records log is created lazily
// on first append.
func Open(dir string) (*FSStore, error) {
	return OpenWithLockPolicy(dir, 0, 0)
}

// OpenWithLockPolicy prepares an FSStore the same way Open does, but with an
// explicit append-lock timeout and staleness window instead of the package
// defaults — the values a deployment's core/projectconfig Lock section
// resolves to. A zero duration for either falls back to fsx's own default.
func OpenWithLockPolicy(dir string, lockTimeout, lockStaleAfter time.Duration) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: directory must not be empty")
	}
	for _, sub := range []string{reductionsDirName, attestationDirName} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			return nil, errors.StoreIoError(fmt.Errorf("create %s directory: %w", sub, err))
		}
	}
	return &FSStore{dir: dir, lockTimeout: lockTimeout, lockStaleAfter: lockStaleAfter}, nil
}

func (s *FSStore) recordsPath() string     { return filepath.Join(s.dir, recordsFileName) }
func (s *FSStore) reductionsDir() string   { return filepath.Join(s.dir, reductionsDirName) }
func (s *FSStore) attestationsDir() string { return filepath.Join(s.dir, attestationDirName) }

// AppendComposition durably appends canonical to the records log via
// fsx.AppendLineLocked (or fsx.AppendLineLockedWithTimeout, when this store
// was opened with an explicit lock policy), which fsyncs the file and the
// log's directory before returning. hash is not trusted for storage — the
// reader recomputes it from canonical on the way back out — so callers
// cannot desynchronize the two by passing a mismatched hash; a wrong hash
// only ever affects the caller's own bookkeeping, never the store's.
func (s *FSStore) AppendComposition(ctx context.Context, hash string, canonical []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bytes.ContainsRune(canonical, '\n') {
		return errors.StoreIoError(fmt.Errorf("canonical composition record must not contain a newline"))
	}
	var err error
	if s.lockTimeout > 0 || s.lockStaleAfter > 0 {
		err = fsx.AppendLineLockedWithTimeout(s.recordsPath(), canonical, 0o640, s.lockTimeout, s.lockStaleAfter)
	} else {
		err = fsx.AppendLineLocked(s.recordsPath(), canonical, 0o640)
	}
	if err != nil {
		return errors.StoreIoError(fmt.Errorf("append composition record: %w", err))
	}
	return nil
}

func (s *FSStore) PutReduction(ctx context.Context, subjectHash string, canonical []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.reductionsDir(), subjectHash+".json")
	if err := fsx.WriteFileAtomic(path, canonical, 0o640); err != nil {
		return errors.StoreIoError(fmt.Errorf("write reduction record: %w", err))
	}
	return nil
}

func (s *FSStore) PutAttestation(ctx context.Context, subjectHash string, canonical []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.attestationsDir(), subjectHash+".json")
	if err := fsx.WriteFileAtomic(path, canonical, 0o640); err != nil {
		return errors.StoreIoError(fmt.Errorf("write attestation record: %w", err))
	}
	return nil
}

func (s *FSStore) Head(ctx context.Context) (string, bool, error) {
	lines, err := s.readLines()
	if err != nil {
		return "", false, errors.StoreIoError(err)
	}
	if len(lines) == 0 {
		return "", false, nil
	}
	return digest.Bytes(lines[len(lines)-1]), true, nil
}

func (s *FSStore) Records(ctx context.Context) (Iterator, error) {
	lines, err := s.readLines()
	if err != nil {
		return nil, errors.StoreIoError(err)
	}
	return &fsIterator{lines: lines, pos: len(lines)}, nil
}

func (s *FSStore) Reduction(ctx context.Context, subjectHash string) ([]byte, bool, error) {
	return s.readKeyedFile(s.reductionsDir(), subjectHash)
}

func (s *FSStore) Attestation(ctx context.Context, subjectHash string) ([]byte, bool, error) {
	return s.readKeyedFile(s.attestationsDir(), subjectHash)
}

func (s *FSStore) readKeyedFile(dir, subjectHash string) ([]byte, bool, error) {
	path := filepath.Join(dir, subjectHash+".json")
	data, err := os.ReadFile(path) // #nosec G304 -- path built from a hex hash under the store's own directory.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.StoreIoError(err)
	}
	return data, true, nil
}

// readLines reads the records log into memory, one entry per appended
// composition record. A store with no records yet (log file absent) reads as
// empty rather than an error.
func (s *FSStore) readLines() ([][]byte, error) {
	file, err := os.Open(s.recordsPath()) // #nosec G304 -- fixed filename under the store's own directory.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open records log: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines [][]byte
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordsLineBytes)
	for scanner.Scan() {
		lines = append(lines, append([]byte(nil), scanner.Bytes()...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read records log: %w", err)
	}
	return lines, nil
}

// fsIterator walks the in-memory lines newest-first.
type fsIterator struct {
	lines [][]byte
	pos   int
}

func (it *fsIterator) Next(ctx context.Context) (string, []byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, false, err
	}
	if it.pos <= 0 {
		return "", nil, false, nil
	}
	it.pos--
	line := it.lines[it.pos]
	return digest.Bytes(line), line, true, nil
}

func (it *fsIterator) Close() error {
	it.pos = 0
	return nil
}

var _ Store = (*FSStore)(nil)
