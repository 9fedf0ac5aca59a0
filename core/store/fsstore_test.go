package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wardenhq/procledger/core/digest"
)

func mustOpen(t *testing.T) *FSStore {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestAppendAndHead(t *testing.T) {
	ctx := context.Background()
	s := mustOpen(t)

	if _, ok, err := s.Head(ctx); err != nil || ok {
		t.Fatalf("expected empty store head, got ok=%v err=%v", ok, err)
	}

	first := []byte(`{"parent_hash":"` + digest.EmptyInit + `"}`)
	firstHash := digest.Bytes(first)
	if err := s.AppendComposition(ctx, firstHash, first); err != nil {
		t.Fatalf("append first: %v", err)
	}

	second := []byte(`{"parent_hash":"` + firstHash + `","appended_events":["a"]}`)
	secondHash := digest.Bytes(second)
	if err := s.AppendComposition(ctx, secondHash, second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	head, ok, err := s.Head(ctx)
	if err != nil || !ok {
		t.Fatalf("expected head, got ok=%v err=%v", ok, err)
	}
	if head != secondHash {
		t.Fatalf("expected head %s, got %s", secondHash, head)
	}
}

func TestRecordsReverseIterationOrder(t *testing.T) {
	ctx := context.Background()
	s := mustOpen(t)

	var hashes []string
	var canonicals [][]byte
	parent := digest.EmptyInit
	for i := 0; i < 5; i++ {
		record := []byte(`{"parent_hash":"` + parent + `","set_state":"s` + string(rune('0'+i)) + `"}`)
		hash := digest.Bytes(record)
		if err := s.AppendComposition(ctx, hash, record); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		hashes = append(hashes, hash)
		canonicals = append(canonicals, record)
		parent = hash
	}

	it, err := s.Records(ctx)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	defer it.Close()

	for i := len(hashes) - 1; i >= 0; i-- {
		hash, data, ok, err := it.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			t.Fatalf("expected record at reverse index %d", i)
		}
		if hash != hashes[i] {
			t.Fatalf("expected hash %s at position, got %s", hashes[i], hash)
		}
		if string(data) != string(canonicals[i]) {
			t.Fatalf("unexpected canonical bytes at position %d", i)
		}
	}

	if _, _, ok, err := it.Next(ctx); err != nil || ok {
		t.Fatalf("expected exhausted iterator, got ok=%v err=%v", ok, err)
	}
}

func TestReductionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := mustOpen(t)

	subject := digest.Bytes([]byte("record"))
	if _, ok, err := s.Reduction(ctx, subject); err != nil || ok {
		t.Fatalf("expected no reduction yet, got ok=%v err=%v", ok, err)
	}

	reduction := []byte(`{"reduced_composition_hash":"` + subject + `","reduced_value":"v1"}`)
	if err := s.PutReduction(ctx, subject, reduction); err != nil {
		t.Fatalf("put reduction: %v", err)
	}

	data, ok, err := s.Reduction(ctx, subject)
	if err != nil || !ok {
		t.Fatalf("expected reduction, got ok=%v err=%v", ok, err)
	}
	if string(data) != string(reduction) {
		t.Fatalf("unexpected reduction bytes: %s", data)
	}

	updated := []byte(`{"reduced_composition_hash":"` + subject + `","reduced_value":"v2"}`)
	if err := s.PutReduction(ctx, subject, updated); err != nil {
		t.Fatalf("overwrite reduction: %v", err)
	}
	data, ok, err = s.Reduction(ctx, subject)
	if err != nil || !ok {
		t.Fatalf("expected updated reduction, got ok=%v err=%v", ok, err)
	}
	if string(data) != string(updated) {
		t.Fatalf("expected overwritten reduction, got %s", data)
	}
}

func TestAppendSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec1 := []byte(`{"parent_hash":"` + digest.EmptyInit + `"}`)
	if err := s1.AppendComposition(ctx, digest.Bytes(rec1), rec1); err != nil {
		t.Fatalf("append: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	rec2 := []byte(`{"parent_hash":"` + digest.Bytes(rec1) + `","appended_events":["x"]}`)
	if err := s2.AppendComposition(ctx, digest.Bytes(rec2), rec2); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "records.jsonl"))
	if err != nil {
		t.Fatalf("read records log: %v", err)
	}
	lines := bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines in records log, got %d", len(lines))
	}
	if string(lines[0]) != string(rec1) || string(lines[1]) != string(rec2) {
		t.Fatalf("unexpected records log contents: %s", data)
	}
}

func TestAppendRejectsCanonicalBytesContainingNewline(t *testing.T) {
	ctx := context.Background()
	s := mustOpen(t)
	bad := []byte("{\"parent_hash\":\"" + digest.EmptyInit + "\"}\nextra")
	if err := s.AppendComposition(ctx, digest.Bytes(bad), bad); err == nil {
		t.Fatalf("expected error appending a record containing a newline")
	}
}

func TestAttestationRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := mustOpen(t)

	subject := digest.Bytes([]byte("record"))
	if _, ok, err := s.Attestation(ctx, subject); err != nil || ok {
		t.Fatalf("expected no attestation yet, got ok=%v err=%v", ok, err)
	}

	attestation := []byte(`{"alg":"ed25519","key_id":"abc","sig":"deadbeef"}`)
	if err := s.PutAttestation(ctx, subject, attestation); err != nil {
		t.Fatalf("put attestation: %v", err)
	}

	data, ok, err := s.Attestation(ctx, subject)
	if err != nil || !ok {
		t.Fatalf("expected attestation, got ok=%v err=%v", ok, err)
	}
	if string(data) != string(attestation) {
		t.Fatalf("unexpected attestation bytes: %s", data)
	}
}

func TestOpenWithLockPolicyUsesConfiguredTimeout(t *testing.T) {
	ctx := context.Background()
	s, err := OpenWithLockPolicy(t.TempDir(), 50*time.Millisecond, time.Second)
	if err != nil {
		t.Fatalf("open with lock policy: %v", err)
	}
	rec := []byte(`{"parent_hash":"` + digest.EmptyInit + `"}`)
	if err := s.AppendComposition(ctx, digest.Bytes(rec), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	head, ok, err := s.Head(ctx)
	if err != nil || !ok {
		t.Fatalf("expected head, got ok=%v err=%v", ok, err)
	}
	if head != digest.Bytes(rec) {
		t.Fatalf("expected head %s, got %s", digest.Bytes(rec), head)
	}
}
