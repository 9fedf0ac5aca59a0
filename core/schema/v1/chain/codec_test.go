package chain

import (
	"testing"

	"github.com/wardenhq/procledger/core/digest"
)

func TestEncodeDecodeCompositionRoundTrip(t *testing.T) {
	record := CompositionRecord{ParentHash: digest.EmptyInit, AppendedEvents: []string{"a", "b"}}
	canonical, hash, err := EncodeComposition(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, decodedHash, err := DecodeComposition(canonical)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decodedHash != hash {
		t.Fatalf("hash mismatch: %s vs %s", decodedHash, hash)
	}
	if decoded.ParentHash != record.ParentHash || len(decoded.AppendedEvents) != 2 {
		t.Fatalf("unexpected decoded record: %#v", decoded)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	record := CompositionRecord{ParentHash: digest.EmptyInit, AppendedEvents: []string{"a"}}
	first, hash1, err := EncodeComposition(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, hash2, err := EncodeComposition(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(first) != string(second) || hash1 != hash2 {
		t.Fatalf("expected identical encoding for identical record")
	}
}

func TestEncodeOmitsAbsentFields(t *testing.T) {
	withEvents := CompositionRecord{ParentHash: digest.EmptyInit, AppendedEvents: []string{"a"}}
	state := "xyz"
	withState := CompositionRecord{ParentHash: digest.EmptyInit, SetState: &state}

	eventsBytes, eventsHash, err := EncodeComposition(withEvents)
	if err != nil {
		t.Fatalf("encode events: %v", err)
	}
	stateBytes, stateHash, err := EncodeComposition(withState)
	if err != nil {
		t.Fatalf("encode state: %v", err)
	}
	if eventsHash == stateHash {
		t.Fatalf("expected distinct digests for events-only vs state-only records")
	}
	if string(eventsBytes) == string(stateBytes) {
		t.Fatalf("expected distinct canonical bytes")
	}
}

func TestDecodeCompositionRejectsUnknownField(t *testing.T) {
	bad := []byte(`{"parent_hash":"` + digest.EmptyInit + `","unexpected_field":true}`)
	if _, _, err := DecodeComposition(bad); err == nil {
		t.Fatalf("expected schema validation failure for unexpected field")
	}
}

func TestDecodeCompositionRejectsBadHash(t *testing.T) {
	bad := []byte(`{"parent_hash":"not-hex"}`)
	if _, _, err := DecodeComposition(bad); err == nil {
		t.Fatalf("expected schema validation failure for malformed parent_hash")
	}
}

func TestEncodeDecodeReductionRoundTrip(t *testing.T) {
	record := ReductionRecord{ReducedCompositionHash: digest.Bytes([]byte("x")), ReducedValue: "ab"}
	canonical, err := EncodeReduction(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeReduction(canonical)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != record {
		t.Fatalf("round trip mismatch: %#v vs %#v", decoded, record)
	}
}
