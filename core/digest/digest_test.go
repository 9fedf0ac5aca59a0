package digest

import "testing"

func TestEmptyInitIsStable(t *testing.T) {
	if EmptyInit != Bytes(nil) {
		t.Fatalf("EmptyInit drifted from Bytes(nil)")
	}
	if EmptyInit != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("unexpected empty digest: %s", EmptyInit)
	}
}

func TestBytesDeterministic(t *testing.T) {
	a := Bytes([]byte("hello"))
	b := Bytes([]byte("hello"))
	if a != b {
		t.Fatalf("expected deterministic digest, got %s vs %s", a, b)
	}
	if a == Bytes([]byte("hellO")) {
		t.Fatalf("expected different input to produce different digest")
	}
}
