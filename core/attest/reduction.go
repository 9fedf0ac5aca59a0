package attest

import (
	"crypto/ed25519"
	"fmt"

	"github.com/wardenhq/procledger/core/jcs"
)

// DigestJSON canonicalizes input per RFC 8785 and returns its sha256 hex digest.
func DigestJSON(input []byte) (string, error) {
	return jcs.DigestJCS(input)
}

// SignJSON signs the canonical digest of arbitrary JSON bytes.
func SignJSON(priv ed25519.PrivateKey, input []byte) (Signature, error) {
	digest, err := DigestJSON(input)
	if err != nil {
		return Signature{}, err
	}
	return SignDigestHex(priv, digest)
}

// VerifyJSON verifies a signature against the canonical digest of input, requiring
// sig.SignedDigest to match the freshly computed digest before checking the signature.
func VerifyJSON(pub ed25519.PublicKey, sig Signature, input []byte) (bool, error) {
	digest, err := DigestJSON(input)
	if err != nil {
		return false, err
	}
	if sig.SignedDigest == "" {
		return false, fmt.Errorf("missing signed_digest")
	}
	if sig.SignedDigest != digest {
		return false, fmt.Errorf("signed_digest mismatch")
	}
	return VerifyDigestHex(pub, sig)
}

// SignReductionRecordJSON produces a detached attestation over a reduction record's
// canonical bytes. Attestations are an audit enhancement; chain correctness never
// depends on one being present or valid.
func SignReductionRecordJSON(priv ed25519.PrivateKey, reductionJSON []byte) (Signature, error) {
	return SignJSON(priv, reductionJSON)
}

// VerifyReductionRecordJSON checks a reduction record attestation produced by
// SignReductionRecordJSON.
func VerifyReductionRecordJSON(pub ed25519.PublicKey, sig Signature, reductionJSON []byte) (bool, error) {
	return VerifyJSON(pub, sig, reductionJSON)
}
