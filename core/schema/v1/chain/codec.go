package chain

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"

	"github.com/wardenhq/procledger/core/digest"
	"github.com/wardenhq/procledger/core/jcs"
	"github.com/wardenhq/procledger/core/schema/validate"
)

//go:embed composition_record.schema.json
var compositionSchemaDoc []byte

//go:embed reduction_record.schema.json
var reductionSchemaDoc []byte

var (
	compositionSchema *jsonschema.Schema
	reductionSchema   *jsonschema.Schema
)

func init() {
	var err error
	compositionSchema, err = validate.CompileSchema(compositionSchemaDoc)
	if err != nil {
		panic(fmt.Sprintf("compile composition_record schema: %v", err))
	}
	reductionSchema, err = validate.CompileSchema(reductionSchemaDoc)
	if err != nil {
		panic(fmt.Sprintf("compile reduction_record schema: %v", err))
	}
}

// EncodeComposition marshals a composition record to its canonical (RFC 8785)
// byte form and returns those bytes along with their digest, the record's hash.
func EncodeComposition(record CompositionRecord) (canonical []byte, hash string, err error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, "", fmt.Errorf("marshal composition record: %w", err)
	}
	canonical, err = jcs.CanonicalizeJSON(raw)
	if err != nil {
		return nil, "", fmt.Errorf("canonicalize composition record: %w", err)
	}
	return canonical, digest.Bytes(canonical), nil
}

// DecodeComposition schema-validates and parses canonical composition record
// bytes, returning the parsed record and its digest.
func DecodeComposition(canonical []byte) (record CompositionRecord, hash string, err error) {
	if verr := validate.ValidateCompiled(compositionSchema, canonical); verr != nil {
		return CompositionRecord{}, "", fmt.Errorf("composition record schema: %w", verr)
	}
	if err := json.Unmarshal(canonical, &record); err != nil {
		return CompositionRecord{}, "", fmt.Errorf("unmarshal composition record: %w", err)
	}
	return record, digest.Bytes(canonical), nil
}

// EncodeReduction marshals a reduction record to its canonical byte form and
// returns those bytes.
func EncodeReduction(record ReductionRecord) ([]byte, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal reduction record: %w", err)
	}
	canonical, err := jcs.CanonicalizeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize reduction record: %w", err)
	}
	return canonical, nil
}

// DecodeReduction schema-validates and parses canonical reduction record bytes.
func DecodeReduction(canonical []byte) (ReductionRecord, error) {
	var record ReductionRecord
	if err := validate.ValidateCompiled(reductionSchema, canonical); err != nil {
		return ReductionRecord{}, fmt.Errorf("reduction record schema: %w", err)
	}
	if err := json.Unmarshal(canonical, &record); err != nil {
		return ReductionRecord{}, fmt.Errorf("unmarshal reduction record: %w", err)
	}
	return record, nil
}
