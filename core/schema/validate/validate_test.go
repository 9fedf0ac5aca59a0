package validate

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("unable to locate test file")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", "..", ".."))
}

func schemaPath(t *testing.T, name string) string {
	return filepath.Join(repoRoot(t), "core", "schema", "v1", "chain", name)
}

func testdataPath(t *testing.T, name string) string {
	return filepath.Join(repoRoot(t), "core", "schema", "testdata", name)
}

func TestValidateJSONFile(t *testing.T) {
	schema := schemaPath(t, "composition_record.schema.json")
	if err := ValidateJSONFile(schema, testdataPath(t, "composition_record_valid.json")); err != nil {
		t.Fatalf("expected valid composition record, got: %v", err)
	}
	if err := ValidateJSONFile(schema, testdataPath(t, "composition_record_invalid.json")); err == nil {
		t.Fatalf("expected invalid composition record to fail")
	}
}

func TestValidateJSON(t *testing.T) {
	schema := schemaPath(t, "reduction_record.schema.json")
	valid, err := os.ReadFile(testdataPath(t, "reduction_record_valid.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := ValidateJSON(schema, valid); err != nil {
		t.Fatalf("expected valid reduction record, got: %v", err)
	}

	invalid, err := os.ReadFile(testdataPath(t, "reduction_record_invalid.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := ValidateJSON(schema, invalid); err == nil {
		t.Fatalf("expected invalid reduction record to fail")
	}
}

func TestValidateJSONLFile(t *testing.T) {
	schema := schemaPath(t, "composition_record.schema.json")
	if err := ValidateJSONLFile(schema, testdataPath(t, "composition_records_valid.jsonl")); err != nil {
		t.Fatalf("expected valid jsonl, got: %v", err)
	}
	if err := ValidateJSONLFile(schema, testdataPath(t, "composition_records_invalid.jsonl")); err == nil {
		t.Fatalf("expected invalid jsonl to fail")
	}
}

func TestValidateJSONL(t *testing.T) {
	schema := schemaPath(t, "composition_record.schema.json")
	data, err := os.ReadFile(testdataPath(t, "composition_records_valid.jsonl"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := ValidateJSONL(schema, data); err != nil {
		t.Fatalf("expected valid jsonl bytes, got: %v", err)
	}
}

func TestValidateSchemaMissing(t *testing.T) {
	if err := ValidateJSONFile(filepath.Join(repoRoot(t), "core", "schema", "v1", "chain", "does_not_exist.json"), testdataPath(t, "composition_record_valid.json")); err == nil {
		t.Fatalf("expected error for missing schema file")
	}
}

func TestValidateSchemaFixtures(t *testing.T) {
	compositionSchema := schemaPath(t, "composition_record.schema.json")
	reductionSchema := schemaPath(t, "reduction_record.schema.json")

	cases := []struct {
		name      string
		schema    string
		fixture   string
		expectErr bool
	}{
		{name: "composition valid", schema: compositionSchema, fixture: "composition_record_valid.json"},
		{name: "composition invalid", schema: compositionSchema, fixture: "composition_record_invalid.json", expectErr: true},
		{name: "reduction valid", schema: reductionSchema, fixture: "reduction_record_valid.json"},
		{name: "reduction invalid", schema: reductionSchema, fixture: "reduction_record_invalid.json", expectErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateJSONFile(tc.schema, testdataPath(t, tc.fixture))
			if tc.expectErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.expectErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
