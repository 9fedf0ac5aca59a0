package projectconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAllowMissing(t *testing.T) {
	workDir := t.TempDir()
	path := filepath.Join(workDir, "missing.yaml")

	configuration, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load allow missing: %v", err)
	}
	if configuration.Hash.Algorithm != "sha256" {
		t.Fatalf("expected default hash algorithm, got %q", configuration.Hash.Algorithm)
	}
	if configuration.Store.Directory != "" {
		t.Fatalf("expected empty store directory, got %q", configuration.Store.Directory)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	workDir := t.TempDir()
	path := filepath.Join(workDir, "missing.yaml")

	if _, err := Load(path, false); err == nil {
		t.Fatal("expected missing required config error")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	workDir := t.TempDir()
	path := filepath.Join(workDir, "config.yaml")
	content := []byte(`
store:
  directory: " ./data/chain "
hash:
  algorithm: " SHA256 "
lock:
  timeout: " 5s "
  stale_after: " 10m "
attestation:
  enabled: true
  key_mode: " PROD "
  private_key_path: " ./keys/priv.key "
  public_key_env: " PROCLEDGER_PUBLIC_KEY "
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	configuration, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load parse: %v", err)
	}
	if configuration.Store.Directory != "./data/chain" {
		t.Fatalf("unexpected store directory %q", configuration.Store.Directory)
	}
	if configuration.Hash.Algorithm != "sha256" {
		t.Fatalf("unexpected hash algorithm %q", configuration.Hash.Algorithm)
	}
	if configuration.Lock.Timeout != "5s" || configuration.Lock.StaleAfter != "10m" {
		t.Fatalf("unexpected lock defaults: %#v", configuration.Lock)
	}
	if !configuration.Attestation.Enabled {
		t.Fatalf("expected attestation enabled=true")
	}
	if configuration.Attestation.KeyMode != "prod" {
		t.Fatalf("unexpected key_mode %q", configuration.Attestation.KeyMode)
	}
	if configuration.Attestation.PrivateKeyPath != "./keys/priv.key" {
		t.Fatalf("unexpected private_key_path %q", configuration.Attestation.PrivateKeyPath)
	}
	if configuration.Attestation.PublicKeyEnv != "PROCLEDGER_PUBLIC_KEY" {
		t.Fatalf("unexpected public_key_env %q", configuration.Attestation.PublicKeyEnv)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	workDir := t.TempDir()
	path := filepath.Join(workDir, "config.yaml")
	if err := os.WriteFile(path, []byte("store: [\n"), 0o600); err != nil {
		t.Fatalf("write invalid config: %v", err)
	}

	if _, err := Load(path, false); err == nil {
		t.Fatal("expected parse error for invalid yaml")
	}
}
