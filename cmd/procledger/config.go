package main

import (
	"strings"
	"time"

	"github.com/wardenhq/procledger/core/attest"
	"github.com/wardenhq/procledger/core/procbind"
	"github.com/wardenhq/procledger/core/projectconfig"
	"github.com/wardenhq/procledger/core/store"
)

// loadProjectConfig reads the deployment config at path, or the package
// defaults if the file is absent — a missing config is normal for a fresh
// deployment that has not customized anything yet.
func loadProjectConfig(path string) (projectconfig.Config, error) {
	return projectconfig.Load(path, true)
}

// resolveStoreDirectory applies the same precedence the CLI has always
// documented: an explicit --dir flag wins, then the project config's
// store.directory, then the package default.
func resolveStoreDirectory(cliDir string, cfg projectconfig.Config) string {
	if strings.TrimSpace(cliDir) != "" {
		return cliDir
	}
	if strings.TrimSpace(cfg.Store.Directory) != "" {
		return cfg.Store.Directory
	}
	return store.DefaultDirectory
}

// resolveLockPolicy parses the config's lock timeouts, falling back to
// fsx's package defaults (via a zero duration) if either is unset or
// unparseable rather than failing the whole command over a lock knob.
func resolveLockPolicy(cfg projectconfig.Config) (timeout, staleAfter time.Duration) {
	if parsed, err := time.ParseDuration(cfg.Lock.Timeout); err == nil {
		timeout = parsed
	}
	if parsed, err := time.ParseDuration(cfg.Lock.StaleAfter); err == nil {
		staleAfter = parsed
	}
	return timeout, staleAfter
}

// openConfiguredStore opens the store directory resolved from cliDir and cfg,
// honoring the config's lock policy.
func openConfiguredStore(cliDir string, cfg projectconfig.Config) (*store.FSStore, error) {
	dir := resolveStoreDirectory(cliDir, cfg)
	timeout, staleAfter := resolveLockPolicy(cfg)
	return store.OpenWithLockPolicy(dir, timeout, staleAfter)
}

// buildAttestor constructs a procbind.Attestor from the config's attestation
// section when enabled, along with any non-fatal warnings from key loading
// (e.g. a dev-mode ephemeral key). A disabled or absent attestation section
// returns a nil Attestor, which leaves attestation off.
func buildAttestor(cfg projectconfig.Config) (procbind.Attestor, []string, error) {
	if !cfg.Attestation.Enabled {
		return nil, nil, nil
	}
	mode := attest.KeyMode(cfg.Attestation.KeyMode)
	if mode == "" {
		mode = attest.ModeProd
	}
	keyPair, warnings, err := attest.LoadSigningKey(attest.KeyConfig{
		Mode:           mode,
		PrivateKeyPath: cfg.Attestation.PrivateKeyPath,
		PrivateKeyEnv:  cfg.Attestation.PrivateKeyEnv,
		PublicKeyPath:  cfg.Attestation.PublicKeyPath,
		PublicKeyEnv:   cfg.Attestation.PublicKeyEnv,
	})
	if err != nil {
		return nil, nil, err
	}
	return procbind.KeySigner{Key: keyPair.Private}, warnings, nil
}
