package projectconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

const DefaultPath = ".procledger/config.yaml"

// Config pins the deployment-wide settings a persistent process store must agree
// on. Hash.Algorithm in particular must never change once a chain has been
// written: changing it invalidates every digest already on disk.
type Config struct {
	Store       StoreDefaults       `yaml:"store"`
	Hash        HashDefaults        `yaml:"hash"`
	Lock        LockDefaults        `yaml:"lock"`
	Attestation AttestationDefaults `yaml:"attestation"`
}

type StoreDefaults struct {
	Directory string `yaml:"directory"`
}

type HashDefaults struct {
	Algorithm string `yaml:"algorithm"`
}

type LockDefaults struct {
	Timeout    string `yaml:"timeout"`
	StaleAfter string `yaml:"stale_after"`
}

type AttestationDefaults struct {
	Enabled        bool   `yaml:"enabled"`
	KeyMode        string `yaml:"key_mode"`
	PrivateKeyPath string `yaml:"private_key_path"` // #nosec G117 -- config key name documents expected secret input.
	PrivateKeyEnv  string `yaml:"private_key_env"`
	PublicKeyPath  string `yaml:"public_key_path"`
	PublicKeyEnv   string `yaml:"public_key_env"`
}

func Load(path string, allowMissing bool) (Config, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return Config{}, fmt.Errorf("project config path is required")
	}

	// #nosec G304 -- project config path is explicit local user input.
	content, err := os.ReadFile(trimmedPath)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return defaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read project config: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return defaultConfig(), nil
	}

	configuration := defaultConfig()
	if err := yaml.Unmarshal(content, &configuration); err != nil {
		return Config{}, fmt.Errorf("parse project config: %w", err)
	}
	configuration.normalize()
	return configuration, nil
}

func defaultConfig() Config {
	return Config{
		Hash: HashDefaults{Algorithm: "sha256"},
		Lock: LockDefaults{Timeout: "2s", StaleAfter: "5m"},
	}
}

func (configuration *Config) normalize() {
	configuration.Store.Directory = strings.TrimSpace(configuration.Store.Directory)
	configuration.Hash.Algorithm = strings.ToLower(strings.TrimSpace(configuration.Hash.Algorithm))
	if configuration.Hash.Algorithm == "" {
		configuration.Hash.Algorithm = "sha256"
	}
	configuration.Lock.Timeout = strings.TrimSpace(configuration.Lock.Timeout)
	if configuration.Lock.Timeout == "" {
		configuration.Lock.Timeout = "2s"
	}
	configuration.Lock.StaleAfter = strings.TrimSpace(configuration.Lock.StaleAfter)
	if configuration.Lock.StaleAfter == "" {
		configuration.Lock.StaleAfter = "5m"
	}
	configuration.Attestation.KeyMode = strings.ToLower(strings.TrimSpace(configuration.Attestation.KeyMode))
	configuration.Attestation.PrivateKeyPath = strings.TrimSpace(configuration.Attestation.PrivateKeyPath)
	configuration.Attestation.PrivateKeyEnv = strings.TrimSpace(configuration.Attestation.PrivateKeyEnv)
	configuration.Attestation.PublicKeyPath = strings.TrimSpace(configuration.Attestation.PublicKeyPath)
	configuration.Attestation.PublicKeyEnv = strings.TrimSpace(configuration.Attestation.PublicKeyEnv)
}
