package main

import (
	"context"
	"fmt"

	"github.com/wardenhq/procledger/core/procbind"
	"github.com/wardenhq/procledger/core/process"
	"github.com/wardenhq/procledger/core/projectconfig"
)

// openProcess opens the store resolved from dir and cfg and rehydrates a
// Process against it, using one of the reference stub adapters named by
// adapterKind. These adapters exist for demonstration and testing; a real
// deployment supplies its own process.Adapter wrapping the actual external
// process. When cfg enables attestation, the returned Process signs every
// reduction it snapshots; any non-fatal warnings from loading the signing
// key (e.g. a dev-mode ephemeral key) are returned alongside it.
func openProcess(ctx context.Context, dir, adapterKind string, cfg projectconfig.Config) (*procbind.Process, []string, error) {
	s, err := openConfiguredStore(dir, cfg)
	if err != nil {
		return nil, nil, err
	}

	var adapter process.Adapter
	switch adapterKind {
	case "", "concat":
		adapter = process.NewConcatAdapter("")
	case "echo":
		adapter = process.NewEchoAdapter("")
	default:
		return nil, nil, fmt.Errorf("unknown adapter kind: %s (expected concat or echo)", adapterKind)
	}

	proc, err := procbind.Open(ctx, s, adapter)
	if err != nil {
		return nil, nil, err
	}

	attestor, warnings, err := buildAttestor(cfg)
	if err != nil {
		_ = proc.Dispose()
		return nil, nil, err
	}
	if attestor != nil {
		proc.WithAttestor(attestor)
	}
	return proc, warnings, nil
}
