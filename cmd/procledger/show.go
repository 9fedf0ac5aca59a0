package main

import (
	"context"
	"flag"

	"github.com/wardenhq/procledger/core/attest"
	"github.com/wardenhq/procledger/core/projectconfig"
	"github.com/wardenhq/procledger/core/schema/v1/chain"
)

type showOutput struct {
	OK             bool     `json:"ok"`
	Head           string   `json:"head,omitempty"`
	State          string   `json:"state,omitempty"`
	SnapshotStored bool     `json:"snapshot_stored,omitempty"`
	Attested       bool     `json:"attested,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	Error          string   `json:"error,omitempty"`
}

func runShow(ctx context.Context, arguments []string) int {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	dir := flags.String("dir", "", "store directory (defaults to the project config's store.directory, then a package default)")
	adapterKind := flags.String("adapter", "concat", "reference adapter to drive: concat or echo")
	snapshot := flags.Bool("snapshot", false, "force a fresh reduction write for the current head (mutations already snapshot automatically; this is for re-deriving one out of band)")
	configPath := flags.String("config", projectconfig.DefaultPath, "project config path")
	if err := flags.Parse(arguments); err != nil {
		return writeJSONOutput(showOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	cfg, err := loadProjectConfig(*configPath)
	if err != nil {
		return writeJSONOutput(showOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	proc, warnings, err := openProcess(ctx, *dir, *adapterKind, cfg)
	if err != nil {
		return writeJSONOutput(showOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}
	defer func() { _ = proc.Dispose() }()

	var record chain.ReductionRecord
	attested := false
	if *snapshot {
		var sig *attest.Signature
		record, sig, err = proc.Snapshot(ctx)
		attested = sig != nil
	} else {
		record, err = proc.Reduction(ctx)
	}
	if err != nil {
		return writeJSONOutput(showOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}
	return writeJSONOutput(showOutput{OK: true, Head: proc.Head(), State: record.ReducedValue, SnapshotStored: *snapshot, Attested: attested, Warnings: warnings}, exitOK)
}
