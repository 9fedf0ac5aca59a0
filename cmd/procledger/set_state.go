package main

import (
	"context"
	"flag"

	"github.com/wardenhq/procledger/core/projectconfig"
)

type setStateOutput struct {
	OK       bool     `json:"ok"`
	Head     string   `json:"head,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func runSetState(ctx context.Context, arguments []string) int {
	flags := flag.NewFlagSet("set-state", flag.ContinueOnError)
	dir := flags.String("dir", "", "store directory (defaults to the project config's store.directory, then a package default)")
	adapterKind := flags.String("adapter", "concat", "reference adapter to drive: concat or echo")
	state := flags.String("state", "", "new serialized state")
	configPath := flags.String("config", projectconfig.DefaultPath, "project config path")
	if err := flags.Parse(arguments); err != nil {
		return writeJSONOutput(setStateOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	cfg, err := loadProjectConfig(*configPath)
	if err != nil {
		return writeJSONOutput(setStateOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	proc, warnings, err := openProcess(ctx, *dir, *adapterKind, cfg)
	if err != nil {
		return writeJSONOutput(setStateOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}
	defer func() { _ = proc.Dispose() }()

	if err := proc.SetState(ctx, *state); err != nil {
		return writeJSONOutput(setStateOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}
	return writeJSONOutput(setStateOutput{OK: true, Head: proc.Head(), Warnings: warnings}, exitOK)
}
