package main

import (
	"context"
	"flag"

	"github.com/wardenhq/procledger/core/projectconfig"
)

type applyOutput struct {
	OK        bool     `json:"ok"`
	Head      string   `json:"head,omitempty"`
	Responses []string `json:"responses,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func runApply(ctx context.Context, arguments []string) int {
	flags := flag.NewFlagSet("apply", flag.ContinueOnError)
	dir := flags.String("dir", "", "store directory (defaults to the project config's store.directory, then a package default)")
	adapterKind := flags.String("adapter", "concat", "reference adapter to drive: concat or echo")
	configPath := flags.String("config", projectconfig.DefaultPath, "project config path")
	if err := flags.Parse(arguments); err != nil {
		return writeJSONOutput(applyOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}
	events := flags.Args()
	if len(events) == 0 {
		return writeJSONOutput(applyOutput{OK: false, Error: "at least one event is required"}, exitInvalidInput)
	}

	cfg, err := loadProjectConfig(*configPath)
	if err != nil {
		return writeJSONOutput(applyOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	proc, warnings, err := openProcess(ctx, *dir, *adapterKind, cfg)
	if err != nil {
		return writeJSONOutput(applyOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}
	defer func() { _ = proc.Dispose() }()

	responses, err := proc.ProcessEvents(ctx, events)
	if err != nil {
		return writeJSONOutput(applyOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}
	return writeJSONOutput(applyOutput{OK: true, Head: proc.Head(), Responses: responses, Warnings: warnings}, exitOK)
}
