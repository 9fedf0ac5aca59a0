package main

import (
	"context"
	"flag"

	"github.com/wardenhq/procledger/core/projectconfig"
)

type initOutput struct {
	OK        bool   `json:"ok"`
	Directory string `json:"directory,omitempty"`
	Error     string `json:"error,omitempty"`
}

func runInit(ctx context.Context, arguments []string) int {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	dir := flags.String("dir", "", "store directory to create (defaults to the project config's store.directory, then a package default)")
	configPath := flags.String("config", projectconfig.DefaultPath, "project config path")
	if err := flags.Parse(arguments); err != nil {
		return writeJSONOutput(initOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	cfg, err := loadProjectConfig(*configPath)
	if err != nil {
		return writeJSONOutput(initOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	if _, err := openConfiguredStore(*dir, cfg); err != nil {
		return writeJSONOutput(initOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}
	return writeJSONOutput(initOutput{OK: true, Directory: resolveStoreDirectory(*dir, cfg)}, exitOK)
}
