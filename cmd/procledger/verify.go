package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/wardenhq/procledger/core/digest"
	"github.com/wardenhq/procledger/core/errors"
	"github.com/wardenhq/procledger/core/projectconfig"
	"github.com/wardenhq/procledger/core/schema/v1/chain"
	"github.com/wardenhq/procledger/core/store"
)

type verifyOutput struct {
	OK             bool   `json:"ok"`
	RecordsChecked int    `json:"records_checked,omitempty"`
	Head           string `json:"head,omitempty"`
	Error          string `json:"error,omitempty"`
}

// runVerify re-decodes every composition record reachable from head and
// confirms the hash the store reports for it matches the decoded bytes'
// digest and that parent links form an unbroken chain to genesis or a
// stored reduction. It never touches a process.Adapter.
func runVerify(ctx context.Context, arguments []string) int {
	flags := flag.NewFlagSet("verify", flag.ContinueOnError)
	dir := flags.String("dir", "", "store directory (defaults to the project config's store.directory, then a package default)")
	configPath := flags.String("config", projectconfig.DefaultPath, "project config path")
	if err := flags.Parse(arguments); err != nil {
		return writeJSONOutput(verifyOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	cfg, err := loadProjectConfig(*configPath)
	if err != nil {
		return writeJSONOutput(verifyOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}

	s, err := openConfiguredStore(*dir, cfg)
	if err != nil {
		return writeJSONOutput(verifyOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}

	head, ok, err := s.Head(ctx)
	if err != nil {
		return writeJSONOutput(verifyOutput{OK: false, Error: err.Error()}, exitCodeForError(err))
	}
	if !ok {
		return writeJSONOutput(verifyOutput{OK: true, Head: digest.EmptyInit}, exitOK)
	}

	checked, err := verifyChain(ctx, s, head)
	if err != nil {
		return writeJSONOutput(verifyOutput{OK: false, RecordsChecked: checked, Error: err.Error()}, exitCodeForError(err))
	}
	return writeJSONOutput(verifyOutput{OK: true, RecordsChecked: checked, Head: head}, exitOK)
}

func verifyChain(ctx context.Context, reader store.Reader, head string) (int, error) {
	iter, err := reader.Records(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = iter.Close() }()

	checked := 0
	expected := head
	for {
		hash, canonical, ok, err := iter.Next(ctx)
		if err != nil {
			return checked, err
		}
		if !ok {
			break
		}
		if hash != expected {
			// A record exists in the store that this chain does not
			// reference; stop once we fall off the chain we're checking.
			break
		}
		record, decodedHash, err := chain.DecodeComposition(canonical)
		if err != nil {
			return checked, errors.RecordDecodeError(err)
		}
		if decodedHash != hash {
			return checked, errors.RecordDecodeError(fmt.Errorf("record stored under %s decodes to %s", hash, decodedHash))
		}
		checked++

		if _, hasReduction, err := reader.Reduction(ctx, hash); err != nil {
			return checked, err
		} else if hasReduction {
			return checked, nil
		}
		if record.ParentHash == digest.EmptyInit {
			return checked, nil
		}
		expected = record.ParentHash
	}
	return checked, errors.ChainIncomplete(head)
}
