package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	coreerrors "github.com/wardenhq/procledger/core/errors"
)

const (
	exitOK              = 0
	exitInvalidInput    = 1
	exitInternalFailure = 2
	exitVerifyFailed    = 3
)

func main() {
	os.Exit(run(os.Args))
}

func run(arguments []string) int {
	if len(arguments) < 2 {
		fmt.Println("procledger", version)
		return exitOK
	}

	ctx := context.Background()
	switch arguments[1] {
	case "init":
		return runInit(ctx, arguments[2:])
	case "apply":
		return runApply(ctx, arguments[2:])
	case "set-state":
		return runSetState(ctx, arguments[2:])
	case "show":
		return runShow(ctx, arguments[2:])
	case "verify":
		return runVerify(ctx, arguments[2:])
	default:
		fmt.Printf("unknown command: %s\n", arguments[1])
		return exitInvalidInput
	}
}

var version = "0.0.0-dev"

func writeJSONOutput(output any, exitCode int) int {
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Println(`{"ok":false,"error":"failed to encode output","error_code":"encode_failed"}`)
		return exitInternalFailure
	}
	fmt.Println(string(encoded))
	return exitCode
}

// exitCodeForError maps a classified error to a CLI exit code so that
// scripts driving procledger can branch on failure kind without parsing text.
func exitCodeForError(err error) int {
	if err == nil {
		return exitOK
	}
	switch coreerrors.CategoryOf(err) {
	case coreerrors.CategoryInvalidInput:
		return exitInvalidInput
	case coreerrors.CategoryVerification, coreerrors.CategoryChainIncomplete, coreerrors.CategoryRecordDecode:
		return exitVerifyFailed
	default:
		return exitInternalFailure
	}
}
