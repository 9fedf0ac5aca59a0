// Package procbind glues a PersistentProcess engine to a durable Store: it
// is the only component permitted to write to the store, and it enforces
// the ordering invariant that a composition record must be durable before
// any reduction derived from it is written.
package procbind

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/wardenhq/procledger/core/attest"
	"github.com/wardenhq/procledger/core/engine"
	"github.com/wardenhq/procledger/core/errors"
	"github.com/wardenhq/procledger/core/process"
	"github.com/wardenhq/procledger/core/schema/v1/chain"
	"github.com/wardenhq/procledger/core/store"
)

// Attestor optionally signs a reduction record's canonical bytes after it
// has been durably written. Signing failure is never fatal to the write
// itself; it is an audit enhancement, not a correctness gate.
type Attestor interface {
	SignReductionRecordJSON(canonical []byte) (attest.Signature, error)
}

// KeySigner is an Attestor backed by an ed25519 private key, loaded per
// core/attest's KeyConfig conventions.
type KeySigner struct {
	Key ed25519.PrivateKey
}

func (k KeySigner) SignReductionRecordJSON(canonical []byte) (attest.Signature, error) {
	return attest.SignReductionRecordJSON(k.Key, canonical)
}

// Process binds a PersistentProcess to a Store, mediating every read and
// write so that the append-before-reduce ordering invariant always holds.
type Process struct {
	engine   *engine.PersistentProcess
	store    store.Store
	attestor Attestor // nil disables attestation
}

// Open rehydrates a PersistentProcess against store's history using adapter,
// and binds it to store for subsequent writes.
func Open(ctx context.Context, s store.Store, adapter process.Adapter) (*Process, error) {
	eng, err := engine.New(ctx, s, adapter)
	if err != nil {
		return nil, err
	}
	return &Process{engine: eng, store: s}, nil
}

// WithAttestor enables reduction-record signing on this Process.
func (p *Process) WithAttestor(a Attestor) *Process {
	p.attestor = a
	return p
}

// ProcessEvents applies events to the engine, durably appends the resulting
// composition record, then stores a fresh reduction for the new head. If
// either write fails, the underlying engine is disposed: its in-memory
// state has advanced past what is durable, so it can no longer be trusted.
func (p *Process) ProcessEvents(ctx context.Context, events []string) ([]string, error) {
	responses, canonical, hash, err := p.engine.ProcessEvents(events)
	if err != nil {
		return nil, err
	}
	if err := p.store.AppendComposition(ctx, hash, canonical); err != nil {
		_ = p.engine.Dispose()
		return nil, errors.StoreIoError(fmt.Errorf("append composition record after processing events: %w", err))
	}
	if _, _, err := p.snapshot(ctx); err != nil {
		_ = p.engine.Dispose()
		return nil, err
	}
	return responses, nil
}

// ProcessEvent is a convenience wrapper over ProcessEvents for a single event.
func (p *Process) ProcessEvent(ctx context.Context, event string) (string, error) {
	responses, err := p.ProcessEvents(ctx, []string{event})
	if err != nil {
		return "", err
	}
	return responses[0], nil
}

// SetState replaces the process state, durably appends the resulting
// composition record, then stores a fresh reduction for the new head.
func (p *Process) SetState(ctx context.Context, state string) error {
	canonical, hash, err := p.engine.SetState(state)
	if err != nil {
		return err
	}
	if err := p.store.AppendComposition(ctx, hash, canonical); err != nil {
		_ = p.engine.Dispose()
		return errors.StoreIoError(fmt.Errorf("append composition record after set state: %w", err))
	}
	if _, _, err := p.snapshot(ctx); err != nil {
		_ = p.engine.Dispose()
		return err
	}
	return nil
}

// Reduction computes the current reduction record without persisting it.
func (p *Process) Reduction(ctx context.Context) (chain.ReductionRecord, error) {
	record, _, err := p.engine.CurrentReduction()
	return record, err
}

// Snapshot durably (re)stores a reduction record for the current head. Every
// successful ProcessEvents/SetState call already does this uniformly, so
// Snapshot is for callers that want to force one out of band (e.g. after
// restoring a store from backup) — it is idempotent, since PutReduction
// overwrites.
func (p *Process) Snapshot(ctx context.Context) (chain.ReductionRecord, *attest.Signature, error) {
	return p.snapshot(ctx)
}

func (p *Process) snapshot(ctx context.Context) (chain.ReductionRecord, *attest.Signature, error) {
	record, canonical, err := p.engine.CurrentReduction()
	if err != nil {
		return chain.ReductionRecord{}, nil, err
	}
	if err := p.store.PutReduction(ctx, record.ReducedCompositionHash, canonical); err != nil {
		return chain.ReductionRecord{}, nil, errors.StoreIoError(fmt.Errorf("put reduction record: %w", err))
	}

	if p.attestor == nil {
		return record, nil, nil
	}
	sig, err := p.attestor.SignReductionRecordJSON(canonical)
	if err != nil {
		return record, nil, nil
	}
	sigBytes, err := json.Marshal(sig)
	if err != nil {
		return record, nil, nil
	}
	if err := p.store.PutAttestation(ctx, record.ReducedCompositionHash, sigBytes); err != nil {
		return record, nil, nil
	}
	return record, &sig, nil
}

// Head returns the hash of the most recently applied composition record.
func (p *Process) Head() string {
	return p.engine.Head()
}

// State reports the underlying engine's lifecycle state.
func (p *Process) State() engine.State {
	return p.engine.State()
}

// Dispose releases the underlying engine and its adapter.
func (p *Process) Dispose() error {
	return p.engine.Dispose()
}
