// Package engine implements the persistent process core: a rehydratable
// state machine driven by an opaque process.Adapter, chained together as
// composition records over a content-addressed hash.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/wardenhq/procledger/core/digest"
	"github.com/wardenhq/procledger/core/errors"
	"github.com/wardenhq/procledger/core/process"
	"github.com/wardenhq/procledger/core/schema/v1/chain"
	"github.com/wardenhq/procledger/core/store"
)

// PersistentProcess rehydrates an adapter's state from a store's composition
// history on construction, then applies further events or state writes,
// producing composition records for a caller to persist. It never writes to
// the store itself; that is the Store-Binding Wrapper's job, so that a
// composition record is always durable before any reduction derived from it.
type PersistentProcess struct {
	mu      sync.Mutex
	adapter process.Adapter
	state   State

	// headHash is the hash of the most recently applied composition record,
	// or digest.EmptyInit if no record has been applied yet. It doubles as
	// the parent_hash for the next record produced and as the provenance
	// marker for the adapter's current state.
	headHash string
}

type collectedRecord struct {
	hash   string
	record chain.CompositionRecord
}

// New rehydrates a PersistentProcess against the store's current history.
// The adapter must already be in its true default state; rehydration only
// applies records on top of that default when no reduction is found (i.e.
// genesis replay).
func New(ctx context.Context, reader store.Reader, adapter process.Adapter) (*PersistentProcess, error) {
	p := &PersistentProcess{adapter: adapter, state: Rehydrating}
	if err := p.rehydrate(ctx, reader); err != nil {
		p.state = Failed
		return nil, err
	}
	p.state = Ready
	return p, nil
}

// rehydrate implements the reverse-walk-then-replay-forward algorithm: walk
// the store from head backward until a reduction or the genesis record is
// found, then replay whatever lies between that point and head, in
// chronological order, to bring the adapter's state up to date.
func (p *PersistentProcess) rehydrate(ctx context.Context, reader store.Reader) error {
	head, ok, err := reader.Head(ctx)
	if err != nil {
		return err
	}
	if !ok {
		p.headHash = digest.EmptyInit
		return nil
	}

	iter, err := reader.Records(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = iter.Close() }()

	var collected []collectedRecord
	var reduction *chain.ReductionRecord
	var reductionHash string

	for {
		hash, canonical, ok, err := iter.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.ChainIncomplete(head)
		}

		record, decodedHash, err := chain.DecodeComposition(canonical)
		if err != nil {
			return errors.RecordDecodeError(err)
		}
		if decodedHash != hash {
			return errors.RecordDecodeError(fmt.Errorf("record hash mismatch: stored under %s, decodes to %s", hash, decodedHash))
		}

		reductionBytes, hasReduction, err := reader.Reduction(ctx, hash)
		if err != nil {
			return err
		}
		if hasReduction {
			decoded, err := chain.DecodeReduction(reductionBytes)
			if err != nil {
				return errors.RecordDecodeError(err)
			}
			reduction = &decoded
			reductionHash = hash
			break
		}

		collected = append(collected, collectedRecord{hash: hash, record: record})

		if record.ParentHash == digest.EmptyInit {
			break
		}
	}

	// collected was built newest-first; reverse it to chronological order.
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}

	if reduction != nil {
		if err := p.adapter.SetSerializedState(reduction.ReducedValue); err != nil {
			return errors.ProcessError(err)
		}
		p.headHash = reductionHash
	} else {
		// Genesis replay: the adapter is already at its true default state.
		p.headHash = digest.EmptyInit
	}

	for _, entry := range collected {
		if err := p.applyRecord(entry.record); err != nil {
			return err
		}
		p.headHash = entry.hash
	}

	return nil
}

func (p *PersistentProcess) applyRecord(record chain.CompositionRecord) error {
	if record.SetState != nil {
		if err := p.adapter.SetSerializedState(*record.SetState); err != nil {
			return errors.ProcessError(err)
		}
		return nil
	}
	for _, event := range record.AppendedEvents {
		if _, err := p.adapter.ProcessEvent(event); err != nil {
			return errors.ProcessError(err)
		}
	}
	return nil
}

// requireReady must be called with mu held.
func (p *PersistentProcess) requireReady() error {
	switch p.state {
	case Ready:
		return nil
	case Disposed:
		return errors.Disposed()
	case Failed:
		return errors.ProcessError(fmt.Errorf("engine is in a failed state"))
	default:
		return fmt.Errorf("engine is not ready: %s", p.state)
	}
}

// ProcessEvents applies one or more events atomically at the record level:
// either every event is applied and a single composition record is produced,
// or an event fails and no record is returned (events before the failing one
// stay applied to the adapter). It does not persist the record; the
// caller (the Store-Binding Wrapper) must append it before treating the
// events as committed.
func (p *PersistentProcess) ProcessEvents(events []string) (responses []string, canonical []byte, hash string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requireReady(); err != nil {
		return nil, nil, "", err
	}
	if len(events) == 0 {
		return nil, nil, "", fmt.Errorf("engine: at least one event is required")
	}

	// If the adapter fails partway through, nothing is committed: no record
	// is built or returned. The adapter's own state may already be advanced
	// through the events that succeeded before the failure — the engine
	// cannot roll that back without adapter-side transaction support. The
	// engine itself is not marked Failed for this; callers should treat a
	// ProcessError as a signal that the adapter's state may be suspect, per
	// the propagation policy, but the engine remains Ready for retries or
	// for read-only operations.
	responses = make([]string, 0, len(events))
	for _, event := range events {
		resp, err := p.adapter.ProcessEvent(event)
		if err != nil {
			return nil, nil, "", errors.ProcessError(err)
		}
		responses = append(responses, resp)
	}

	record := chain.CompositionRecord{ParentHash: p.headHash, AppendedEvents: events}
	canonical, hash, err = chain.EncodeComposition(record)
	if err != nil {
		return nil, nil, "", errors.RecordDecodeError(err)
	}
	p.headHash = hash
	return responses, canonical, hash, nil
}

// SetState replaces the adapter's state directly, producing a composition
// record carrying set_state instead of appended_events.
func (p *PersistentProcess) SetState(state string) (canonical []byte, hash string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requireReady(); err != nil {
		return nil, "", err
	}

	if err := p.adapter.SetSerializedState(state); err != nil {
		return nil, "", errors.ProcessError(err)
	}

	record := chain.CompositionRecord{ParentHash: p.headHash, SetState: &state}
	canonical, hash, err = chain.EncodeComposition(record)
	if err != nil {
		return nil, "", errors.RecordDecodeError(err)
	}
	p.headHash = hash
	return canonical, hash, nil
}

// CurrentReduction snapshots the adapter's current serialized state as a
// reduction record keyed by the current head hash. It does not persist the
// reduction; the caller decides whether and when to store it.
func (p *PersistentProcess) CurrentReduction() (record chain.ReductionRecord, canonical []byte, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requireReady(); err != nil {
		return chain.ReductionRecord{}, nil, err
	}

	value, err := p.adapter.GetSerializedState()
	if err != nil {
		return chain.ReductionRecord{}, nil, errors.ProcessError(err)
	}

	record = chain.ReductionRecord{ReducedCompositionHash: p.headHash, ReducedValue: value}
	canonical, err = chain.EncodeReduction(record)
	if err != nil {
		return chain.ReductionRecord{}, nil, errors.RecordDecodeError(err)
	}
	return record, canonical, nil
}

// Head returns the hash of the most recently applied composition record.
func (p *PersistentProcess) Head() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.headHash
}

// State reports the engine's current lifecycle state.
func (p *PersistentProcess) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Dispose releases the underlying adapter and marks the engine unusable.
// Idempotent.
func (p *PersistentProcess) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Disposed {
		return nil
	}
	p.state = Disposed
	return p.adapter.Dispose()
}
