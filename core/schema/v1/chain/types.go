// Package chain defines the two wire records that make up a persistent
// process's durable history: composition records (the hash-chained log) and
// reduction records (keyed state snapshots).
package chain

// CompositionRecord is one immutable step in a process's history: a link to
// its parent plus either a batch of events or a state override. The core
// never produces both AppendedEvents and SetState in the same record, though
// it does not refuse to decode one that has both.
type CompositionRecord struct {
	ParentHash     string   `json:"parent_hash"`
	AppendedEvents []string `json:"appended_events,omitempty"`
	SetState       *string  `json:"set_state,omitempty"`
}

// ReductionRecord is a snapshot of serialized process state taken immediately
// after the composition record identified by ReducedCompositionHash was
// applied.
type ReductionRecord struct {
	ReducedCompositionHash string `json:"reduced_composition_hash"`
	ReducedValue           string `json:"reduced_value"`
}
