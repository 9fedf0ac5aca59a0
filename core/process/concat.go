package process

import "errors"

var errDisposedAdapter = errors.New("process: adapter disposed")

// ConcatAdapter is a reference Adapter whose state is a single string: each
// event is appended to it, and the response is the event that was appended.
type ConcatAdapter struct {
	state    string
	disposed bool
}

// NewConcatAdapter returns a ConcatAdapter with the given initial state.
func NewConcatAdapter(initialState string) *ConcatAdapter {
	return &ConcatAdapter{state: initialState}
}

func (a *ConcatAdapter) ProcessEvent(event string) (string, error) {
	if a.disposed {
		return "", errDisposedAdapter
	}
	a.state += event
	return event, nil
}

func (a *ConcatAdapter) GetSerializedState() (string, error) {
	if a.disposed {
		return "", errDisposedAdapter
	}
	return a.state, nil
}

func (a *ConcatAdapter) SetSerializedState(state string) error {
	if a.disposed {
		return errDisposedAdapter
	}
	a.state = state
	return nil
}

func (a *ConcatAdapter) Dispose() error {
	a.disposed = true
	return nil
}
