package process

// EchoAdapter is a reference Adapter whose state events never change: every
// event is echoed back verbatim as the response, and only SetSerializedState
// replaces the state. Useful for exercising the
// composition-record chain without any interesting reduction behavior.
type EchoAdapter struct {
	state    string
	disposed bool
}

// NewEchoAdapter returns an EchoAdapter with the given initial state.
func NewEchoAdapter(initialState string) *EchoAdapter {
	return &EchoAdapter{state: initialState}
}

func (a *EchoAdapter) ProcessEvent(event string) (string, error) {
	if a.disposed {
		return "", errDisposedAdapter
	}
	return event, nil
}

func (a *EchoAdapter) GetSerializedState() (string, error) {
	if a.disposed {
		return "", errDisposedAdapter
	}
	return a.state, nil
}

func (a *EchoAdapter) SetSerializedState(state string) error {
	if a.disposed {
		return errDisposedAdapter
	}
	a.state = state
	return nil
}

func (a *EchoAdapter) Dispose() error {
	a.disposed = true
	return nil
}
