package core

// CallState tracks the lifecycle of a single asynchronous query execution.
type CallState int

const (
	CallStateUnknown CallState = iota
	CallStateExecuting
	CallStateExecutingFailed
	CallStateRetrieving
	CallStateRetrievingFailed
	CallStateCompleted
	CallStateCanceled
)

var callStateNames = map[CallState]string{
	CallStateUnknown:          "unknown",
	CallStateExecuting:        "executing",
	CallStateExecutingFailed:  "executing_failed",
	CallStateRetrieving:       "retrieving",
	CallStateRetrievingFailed: "retrieving_failed",
	CallStateCompleted:        "completed",
	CallStateCanceled:         "canceled",
}

func (s CallState) String() string {
	name, ok := callStateNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

// IsTerminal reports whether the call reached a final state. A terminal
// call accepts no further transitions.
func (s CallState) IsTerminal() bool {
	switch s {
	case CallStateExecutingFailed, CallStateRetrievingFailed, CallStateCompleted, CallStateCanceled:
		return true
	default:
		return false
	}
}

func CallStateFromString(s string) CallState {
	for state, name := range callStateNames {
		if name == s {
			return state
		}
	}
	return CallStateUnknown
}
