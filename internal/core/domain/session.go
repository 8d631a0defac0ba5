package domain

import "strings"

// SessionState is a state of the interactive question loop.
type SessionState int

// Session states. A session cycles AwaitingInput -> Processing ->
// Answered|Errored -> AwaitingInput until it reaches Terminated.
const (
	SessionAwaitingInput SessionState = iota
	SessionProcessing
	SessionAnswered
	SessionErrored
	SessionTerminated
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case SessionAwaitingInput:
		return "awaiting_input"
	case SessionProcessing:
		return "processing"
	case SessionAnswered:
		return "answered"
	case SessionErrored:
		return "errored"
	case SessionTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s SessionState) IsTerminal() bool {
	return s == SessionTerminated
}

// ExitTokens are the inputs that end a session, compared case-insensitively
// after trimming surrounding whitespace.
func ExitTokens() []string {
	return []string{"exit", "quit", "q"}
}

// IsExitToken reports whether line ends a session.
func IsExitToken(line string) bool {
	line = strings.TrimSpace(line)
	for _, tok := range ExitTokens() {
		if strings.EqualFold(line, tok) {
			return true
		}
	}
	return false
}
