package collector

import (
	"gopkg.in/errgo.v1"
)

// State represents the collection state.
type State int

const (
	// Idle is the initial state; no data is being collected.
	Idle State = iota
	// Running means that the data source is being polled.
	Running
)

var stateNames = []string{
	Idle:    "idle",
	Running: "running",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(data []byte) error {
	for i, name := range stateNames {
		if name == string(data) {
			*s = State(i)
			return nil
		}
	}
	return errgo.Newf("unknown collection state %q", data)
}
