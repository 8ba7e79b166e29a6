package dropzone

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of a file in a batch.
type State string

const (
	StatePending   State = "pending"
	StateUploading State = "uploading"
	StateDone      State = "done"
	StateRejected  State = "rejected"
)

var ErrInvalidTransition = errors.New("invalid state transition")

var transitions = map[State][]State{
	StatePending:   {StateUploading, StateRejected},
	StateUploading: {StateDone},
}

// CanTransition reports whether a file in s may move to next.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func transition(f *File, next State) error {
	if !f.State.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.State, next)
	}
	f.State = next
	return nil
}
