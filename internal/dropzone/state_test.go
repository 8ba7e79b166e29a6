package dropzone_test

import (
	"testing"

	"github.com/JaimeStill/rental-portal/internal/dropzone"
)

func TestState_CanTransition(t *testing.T) {
	tests := []struct {
		from dropzone.State
		to   dropzone.State
		want bool
	}{
		{dropzone.StatePending, dropzone.StateUploading, true},
		{dropzone.StatePending, dropzone.StateRejected, true},
		{dropzone.StateUploading, dropzone.StateDone, true},
		{dropzone.StatePending, dropzone.StateDone, false},
		{dropzone.StateUploading, dropzone.StateRejected, false},
		{dropzone.StateUploading, dropzone.StatePending, false},
		{dropzone.StateDone, dropzone.StatePending, false},
		{dropzone.StateDone, dropzone.StateUploading, false},
		{dropzone.StateRejected, dropzone.StatePending, false},
		{dropzone.StateRejected, dropzone.StateUploading, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition = %v, want %v", got, tt.want)
			}
		})
	}
}
