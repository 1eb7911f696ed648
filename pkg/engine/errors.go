package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrStageLocked is returned when a session is started on a stage the
	// player has not unlocked.
	ErrStageLocked = errors.New("stage is locked")
	// ErrNoActiveSession is returned by session operations when nothing is running.
	ErrNoActiveSession = errors.New("no active session")
	// ErrSessionActive is returned when starting a session while another runs.
	ErrSessionActive = errors.New("a session is already active")
)

// StageLockedError names the stage that could not be started.
type StageLockedError struct {
	StageID int
}

func (e *StageLockedError) Error() string {
	return fmt.Sprintf("stage %d is locked", e.StageID)
}

// Is reports ErrStageLocked as equivalent.
func (e *StageLockedError) Is(target error) bool {
	return target == ErrStageLocked
}
