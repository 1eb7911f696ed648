package session

import "errors"

// ErrUnknownAction indicates an action kind the loop does not recognise.
var ErrUnknownAction = errors.New("unknown action kind")
