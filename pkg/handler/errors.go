package handler

import (
	"errors"
	"net/http"

	"github.com/endzone-defense/campaign-engine/pkg/common"
	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/endzone-defense/campaign-engine/pkg/session"
	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
)

var errUnavailable = errors.New("service unavailable")

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, stage.ErrStageNotFound), errors.Is(err, engine.ErrNoActiveSession):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrStageLocked), errors.Is(err, engine.ErrSessionActive):
		return http.StatusConflict
	case errors.Is(err, upgrade.ErrInvalidUpgradeSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, scope *common.Scope, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		scope.TraceError(err)
		scope.Log.Errorf("request failed: %v", err)
	} else {
		scope.Log.Debugf("request rejected with %d: %v", status, err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
