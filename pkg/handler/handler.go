// Package handler exposes the per-player engine over HTTP and streams its
// notifications over websockets.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/endzone-defense/campaign-engine/pkg/common"
	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/endzone-defense/campaign-engine/pkg/service"
	"github.com/endzone-defense/campaign-engine/pkg/session"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
	"github.com/sirupsen/logrus"
)

// Engines resolves the engine serving a player.
type Engines interface {
	Get(ctx context.Context, playerID string) (*engine.Engine, error)
}

// API serves the host routes under /v1/players/{playerID}.
type API struct {
	engines Engines
	ledger  service.EntriesLedger
	hub     *Hub
}

// NewAPI creates the API. ledger and hub may be nil, which disables the
// entries and websocket routes.
func NewAPI(engines Engines, ledger service.EntriesLedger, hub *Hub) *API {
	return &API{
		engines: engines,
		ledger:  ledger,
		hub:     hub,
	}
}

// StartSessionRequest starts a session on a stage.
type StartSessionRequest struct {
	StageID int `json:"stageId"`
}

// ActionRequest reports one defensive action. BasePoints falls back to the
// kind's default when omitted.
type ActionRequest struct {
	Kind       session.ActionKind `json:"kind"`
	BasePoints *int               `json:"basePoints,omitempty"`
}

// UpgradeRequest selects an upgrade from the pending offer.
type UpgradeRequest struct {
	Type upgrade.Type `json:"type"`
}

// Routes returns the API mux.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/players/{playerID}/sessions", a.handleStartSession)
	mux.HandleFunc("GET /v1/players/{playerID}/session", a.handleGetSession)
	mux.HandleFunc("DELETE /v1/players/{playerID}/session", a.handleExitSession)
	mux.HandleFunc("POST /v1/players/{playerID}/session/actions", a.handleAction)
	mux.HandleFunc("POST /v1/players/{playerID}/session/breach", a.handleBreach)
	mux.HandleFunc("POST /v1/players/{playerID}/session/wave-cleared", a.handleWaveCleared)
	mux.HandleFunc("POST /v1/players/{playerID}/session/upgrade", a.handleUpgrade)

	mux.HandleFunc("GET /v1/players/{playerID}/campaign", a.handleGetCampaign)
	mux.HandleFunc("GET /v1/players/{playerID}/stages", a.handleGetStages)
	mux.HandleFunc("GET /v1/players/{playerID}/entries", a.handleGetEntries)
	mux.HandleFunc("GET /v1/players/{playerID}/ws", a.handleWs)

	return mux
}

func (a *API) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !decode(w, r, &req) {
		return
	}

	a.withEngine(w, r, "handler.StartSession", func(scope *common.Scope, e *engine.Engine) {
		scope.SetAttributes("stage_id", req.StageID)
		snap, err := e.StartSession(scope.Ctx, req.StageID)
		if err != nil {
			writeError(w, scope, err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	})
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	a.withEngine(w, r, "handler.GetSession", func(scope *common.Scope, e *engine.Engine) {
		snap, err := e.CurrentSession()
		if err != nil {
			writeError(w, scope, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})
}

func (a *API) handleExitSession(w http.ResponseWriter, r *http.Request) {
	a.withEngine(w, r, "handler.ExitSession", func(scope *common.Scope, e *engine.Engine) {
		if err := e.ExitSession(scope.Ctx); err != nil {
			writeError(w, scope, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (a *API) handleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if !decode(w, r, &req) {
		return
	}

	a.withEngine(w, r, "handler.ApplyAction", func(scope *common.Scope, e *engine.Engine) {
		scope.SetAttributes("kind", string(req.Kind))
		step, err := e.ApplyAction(scope.Ctx, req.Kind, req.BasePoints)
		writeStep(w, scope, step, err)
	})
}

func (a *API) handleBreach(w http.ResponseWriter, r *http.Request) {
	a.withEngine(w, r, "handler.ReportBreach", func(scope *common.Scope, e *engine.Engine) {
		step, err := e.ReportBreach(scope.Ctx)
		writeStep(w, scope, step, err)
	})
}

func (a *API) handleWaveCleared(w http.ResponseWriter, r *http.Request) {
	a.withEngine(w, r, "handler.ReportWaveCleared", func(scope *common.Scope, e *engine.Engine) {
		step, err := e.ReportWaveCleared(scope.Ctx)
		writeStep(w, scope, step, err)
	})
}

func (a *API) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req UpgradeRequest
	if !decode(w, r, &req) {
		return
	}

	a.withEngine(w, r, "handler.SelectUpgrade", func(scope *common.Scope, e *engine.Engine) {
		scope.SetAttributes("upgrade", string(req.Type))
		step, err := e.SelectUpgrade(scope.Ctx, req.Type)
		writeStep(w, scope, step, err)
	})
}

func (a *API) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	a.withEngine(w, r, "handler.GetCampaign", func(_ *common.Scope, e *engine.Engine) {
		writeJSON(w, http.StatusOK, e.GetCampaignSnapshot())
	})
}

func (a *API) handleGetStages(w http.ResponseWriter, r *http.Request) {
	a.withEngine(w, r, "handler.GetStages", func(_ *common.Scope, e *engine.Engine) {
		writeJSON(w, http.StatusOK, e.Stages())
	})
}

func (a *API) handleGetEntries(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "handler.GetEntries")
	defer scope.Finish()

	if a.ledger == nil {
		writeError(w, scope, fmt.Errorf("%w: entries ledger", errUnavailable))
		return
	}

	entries, err := a.ledger.Balance(scope.Ctx, r.PathValue("playerID"))
	if err != nil {
		writeError(w, scope, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *API) handleWs(w http.ResponseWriter, r *http.Request) {
	if a.hub == nil {
		http.Error(w, "notifications are disabled", http.StatusServiceUnavailable)
		return
	}
	ServeWs(a.hub, r.PathValue("playerID"), w, r)
}

// withEngine opens a trace scope, loads the player's engine and runs fn.
func (a *API) withEngine(w http.ResponseWriter, r *http.Request, name string, fn func(*common.Scope, *engine.Engine)) {
	scope := common.GetScopeFromContext(r.Context(), name)
	defer scope.Finish()

	playerID := r.PathValue("playerID")
	scope.SetAttributes("player_id", playerID)

	e, err := a.engines.Get(scope.Ctx, playerID)
	if err != nil {
		writeError(w, scope, err)
		return
	}
	fn(scope, e)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logrus.Debugf("rejecting %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeStep(w http.ResponseWriter, scope *common.Scope, step engine.Step, err error) {
	if err != nil {
		writeError(w, scope, err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("failed to encode response: %v", err)
	}
}
