package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/campaign"
	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/endzone-defense/campaign-engine/pkg/session"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
)

type stubLoader struct {
	calls int
}

func (l *stubLoader) Load(ctx context.Context, userID string) (*signal.PlayerContext, error) {
	l.calls++
	return &signal.PlayerContext{UserID: userID, Namespace: "loaded"}, nil
}

func endedNotification(withCampaign bool) engine.Notification {
	ended := &engine.SessionEnded{
		SessionID:      "session-1",
		StageID:        3,
		Outcome:        session.OutcomeVictory,
		Score:          4200,
		MaxCombo:       17,
		LivesRemaining: 2,
		Victory: &victory.Record{
			Type:    victory.TypeStageComplete,
			StageID: 3,
			Score:   4200,
		},
		UnlockedStages: []int{4},
		NewHighScore:   true,
	}
	if withCampaign {
		ended.Campaign = campaign.NewState("player-1", stage.DefaultCatalog())
	}
	return engine.Notification{
		Kind:     engine.KindSessionEnded,
		PlayerID: "player-1",
		At:       time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Ended:    ended,
	}
}

func TestSessionEndedEventProcessor(t *testing.T) {
	p := &SessionEndedEventProcessor{Namespace: "ns"}
	loader := &stubLoader{}

	sig, err := p.Process(context.Background(), endedNotification(true), loader)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	end, ok := sig.(*SessionEndSignal)
	if !ok {
		t.Fatalf("Expected *SessionEndSignal, got %T", sig)
	}
	if end.Type() != TypeSessionEnd {
		t.Errorf("Expected type %s, got %s", TypeSessionEnd, end.Type())
	}
	if end.VictoryType != string(victory.TypeStageComplete) || !end.Victory {
		t.Errorf("Expected stage_complete victory, got %q (victory=%v)", end.VictoryType, end.Victory)
	}
	if end.Metadata()["score"] != 4200 {
		t.Errorf("Expected score 4200 in metadata, got %v", end.Metadata()["score"])
	}
	if end.Metadata()["max_combo"] != 17 {
		t.Errorf("Expected max_combo 17 in metadata, got %v", end.Metadata()["max_combo"])
	}
	if end.Context().Namespace != "ns" || end.Context().Campaign == nil {
		t.Errorf("Expected context built from the notification, got %+v", end.Context())
	}
	if loader.calls != 0 {
		t.Errorf("Expected loader not to be called, got %d calls", loader.calls)
	}
	if !end.Timestamp().Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("Expected notification timestamp, got %v", end.Timestamp())
	}
}

func TestSessionEndedEventProcessor_LoadsContextWithoutSnapshot(t *testing.T) {
	p := &SessionEndedEventProcessor{Namespace: "ns"}
	loader := &stubLoader{}
	n := endedNotification(false)

	sig, err := p.Process(context.Background(), &n, loader)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if loader.calls != 1 {
		t.Errorf("Expected loader to be called once, got %d", loader.calls)
	}
	if sig.Context().Namespace != "loaded" {
		t.Errorf("Expected loaded context, got %+v", sig.Context())
	}
}

func TestSessionEndedEventProcessor_Defeat(t *testing.T) {
	n := endedNotification(true)
	n.Ended.Outcome = session.OutcomeDefeat
	n.Ended.Victory = nil

	sig, err := (&SessionEndedEventProcessor{}).Process(context.Background(), n, &stubLoader{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	end := sig.(*SessionEndSignal)
	if end.Victory || end.VictoryType != "" {
		t.Errorf("Expected defeat, got victory=%v type=%q", end.Victory, end.VictoryType)
	}
	if end.Metadata()["outcome"] != "defeat" {
		t.Errorf("Expected outcome defeat, got %v", end.Metadata()["outcome"])
	}
}

func TestSessionEndedEventProcessor_Invalid(t *testing.T) {
	p := &SessionEndedEventProcessor{}
	var nilNotification *engine.Notification

	noResult := endedNotification(true)
	noResult.Ended = nil

	wrongKind := endedNotification(true)
	wrongKind.Kind = engine.KindSessionStarted

	noPlayer := endedNotification(true)
	noPlayer.PlayerID = ""

	tests := []struct {
		name  string
		event interface{}
	}{
		{"wrong type", "not a notification"},
		{"nil pointer", nilNotification},
		{"missing result", noResult},
		{"wrong kind", wrongKind},
		{"missing player", noPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Process(context.Background(), tt.event, &stubLoader{}); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestRegisterEventProcessors(t *testing.T) {
	registry := signal.NewEventProcessorRegistry()
	RegisterEventProcessors(registry, "ns")

	if registry.Get(string(engine.KindSessionEnded)) == nil {
		t.Fatal("Expected session_ended processor to be registered")
	}
}
