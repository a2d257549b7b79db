package service_test

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kabaddi-live/scoring-service/internal/engine"
	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/service"
)

func newShootoutService(matches *fakeMatchRepo, seed int64) service.ShootoutService {
	return service.NewShootoutService(matches, newFakePlayerRepo(),
		rand.New(rand.NewSource(seed)), zerolog.New(io.Discard))
}

// driveWizard walks the wizard from players_a to the toss step.
func driveWizard(t *testing.T, svc service.ShootoutService) {
	t.Helper()
	ctx := context.Background()
	for _, id := range []int64{11, 12, 13, 14, 15, 16, 17} {
		if err := svc.TogglePlayer(ctx, matchID, id); err != nil {
			t.Fatalf("toggle player %d: %v", id, err)
		}
	}
	if _, err := svc.Advance(ctx, matchID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	for _, id := range []int64{21, 22, 23, 24, 25, 26, 27} {
		if err := svc.TogglePlayer(ctx, matchID, id); err != nil {
			t.Fatalf("toggle player %d: %v", id, err)
		}
	}
	if _, err := svc.Advance(ctx, matchID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	for _, id := range []int64{11, 12, 13, 14, 15} {
		if err := svc.ToggleRaider(ctx, matchID, id); err != nil {
			t.Fatalf("toggle raider %d: %v", id, err)
		}
	}
	if _, err := svc.Advance(ctx, matchID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	for _, id := range []int64{21, 22, 23, 24, 25} {
		if err := svc.ToggleRaider(ctx, matchID, id); err != nil {
			t.Fatalf("toggle raider %d: %v", id, err)
		}
	}
	if _, err := svc.Advance(ctx, matchID); err != nil {
		t.Fatalf("advance: %v", err)
	}
}

func TestShootoutService_RequiresBegin(t *testing.T) {
	svc := newShootoutService(newFakeMatchRepo(liveMatch()), 1)
	ctx := context.Background()

	if err := svc.TogglePlayer(ctx, matchID, 11); !errors.Is(err, service.ErrNoShootout) {
		t.Fatalf("want ErrNoShootout before begin, got %v", err)
	}
	if _, err := svc.State(ctx, matchID); !errors.Is(err, service.ErrNoShootout) {
		t.Fatalf("want ErrNoShootout state, got %v", err)
	}
	if err := svc.RecordRaid(ctx, matchID, 1); !errors.Is(err, service.ErrNoShootout) {
		t.Fatalf("want ErrNoShootout record, got %v", err)
	}
}

func TestShootoutService_BeginRequiresLiveMatch(t *testing.T) {
	done := liveMatch()
	done.Status = model.StatusCompleted
	svc := newShootoutService(newFakeMatchRepo(done), 1)

	if err := svc.Begin(context.Background(), matchID); !errors.Is(err, engine.ErrMatchNotLive) {
		t.Fatalf("want ErrMatchNotLive, got %v", err)
	}
}

func TestShootoutService_FullSetupAndRun(t *testing.T) {
	svc := newShootoutService(newFakeMatchRepo(liveMatch()), 1)
	ctx := context.Background()

	if err := svc.Begin(ctx, matchID); err != nil {
		t.Fatalf("begin: %v", err)
	}
	st, err := svc.State(ctx, matchID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.Step != string(engine.StepPlayersA) || st.Started {
		t.Fatalf("fresh wizard state wrong: %+v", st)
	}

	driveWizard(t, svc)

	winner, err := svc.Toss(ctx, matchID)
	if err != nil {
		t.Fatalf("toss: %v", err)
	}
	if winner != teamA && winner != teamB {
		t.Fatalf("toss winner = %d", winner)
	}

	setup, err := svc.Choose(ctx, matchID, true)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	// Winner raids first, so the winner opens the sequence.
	if setup.FirstRaidingID != winner {
		t.Fatalf("first raiding = %d, want toss winner %d", setup.FirstRaidingID, winner)
	}

	st, err = svc.State(ctx, matchID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !st.Started || len(st.Raids) != 10 || st.NextUp == nil {
		t.Fatalf("run state wrong: started=%v raids=%d", st.Started, len(st.Raids))
	}
	if st.NextUp.TeamID != setup.FirstRaidingID {
		t.Fatalf("next up team = %d, want %d", st.NextUp.TeamID, setup.FirstRaidingID)
	}

	// The wizard is consumed; setup actions are refused from here on.
	if err := svc.TogglePlayer(ctx, matchID, 11); !errors.Is(err, service.ErrNoShootout) {
		t.Fatalf("wizard must be gone after choose, got %v", err)
	}

	for i := 0; i < 10; i++ {
		if err := svc.RecordRaid(ctx, matchID, 1); err != nil {
			t.Fatalf("record raid %d: %v", i, err)
		}
	}
	if err := svc.RecordRaid(ctx, matchID, 1); !errors.Is(err, engine.ErrShootoutFinished) {
		t.Fatalf("want ErrShootoutFinished, got %v", err)
	}

	st, err = svc.State(ctx, matchID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.NextUp != nil {
		t.Fatalf("finished run must have no next raid")
	}
	if st.Scores[teamA] != 5 || st.Scores[teamB] != 5 {
		t.Fatalf("scores = %v, want 5 each", st.Scores)
	}
}

func TestShootoutService_BeginResetsPriorRun(t *testing.T) {
	svc := newShootoutService(newFakeMatchRepo(liveMatch()), 1)
	ctx := context.Background()

	if err := svc.Begin(ctx, matchID); err != nil {
		t.Fatalf("begin: %v", err)
	}
	driveWizard(t, svc)
	if _, err := svc.Toss(ctx, matchID); err != nil {
		t.Fatalf("toss: %v", err)
	}
	if _, err := svc.Choose(ctx, matchID, true); err != nil {
		t.Fatalf("choose: %v", err)
	}

	// A second Begin discards the finished setup and starts over.
	if err := svc.Begin(ctx, matchID); err != nil {
		t.Fatalf("second begin: %v", err)
	}
	st, err := svc.State(ctx, matchID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.Started || st.Step != string(engine.StepPlayersA) {
		t.Fatalf("second begin must reset to the first step: %+v", st)
	}
}
