package core

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/clock"
	"github.com/automoto/novadrop/shared/messages"
	"github.com/automoto/novadrop/systems"
)

var epoch = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

const tick = time.Second / 60

type sessionRig struct {
	*Session
	clock *clock.Manual
	rec   *messages.Recorder
}

func newSessionRig(t *testing.T, mutate func(*cfg.Config), handler *GameOverHandler) *sessionRig {
	t.Helper()
	c := cfg.Default()
	if mutate != nil {
		mutate(&c)
	}
	clk := clock.NewManual(epoch)
	rec := &messages.Recorder{}
	s, err := NewSession(c, Options{
		Clock:    clk,
		Rand:     rand.New(rand.NewSource(3)),
		Sink:     rec,
		GameOver: handler,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return &sessionRig{Session: s, clock: clk, rec: rec}
}

func noGravity(c *cfg.Config) { c.Physics.Gravity = 0 }

func (r *sessionRig) run(n int) {
	for i := 0; i < n; i++ {
		r.clock.Advance(tick)
		r.Tick(tick)
	}
}

func (r *sessionRig) mustDrop(t *testing.T, x float64) systems.Piece {
	t.Helper()
	p, err := r.Drop(x)
	if err != nil {
		t.Fatalf("Drop(%v): %v", x, err)
	}
	return p
}

// endGame parks a piece above the line long enough to lose: it is tracked at
// turn 1, and three more drops reach the turn limit.
func (r *sessionRig) endGame(t *testing.T) {
	t.Helper()
	r.mustDrop(t, 100)
	r.clock.Advance(1600 * time.Millisecond)
	r.Tick(tick)
	for _, x := range []float64{250, 400, 550} {
		r.clock.Advance(300 * time.Millisecond)
		r.mustDrop(t, x)
	}
	if !r.IsGameOver() {
		t.Fatal("game did not end")
	}
}

func TestDropClampsToArena(t *testing.T) {
	r := newSessionRig(t, nil, nil)

	p := r.mustDrop(t, -50)
	if p.X != p.Radius || p.Y != r.Config().Arena.DropY {
		t.Errorf("dropped at (%v, %v), want (%v, %v)", p.X, p.Y, p.Radius, r.Config().Arena.DropY)
	}

	r.clock.Advance(time.Second)
	p = r.mustDrop(t, 5000)
	if want := r.Config().Arena.Width - p.Radius; p.X != want {
		t.Errorf("dropped at x=%v, want %v", p.X, want)
	}

	turns := messages.Of[messages.TurnAdvanced](r.rec)
	if len(turns) != 2 || turns[1].Turn != 2 {
		t.Errorf("unexpected turn events %+v", turns)
	}
}

func TestDropLockout(t *testing.T) {
	r := newSessionRig(t, nil, nil)
	r.mustDrop(t, 200)

	r.clock.Advance(199 * time.Millisecond)
	if r.CanDrop() {
		t.Error("CanDrop() = true inside the lockout")
	}
	if _, err := r.Drop(400); !errors.Is(err, ErrDropInProgress) {
		t.Fatalf("Drop error = %v, want ErrDropInProgress", err)
	}
	if r.Turn() != 1 || len(r.Pieces()) != 1 {
		t.Errorf("rejected drop changed state: turn %d, %d pieces", r.Turn(), len(r.Pieces()))
	}

	r.clock.Advance(time.Millisecond)
	r.mustDrop(t, 400)
}

func TestDropRateLimit(t *testing.T) {
	r := newSessionRig(t, nil, nil)
	for i := 0; i < 6; i++ {
		r.mustDrop(t, float64(60+i*100))
		r.clock.Advance(250 * time.Millisecond)
	}

	current, next := r.CurrentTier(), r.NextTier()
	if _, err := r.Drop(360); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Drop error = %v, want ErrRateLimited", err)
	}
	if r.Turn() != 6 || r.CurrentTier() != current || r.NextTier() != next {
		t.Error("rejected drop changed the spawner")
	}
	if len(r.Pieces()) != 6 {
		t.Errorf("%d pieces, want 6", len(r.Pieces()))
	}
}

func TestMergeAddsScoreAndQueuesCues(t *testing.T) {
	r := newSessionRig(t, noGravity, nil)
	r.mustDrop(t, 300)
	r.clock.Advance(200 * time.Millisecond)
	r.mustDrop(t, 340)

	r.run(12)

	if r.Score() != 2 {
		t.Errorf("Score() = %d, want 2", r.Score())
	}
	changes := messages.Of[messages.ScoreChanged](r.rec)
	if len(changes) != 1 || changes[0].Score != 2 {
		t.Errorf("unexpected score events %+v", changes)
	}
	pieces := r.Pieces()
	if len(pieces) != 1 || pieces[0].TierID != 2 {
		t.Fatalf("expected one tier-2 piece, got %+v", pieces)
	}

	cues := systems.DrainSFX(r.ECS())
	want := []cfg.SoundID{cfg.SoundDrop, cfg.SoundDrop, cfg.MergeSound(2)}
	if !slices.Equal(cues, want) {
		t.Errorf("cues = %v, want %v", cues, want)
	}
}

func TestTickReportsPiecePositions(t *testing.T) {
	r := newSessionRig(t, nil, nil)
	p := r.mustDrop(t, 360)

	r.run(1)

	moved := messages.Of[messages.PieceMoved](r.rec)
	if len(moved) != 1 || moved[0].ID != p.ID {
		t.Fatalf("unexpected move events %+v", moved)
	}
	if moved[0].Y <= p.Y {
		t.Errorf("piece did not fall: y=%v", moved[0].Y)
	}
}

func TestGameOverFlow(t *testing.T) {
	r := newSessionRig(t, noGravity, nil)
	r.endGame(t)

	overs := messages.Of[messages.GameOver](r.rec)
	if len(overs) != 1 || overs[0].FinalScore != 0 {
		t.Fatalf("unexpected game over events %+v", overs)
	}
	if _, err := r.Drop(360); !errors.Is(err, ErrGameOver) {
		t.Errorf("Drop error = %v, want ErrGameOver", err)
	}
	if r.CanDrop() {
		t.Error("CanDrop() = true after game over")
	}

	r.rec.Reset()
	r.run(5)
	if n := len(messages.Of[messages.PieceMoved](r.rec)); n != 0 {
		t.Errorf("%d move events after game over", n)
	}
	if len(messages.Of[messages.GameOver](r.rec)) != 0 {
		t.Error("game over emitted twice")
	}
}

func TestResetStartsFreshGame(t *testing.T) {
	r := newSessionRig(t, noGravity, nil)
	r.endGame(t)
	r.rec.Reset()

	r.Reset()

	if r.IsGameOver() || r.Score() != 0 || r.Turn() != 0 || len(r.Pieces()) != 0 {
		t.Fatalf("reset left state: over=%v score=%d turn=%d pieces=%d",
			r.IsGameOver(), r.Score(), r.Turn(), len(r.Pieces()))
	}
	if !r.CanDrop() {
		t.Error("CanDrop() = false after reset")
	}
	vis := messages.Of[messages.DangerVisible](r.rec)
	if len(vis) != 1 || vis[0].Visible {
		t.Errorf("expected the indicator to be hidden once, got %+v", vis)
	}
	r.mustDrop(t, 360)
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	c := cfg.Default()
	c.Spawn.AllowedTiers = nil
	if _, err := NewSession(c, Options{}); !errors.Is(err, cfg.ErrNoSpawnTiers) {
		t.Errorf("err = %v, want ErrNoSpawnTiers", err)
	}
}

func TestSubmitScoreRequiresGameOver(t *testing.T) {
	r := newSessionRig(t, nil, nil)
	if err := r.SubmitScore("tester", ""); !errors.Is(err, ErrNotOver) {
		t.Errorf("err = %v, want ErrNotOver", err)
	}
}
