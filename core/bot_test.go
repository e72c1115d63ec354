package core

import (
	"testing"
	"time"
)

func TestBotRespectsLockout(t *testing.T) {
	r := newSessionRig(t, nil, nil)
	bot := NewBot(r.Session, 42)

	if !bot.Act() {
		t.Fatal("first Act did not drop")
	}
	if bot.Act() {
		t.Error("Act dropped inside the lockout")
	}
	r.clock.Advance(200 * time.Millisecond)
	if !bot.Act() {
		t.Error("Act did not drop after the lockout")
	}
	if bot.Drops() != 2 || r.Turn() != 2 {
		t.Errorf("drops=%d turn=%d, want 2, 2", bot.Drops(), r.Turn())
	}
}

func TestBotAimsAtMatchingTier(t *testing.T) {
	r := newSessionRig(t, noGravity, nil)
	target := r.mustDrop(t, 500)
	r.clock.Advance(200 * time.Millisecond)

	bot := NewBot(r.Session, 42)
	bot.aim = 1
	bot.Act()

	pieces := r.Pieces()
	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(pieces))
	}
	if pieces[1].X != target.X {
		t.Errorf("bot dropped at x=%v, want %v", pieces[1].X, target.X)
	}
}
