package systems

import (
	"math"
	"testing"
	"time"

	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/clock"
	"github.com/automoto/novadrop/shared/messages"
)

var epoch = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type mergeRig struct {
	cfg   cfg.Config
	clock *clock.Manual
	world *PhysicsWorld
	merge *MergeSystem
	rec   *messages.Recorder
}

// newMergeRig builds a world without gravity so pieces stay where they are put.
func newMergeRig(t *testing.T, mutate func(*cfg.Config)) *mergeRig {
	t.Helper()
	c := cfg.Default()
	c.Physics.Gravity = 0
	if mutate != nil {
		mutate(&c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	rec := &messages.Recorder{}
	clk := clock.NewManual(epoch)
	pw := NewPhysicsWorld(c, rec)
	return &mergeRig{
		cfg:   c,
		clock: clk,
		world: pw,
		merge: NewMergeSystem(c, pw, clk, rec),
		rec:   rec,
	}
}

// run advances the clock and runs physics then merge, n times.
func (r *mergeRig) run(n int) {
	for i := 0; i < n; i++ {
		r.clock.Advance(tick)
		r.world.Step(tick)
		r.merge.Update(r.clock.Now(), tick)
	}
}

func (r *mergeRig) spawn(tierID int, x, y float64) Piece {
	return r.world.CreatePiece(r.cfg.Tiers.MustTier(tierID), x, y)
}

func TestMergeTwoTierOnePieces(t *testing.T) {
	r := newMergeRig(t, nil)
	a := r.spawn(1, 300, 1000)
	b := r.spawn(1, 340, 1000)

	r.run(12)

	if _, ok := r.world.Piece(a.ID); ok {
		t.Error("first piece survived the merge")
	}
	if _, ok := r.world.Piece(b.ID); ok {
		t.Error("second piece survived the merge")
	}

	pieces := r.world.Pieces()
	if len(pieces) != 1 || pieces[0].TierID != 2 {
		t.Fatalf("expected one tier-2 piece, got %+v", pieces)
	}
	if math.Abs(pieces[0].X-320) > 1 || math.Abs(pieces[0].Y-1000) > 1 {
		t.Errorf("merged piece at (%v, %v), want midpoint (320, 1000)", pieces[0].X, pieces[0].Y)
	}

	merges := messages.Of[messages.MergeComplete](r.rec)
	if len(merges) != 1 {
		t.Fatalf("expected one MergeComplete, got %+v", merges)
	}
	m := merges[0]
	if m.NewPieceID != pieces[0].ID || m.PreviousTier != 1 || m.Score != 2 || m.Multiplier != 1.0 {
		t.Errorf("unexpected merge event %+v", m)
	}

	combo := r.merge.Combo()
	if combo.Count != 1 || combo.Multiplier != 1.0 {
		t.Errorf("combo = %+v, want count 1 multiplier 1.0", combo)
	}
	if r.merge.CandidateCount() != 0 {
		t.Errorf("CandidateCount() = %d, want 0", r.merge.CandidateCount())
	}

	removed := messages.Of[messages.PieceRemoved](r.rec)
	for _, rm := range removed {
		if rm.Reason != messages.RemovedMerged {
			t.Errorf("unexpected removal reason %v", rm.Reason)
		}
	}
}

func TestSecondMergeWithinComboWindow(t *testing.T) {
	r := newMergeRig(t, nil)
	r.spawn(1, 150, 1000)
	r.spawn(1, 190, 1000)
	r.run(30) // 500ms

	r.spawn(1, 500, 1000)
	r.spawn(1, 540, 1000)
	r.run(12)

	merges := messages.Of[messages.MergeComplete](r.rec)
	if len(merges) != 2 {
		t.Fatalf("expected two merges, got %+v", merges)
	}
	second := merges[1]
	if math.Abs(second.Multiplier-1.1) > 1e-9 {
		t.Errorf("second multiplier = %v, want 1.1", second.Multiplier)
	}
	// Points of the colliding tier, floored after the multiplier
	if second.Score != 2 {
		t.Errorf("second score = %d, want floor(2*1.1)=2", second.Score)
	}
	if combo := r.merge.Combo(); combo.Count != 2 {
		t.Errorf("combo count = %d, want 2", combo.Count)
	}

	updates := messages.Of[messages.ComboUpdate](r.rec)
	if len(updates) != 2 || updates[1].Count != 2 {
		t.Errorf("unexpected combo updates %+v", updates)
	}
}

func smallCatalog() cfg.TierCatalog {
	return cfg.NewTierCatalog(
		cfg.Tier{ID: 1, Name: "Small", Radius: 10, Points: 1},
		cfg.Tier{ID: 2, Name: "Medium", Radius: 15, Points: 3},
		cfg.Tier{ID: 3, Name: "Top", Radius: 20, Points: 9, Capped: true},
	)
}

func TestTerminalTierClears(t *testing.T) {
	r := newMergeRig(t, func(c *cfg.Config) {
		c.Tiers = smallCatalog()
		c.Spawn.AllowedTiers = []int{1}
	})
	a := r.spawn(3, 300, 1000)
	b := r.spawn(3, 340, 1000)

	r.run(12)

	if r.world.Count() != 0 {
		t.Errorf("expected no pieces after clear, got %+v", r.world.Pieces())
	}
	if len(messages.Of[messages.MergeComplete](r.rec)) != 0 {
		t.Error("clear must not emit MergeComplete")
	}
	created := messages.Of[messages.PieceCreated](r.rec)
	if len(created) != 2 {
		t.Errorf("clear must not create a piece, saw %d creations", len(created))
	}

	clears := messages.Of[messages.BigClear](r.rec)
	if len(clears) != 1 {
		t.Fatalf("expected one BigClear, got %+v", clears)
	}
	bc := clears[0]
	if bc.TierID != 3 || bc.Score != r.cfg.Merge.ClearScore || bc.Multiplier != 1.0 {
		t.Errorf("unexpected clear %+v", bc)
	}
	if math.Abs(bc.X-320) > 1 {
		t.Errorf("clear at x=%v, want 320", bc.X)
	}
	if combo := r.merge.Combo(); combo.Count != 1 {
		t.Errorf("combo count = %d, want 1", combo.Count)
	}
	for _, rm := range messages.Of[messages.PieceRemoved](r.rec) {
		if rm.ID != a.ID && rm.ID != b.ID || rm.Reason != messages.RemovedCleared {
			t.Errorf("unexpected removal %+v", rm)
		}
	}
}

func TestTerminalTierWithoutClearNeverMerges(t *testing.T) {
	r := newMergeRig(t, func(c *cfg.Config) {
		c.Tiers = smallCatalog()
		c.Spawn.AllowedTiers = []int{1}
		c.Merge.TerminalClear = false
	})
	a := r.spawn(3, 300, 1000)
	b := r.spawn(3, 340, 1000)

	if r.merge.HandleCollision(a.ID, b.ID) {
		t.Error("capped tier opened a candidate")
	}
}

func TestHandleCollisionIdempotent(t *testing.T) {
	r := newMergeRig(t, nil)
	a := r.spawn(1, 300, 1000)
	b := r.spawn(1, 340, 1000)
	other := r.spawn(2, 400, 1000)

	r.world.Accelerate(a.ID, 600, 0, time.Second) // 600 px/s

	if !r.merge.HandleCollision(a.ID, b.ID) {
		t.Fatal("expected a candidate")
	}
	if r.merge.HandleCollision(b.ID, a.ID) {
		t.Error("second collision of the same pair created a candidate")
	}
	if r.merge.HandleCollision(a.ID, other.ID) {
		t.Error("different tiers created a candidate")
	}
	if r.merge.HandleCollision(a.ID, a.ID) {
		t.Error("self collision created a candidate")
	}
	if r.merge.CandidateCount() != 1 {
		t.Errorf("CandidateCount() = %d, want 1", r.merge.CandidateCount())
	}

	c, ok := r.merge.Candidate(b.ID, a.ID)
	if !ok || c.State != CandidatePending || c.Key != NewPairKey(a.ID, b.ID) {
		t.Errorf("Candidate() = %+v, %v", c, ok)
	}

	got, _ := r.world.Piece(a.ID)
	if math.Abs(got.VX-60) > 1e-6 {
		t.Errorf("sticky velocity = %v, want 60", got.VX)
	}
	if got.Restitution != r.cfg.Merge.StickyRestitution || got.Friction != r.cfg.Merge.StickyFriction {
		t.Errorf("sticky material not applied: %+v", got)
	}
}

func TestCandidateCancelledWhenApart(t *testing.T) {
	r := newMergeRig(t, nil)
	a := r.spawn(1, 100, 1000)
	b := r.spawn(1, 300, 1000)

	if !r.merge.HandleCollision(a.ID, b.ID) {
		t.Fatal("expected a candidate")
	}
	r.clock.Advance(100 * time.Millisecond)
	r.merge.Update(r.clock.Now(), tick)

	if r.merge.CandidateCount() != 0 {
		t.Error("candidate survived failed proximity check")
	}
	if len(messages.Of[messages.MergeComplete](r.rec)) != 0 {
		t.Error("cancelled candidate merged")
	}
	got, _ := r.world.Piece(a.ID)
	if got.Restitution != r.cfg.Physics.Restitution || got.Friction != r.cfg.Physics.Friction {
		t.Errorf("material not restored after cancel: %+v", got)
	}
}

func TestCandidateWaitsForRest(t *testing.T) {
	r := newMergeRig(t, nil)
	a := r.spawn(1, 300, 1000)
	b := r.spawn(1, 340, 1000)
	r.merge.HandleCollision(a.ID, b.ID)

	r.clock.Advance(r.cfg.Merge.MergeRest - time.Millisecond)
	r.merge.Update(r.clock.Now(), tick)
	if r.merge.CandidateCount() != 1 {
		t.Fatal("candidate resolved before rest period")
	}

	r.clock.Advance(time.Millisecond)
	r.merge.Update(r.clock.Now(), tick)
	if r.merge.CandidateCount() != 0 || len(messages.Of[messages.MergeComplete](r.rec)) != 1 {
		t.Error("candidate not resolved once rest period elapsed")
	}
}

func TestRestSpeedBlocksConfirmation(t *testing.T) {
	r := newMergeRig(t, func(c *cfg.Config) {
		c.Merge.MergeRestSpeed = 5
	})
	a := r.spawn(1, 300, 1000)
	b := r.spawn(1, 340, 1000)
	r.merge.HandleCollision(a.ID, b.ID)
	r.world.Accelerate(a.ID, 0, 1000, time.Second)

	r.clock.Advance(r.cfg.Merge.MergeRest)
	r.merge.Update(r.clock.Now(), 0)

	if len(messages.Of[messages.MergeComplete](r.rec)) != 0 {
		t.Error("fast piece merged despite rest speed limit")
	}
}

func TestCandidateDroppedWhenPieceMissing(t *testing.T) {
	r := newMergeRig(t, nil)
	a := r.spawn(1, 300, 1000)
	b := r.spawn(1, 340, 1000)
	r.merge.HandleCollision(a.ID, b.ID)

	r.world.RemovePiece(a.ID)
	r.clock.Advance(time.Second)
	r.merge.Update(r.clock.Now(), tick)

	if r.merge.CandidateCount() != 0 {
		t.Error("candidate kept after piece vanished")
	}
	if len(messages.Of[messages.MergeComplete](r.rec)) != 0 {
		t.Error("merge happened with a missing piece")
	}
	got, _ := r.world.Piece(b.ID)
	if got.Friction != r.cfg.Physics.Friction {
		t.Errorf("survivor material not restored: %+v", got)
	}
}

func TestSharedPieceResolvesOnce(t *testing.T) {
	r := newMergeRig(t, nil)
	a := r.spawn(1, 300, 1000)
	b := r.spawn(1, 340, 1000)
	c := r.spawn(1, 300, 1040)
	r.merge.HandleCollision(a.ID, b.ID)
	r.merge.HandleCollision(a.ID, c.ID)

	r.clock.Advance(r.cfg.Merge.MergeRest)
	r.merge.Update(r.clock.Now(), 0)

	merges := messages.Of[messages.MergeComplete](r.rec)
	if len(merges) != 1 {
		t.Fatalf("expected one merge for a shared piece, got %d", len(merges))
	}
	// Pair keys are ordered, so (a, b) wins over (a, c)
	if _, ok := r.world.Piece(c.ID); !ok {
		t.Error("piece from the losing pair was removed")
	}
}

func TestComboDecay(t *testing.T) {
	r := newMergeRig(t, nil)
	a := r.spawn(1, 300, 1000)
	b := r.spawn(1, 340, 1000)
	r.merge.HandleCollision(a.ID, b.ID)
	r.clock.Advance(r.cfg.Merge.MergeRest)
	r.merge.Update(r.clock.Now(), 0)

	r.clock.Advance(r.cfg.Merge.ComboWindow - time.Millisecond)
	r.merge.Update(r.clock.Now(), 0)
	if r.merge.Combo().Count != 1 {
		t.Fatal("combo decayed early")
	}

	r.clock.Advance(time.Millisecond)
	r.merge.Update(r.clock.Now(), 0)
	combo := r.merge.Combo()
	if combo.Count != 0 || combo.Multiplier != 1.0 {
		t.Errorf("combo = %+v, want decayed", combo)
	}
	updates := messages.Of[messages.ComboUpdate](r.rec)
	last := updates[len(updates)-1]
	if last.Count != 0 || last.Multiplier != 1.0 {
		t.Errorf("last combo update %+v, want reset", last)
	}

	// No further decay events once reset
	r.clock.Advance(time.Second)
	r.merge.Update(r.clock.Now(), 0)
	if got := len(messages.Of[messages.ComboUpdate](r.rec)); got != len(updates) {
		t.Errorf("extra combo updates after decay: %d", got-len(updates))
	}
}

func TestComboMultiplierBounded(t *testing.T) {
	r := newMergeRig(t, nil)
	for i := 0; i < 9; i++ {
		a := r.spawn(1, 300, 200+float64(i)*100)
		b := r.spawn(1, 340, 200+float64(i)*100)
		r.merge.HandleCollision(a.ID, b.ID)
		r.clock.Advance(r.cfg.Merge.MergeRest)
		r.merge.Update(r.clock.Now(), 0)

		m := r.merge.Combo().Multiplier
		if m < 1.0 || m > 1.5+1e-9 {
			t.Fatalf("multiplier %v out of bounds at count %d", m, r.merge.Combo().Count)
		}
	}
	if got := r.merge.Combo(); got.Count != 9 || math.Abs(got.Multiplier-1.5) > 1e-9 {
		t.Errorf("combo = %+v, want count 9 at the 1.5 cap", got)
	}
}

func TestMergeReset(t *testing.T) {
	r := newMergeRig(t, nil)
	a := r.spawn(1, 300, 1000)
	b := r.spawn(1, 340, 1000)
	r.merge.HandleCollision(a.ID, b.ID)

	r.merge.Reset()
	if r.merge.CandidateCount() != 0 || r.merge.Combo().Multiplier != 1.0 {
		t.Error("reset left state behind")
	}
}
