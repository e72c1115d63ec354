package systems

import (
	"maps"
	"slices"
	"time"

	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/clock"
	"github.com/automoto/novadrop/shared/gamemath"
	"github.com/automoto/novadrop/shared/messages"
	"github.com/yohamta/donburi"
)

// CandidateState is the lifecycle stage of a merge candidate.
type CandidateState int

const (
	CandidatePending CandidateState = iota
	CandidateConfirmed
	CandidateResolved
	CandidateCancelled
)

func (s CandidateState) String() string {
	switch s {
	case CandidatePending:
		return "pending"
	case CandidateConfirmed:
		return "confirmed"
	case CandidateResolved:
		return "resolved"
	case CandidateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Candidate is a provisional merge of two same-tier pieces.
type Candidate struct {
	Key       PairKey
	TierID    int
	CreatedAt time.Time
	State     CandidateState
}

// ComboState tracks the merge streak. Multiplier is 1.0 when Count is 0.
type ComboState struct {
	Count       int
	LastMergeAt time.Time
	Multiplier  float64
}

// MergeSystem turns same-tier collisions into merges.
type MergeSystem struct {
	cfg   cfg.MergeConfig
	tiers cfg.TierCatalog
	world *PhysicsWorld
	clock clock.Clock
	sink  messages.Sink

	candidates map[PairKey]*Candidate
	combo      ComboState
}

// NewMergeSystem subscribes to the world's collision events.
func NewMergeSystem(c cfg.Config, world *PhysicsWorld, clk clock.Clock, sink messages.Sink) *MergeSystem {
	if sink == nil {
		sink = messages.Discard
	}
	ms := &MergeSystem{
		cfg:        c.Merge,
		tiers:      c.Tiers,
		world:      world,
		clock:      clk,
		sink:       sink,
		candidates: make(map[PairKey]*Candidate),
		combo:      ComboState{Multiplier: 1.0},
	}
	CollisionStartEvent.Subscribe(world.World(), ms.onCollisionStart)
	return ms
}

func (ms *MergeSystem) onCollisionStart(w donburi.World, e messages.CollisionStart) {
	ms.HandleCollision(e.A, e.B)
}

// eligible reports whether a tier may open a candidate.
func (ms *MergeSystem) eligible(t cfg.Tier) bool {
	if t.Mergeable() {
		return true
	}
	return ms.cfg.TerminalClear && t.ID == ms.tiers.Terminal().ID
}

// HandleCollision opens a candidate for a same-tier pair and makes both pieces
// sticky. It returns false when no candidate was created.
func (ms *MergeSystem) HandleCollision(a, b uint64) bool {
	if a == b {
		return false
	}
	pa, okA := ms.world.Piece(a)
	pb, okB := ms.world.Piece(b)
	if !okA || !okB || pa.TierID != pb.TierID {
		return false
	}
	tier, ok := ms.tiers.Tier(pa.TierID)
	if !ok || !ms.eligible(tier) {
		return false
	}

	key := NewPairKey(a, b)
	if _, exists := ms.candidates[key]; exists {
		return false
	}

	ms.candidates[key] = &Candidate{
		Key:       key,
		TierID:    tier.ID,
		CreatedAt: ms.clock.Now(),
		State:     CandidatePending,
	}
	ms.world.MakeSticky(a, ms.cfg.StickyVelocityScale, ms.cfg.StickyRestitution, ms.cfg.StickyFriction)
	ms.world.MakeSticky(b, ms.cfg.StickyVelocityScale, ms.cfg.StickyRestitution, ms.cfg.StickyFriction)
	return true
}

// Update attracts young candidates, confirms or cancels rested ones and
// decays the combo. Candidates are processed in pair-key order.
func (ms *MergeSystem) Update(now time.Time, dt time.Duration) {
	keys := slices.SortedFunc(maps.Keys(ms.candidates), comparePairKeys)

	for _, key := range keys {
		c := ms.candidates[key]
		pa, okA := ms.world.Piece(key.Lo)
		pb, okB := ms.world.Piece(key.Hi)
		if !okA || !okB {
			ms.drop(c)
			continue
		}

		if now.Sub(c.CreatedAt) < ms.cfg.MergeRest {
			combined := pa.Radius + pb.Radius
			ax, ay := gamemath.Attraction(pa.X, pa.Y, pb.X, pb.Y, ms.cfg.AttractStrength, ms.cfg.AttractRange*combined)
			ms.world.Accelerate(key.Lo, ax, ay, dt)
			ms.world.Accelerate(key.Hi, -ax, -ay, dt)
			continue
		}

		if !ms.canConfirm(pa, pb) {
			c.State = CandidateCancelled
			ms.drop(c)
			continue
		}

		c.State = CandidateConfirmed
		ms.resolve(c, pa, pb, now)
		c.State = CandidateResolved
		delete(ms.candidates, key)
	}

	ms.decayCombo(now)
}

func (ms *MergeSystem) canConfirm(a, b Piece) bool {
	limit := ms.cfg.ProximityFactor * (a.Radius + b.Radius)
	if gamemath.Distance(a.X, a.Y, b.X, b.Y) > limit {
		return false
	}
	if ms.cfg.MergeRestSpeed > 0 {
		if a.Speed() > ms.cfg.MergeRestSpeed || b.Speed() > ms.cfg.MergeRestSpeed {
			return false
		}
	}
	return true
}

// drop discards a candidate and restores surviving pieces' materials.
func (ms *MergeSystem) drop(c *Candidate) {
	ms.world.ReleaseSticky(c.Key.Lo)
	ms.world.ReleaseSticky(c.Key.Hi)
	delete(ms.candidates, c.Key)
}

func (ms *MergeSystem) resolve(c *Candidate, a, b Piece, now time.Time) {
	tier := ms.tiers.MustTier(c.TierID)
	mx := (a.X + b.X) / 2
	my := (a.Y + b.Y) / 2

	if tier.Mergeable() {
		next, _ := ms.tiers.Next(tier.ID)
		ms.world.Remove(a.ID, messages.RemovedMerged)
		ms.world.Remove(b.ID, messages.RemovedMerged)
		created := ms.world.CreatePiece(next, mx, my)

		ms.incrementCombo(now)
		score := gamemath.ApplyMultiplier(tier.Points, ms.combo.Multiplier)
		ms.sink.Emit(messages.MergeComplete{
			NewPieceID:   created.ID,
			PreviousTier: tier.ID,
			Score:        score,
			Multiplier:   ms.combo.Multiplier,
		})
		return
	}

	// Terminal tier clear: no replacement piece
	ms.world.Remove(a.ID, messages.RemovedCleared)
	ms.world.Remove(b.ID, messages.RemovedCleared)

	ms.incrementCombo(now)
	score := gamemath.ApplyMultiplier(ms.cfg.ClearScore, ms.combo.Multiplier)
	ms.sink.Emit(messages.BigClear{
		TierID:     tier.ID,
		X:          mx,
		Y:          my,
		Score:      score,
		Multiplier: ms.combo.Multiplier,
	})
}

func (ms *MergeSystem) incrementCombo(now time.Time) {
	if ms.combo.Count > 0 && now.Sub(ms.combo.LastMergeAt) < ms.cfg.ComboWindow {
		ms.combo.Count++
	} else {
		ms.combo.Count = 1
	}
	ms.combo.LastMergeAt = now
	ms.combo.Multiplier = gamemath.ComboMultiplier(ms.combo.Count, ms.cfg.ComboStep, ms.cfg.ComboBonusCap)
	ms.sink.Emit(messages.ComboUpdate{Count: ms.combo.Count, Multiplier: ms.combo.Multiplier})
}

func (ms *MergeSystem) decayCombo(now time.Time) {
	if ms.combo.Count == 0 || now.Sub(ms.combo.LastMergeAt) < ms.cfg.ComboWindow {
		return
	}
	ms.combo.Count = 0
	ms.combo.Multiplier = 1.0
	ms.sink.Emit(messages.ComboUpdate{Count: 0, Multiplier: 1.0})
}

// Combo returns the current combo state.
func (ms *MergeSystem) Combo() ComboState {
	return ms.combo
}

// CandidateCount returns the number of live candidates.
func (ms *MergeSystem) CandidateCount() int {
	return len(ms.candidates)
}

// Candidate returns the candidate covering a pair, if any.
func (ms *MergeSystem) Candidate(a, b uint64) (Candidate, bool) {
	c, ok := ms.candidates[NewPairKey(a, b)]
	if !ok {
		return Candidate{}, false
	}
	return *c, true
}

// Reset discards every candidate and the combo. Piece materials are not
// touched; callers reset the world alongside.
func (ms *MergeSystem) Reset() {
	clear(ms.candidates)
	ms.combo = ComboState{Multiplier: 1.0}
}
