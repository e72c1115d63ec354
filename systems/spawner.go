package systems

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/clock"
)

// ErrRateLimited is returned when a drop would exceed the sliding window.
var ErrRateLimited = errors.New("spawn: drop rate limited")

// BagRandomizer deals tier IDs from a shuffled bag holding a fixed number of
// copies of each allowed ID, refilling when empty.
type BagRandomizer struct {
	allowed []int
	copies  int
	bag     []int
	rng     *rand.Rand
}

func NewBagRandomizer(allowed []int, copies int, rng *rand.Rand) *BagRandomizer {
	return &BagRandomizer{
		allowed: slices.Clone(allowed),
		copies:  copies,
		rng:     rng,
	}
}

func (b *BagRandomizer) refill() {
	b.bag = b.bag[:0]
	for _, id := range b.allowed {
		for i := 0; i < b.copies; i++ {
			b.bag = append(b.bag, id)
		}
	}
	b.rng.Shuffle(len(b.bag), func(i, j int) {
		b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
	})
}

// Draw pops the next ID from the end of the bag.
func (b *BagRandomizer) Draw() int {
	if len(b.bag) == 0 {
		b.refill()
	}
	id := b.bag[len(b.bag)-1]
	b.bag = b.bag[:len(b.bag)-1]
	return id
}

// Remaining returns the number of IDs left before a refill.
func (b *BagRandomizer) Remaining() int {
	return len(b.bag)
}

// Reset empties the bag so the next draw reshuffles.
func (b *BagRandomizer) Reset() {
	b.bag = b.bag[:0]
}

// Spawner decides which tier is dropped next and rate-limits drops.
type Spawner struct {
	cfg   cfg.SpawnConfig
	tiers cfg.TierCatalog
	clock clock.Clock
	bag   *BagRandomizer

	lowest    int
	current   cfg.Tier
	next      cfg.Tier
	dropTimes []time.Time
	turn      int
	startedAt time.Time
}

// NewSpawner refuses to start without a valid tier to produce. A nil rng is
// seeded from the clock.
func NewSpawner(c cfg.Config, clk clock.Clock, rng *rand.Rand) (*Spawner, error) {
	if len(c.Spawn.AllowedTiers) == 0 {
		return nil, cfg.ErrNoSpawnTiers
	}
	for _, id := range c.Spawn.AllowedTiers {
		if _, ok := c.Tiers.Tier(id); !ok {
			return nil, fmt.Errorf("spawn: allowed tier %d: %w", id, cfg.ErrUnknownTier)
		}
	}
	if c.Spawn.BagCopies < 1 {
		return nil, errors.New("spawn: bag copies must be at least 1")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(clk.Now().UnixNano()))
	}

	s := &Spawner{
		cfg:    c.Spawn,
		tiers:  c.Tiers,
		clock:  clk,
		bag:    NewBagRandomizer(c.Spawn.AllowedTiers, c.Spawn.BagCopies, rng),
		lowest: slices.Min(c.Spawn.AllowedTiers),
	}
	s.Reset()
	return s, nil
}

// draw picks the tier for a given turn. Opening turns always get the lowest
// allowed tier.
func (s *Spawner) draw(turn int) cfg.Tier {
	if turn < s.cfg.OpeningTurns {
		return s.tiers.MustTier(s.lowest)
	}
	return s.tiers.MustTier(s.bag.Draw())
}

// Reset reinitialises bag, turn counter and drop history.
func (s *Spawner) Reset() {
	s.bag.Reset()
	s.dropTimes = s.dropTimes[:0]
	s.turn = 0
	s.startedAt = s.clock.Now()
	s.current = s.draw(0)
	s.next = s.draw(1)
}

func (s *Spawner) CurrentTier() cfg.Tier { return s.current }
func (s *Spawner) NextTier() cfg.Tier    { return s.next }

// TurnCount returns the number of accepted drops.
func (s *Spawner) TurnCount() int { return s.turn }

// Elapsed returns game time since the last reset.
func (s *Spawner) Elapsed() time.Duration {
	return s.clock.Now().Sub(s.startedAt)
}

// prune forgets drops that left the trailing window.
func (s *Spawner) prune(now time.Time) {
	keep := 0
	for _, t := range s.dropTimes {
		if now.Sub(t) < s.cfg.DropRateWindow {
			s.dropTimes[keep] = t
			keep++
		}
	}
	s.dropTimes = s.dropTimes[:keep]
}

// CanDrop reports whether fewer than DropRateLimit drops happened in the
// trailing window.
func (s *Spawner) CanDrop() bool {
	s.prune(s.clock.Now())
	return len(s.dropTimes) < s.cfg.DropRateLimit
}

// CooldownProgress is 1 when a drop is allowed, otherwise the fraction of the
// window that has passed since the oldest counted drop.
func (s *Spawner) CooldownProgress() float64 {
	now := s.clock.Now()
	s.prune(now)
	if len(s.dropTimes) < s.cfg.DropRateLimit {
		return 1
	}
	p := float64(now.Sub(s.dropTimes[0])) / float64(s.cfg.DropRateWindow)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ConsumePiece returns the current tier and advances. Callers check CanDrop
// first; a rate-limited call changes nothing and returns ErrRateLimited.
func (s *Spawner) ConsumePiece() (cfg.Tier, error) {
	if !s.CanDrop() {
		return cfg.Tier{}, ErrRateLimited
	}
	s.dropTimes = append(s.dropTimes, s.clock.Now())

	tier := s.current
	s.turn++
	s.current = s.next
	s.next = s.draw(s.turn + 1)
	return tier, nil
}
