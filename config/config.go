package config

import (
	"errors"
	"fmt"
	"time"
)

// ArenaConfig contains the logical play area dimensions
type ArenaConfig struct {
	Width  float64
	Height float64

	// Boundary bodies
	WallThickness float64

	// Drop placement
	DropY        float64       // Spawn height of dropped pieces
	DropLockout  time.Duration // Minimum gap between two accepted drops
	PreviewY     float64       // Height of the aiming ghost, used by hosts
	OutOfBoundsY float64       // Extra distance below Height before a piece is discarded
}

// PhysicsConfig contains integrator and material constants
type PhysicsConfig struct {
	Gravity     float64 // Downward acceleration in units of 1000 px/s²
	Restitution float64
	Friction    float64
	AirFriction float64 // Fraction of velocity lost per 1/60 s
	MaxBodies   int

	TimeStep         time.Duration // Fixed sub-step length
	MaxSubSteps      int           // Cap on sub-steps run per Step call
	SolverIterations int           // Contact passes per sub-step
	CellSize         int           // Broad-phase cell size in px
}

// MergeConfig contains merge candidate and combo tuning
type MergeConfig struct {
	MergeRest           time.Duration // Wait before a candidate is evaluated
	ComboWindow         time.Duration
	ProximityFactor     float64 // Confirm when distance <= factor * combined radius
	AttractRange        float64 // Attraction only within range * combined radius
	AttractStrength     float64
	MergeRestSpeed      float64 // px/s; 0 disables the speed check at confirmation
	StickyVelocityScale float64
	StickyRestitution   float64
	StickyFriction      float64

	// Terminal tier handling
	TerminalClear bool // When false the capped tier never merges
	ClearScore    int

	// Combo multiplier: 1 + min(ComboBonusCap, (count-1) * ComboStep)
	ComboStep     float64
	ComboBonusCap float64
}

// DangerConfig contains game-over tuning
type DangerConfig struct {
	LineY          float64 // Top edge at or above this Y is in the zone
	TurnLimit      int
	SuppressWindow time.Duration // Grace period after every drop
}

// SpawnConfig contains drop randomizer and rate limiter tuning
type SpawnConfig struct {
	AllowedTiers   []int
	BagCopies      int
	OpeningTurns   int // Turns below this always draw the lowest allowed tier
	DropRateLimit  int // Drops allowed per DropRateWindow
	DropRateWindow time.Duration
}

// Config is the complete, load-time game configuration. Build it with Default,
// adjust fields, then call Validate once before handing it to the core.
type Config struct {
	Arena   ArenaConfig
	Physics PhysicsConfig
	Merge   MergeConfig
	Danger  DangerConfig
	Spawn   SpawnConfig
	Tiers   TierCatalog
}

// Default returns the shipped tuning.
func Default() Config {
	return Config{
		Arena: ArenaConfig{
			Width:         720,
			Height:        1280,
			WallThickness: 20,
			DropY:         60,
			DropLockout:   200 * time.Millisecond,
			PreviewY:      40,
			OutOfBoundsY:  500,
		},
		Physics: PhysicsConfig{
			Gravity:          1.6,
			Restitution:      0.03, // low bounciness
			Friction:         0.05,
			AirFriction:      0.02,
			MaxBodies:        120,
			TimeStep:         time.Second / 60,
			MaxSubSteps:      4,
			SolverIterations: 4,
			CellSize:         64,
		},
		Merge: MergeConfig{
			MergeRest:           80 * time.Millisecond,
			ComboWindow:         2 * time.Second,
			ProximityFactor:     1.5,
			AttractRange:        2.0,
			AttractStrength:     0.0005,
			MergeRestSpeed:      0,
			StickyVelocityScale: 0.1,
			StickyRestitution:   0.01,
			StickyFriction:      0.9,
			TerminalClear:       true,
			ClearScore:          1000,
			ComboStep:           0.1,
			ComboBonusCap:       0.5,
		},
		Danger: DangerConfig{
			LineY:          160,
			TurnLimit:      3,
			SuppressWindow: 1500 * time.Millisecond,
		},
		Spawn: SpawnConfig{
			AllowedTiers:   []int{1, 2, 3, 4},
			BagCopies:      2,
			OpeningTurns:   2,
			DropRateLimit:  6,
			DropRateWindow: 2 * time.Second,
		},
		Tiers: DefaultTiers(),
	}
}

// Validate reports every problem that would leave the game without a valid
// tier to produce. A non-nil result is fatal.
func (c Config) Validate() error {
	var errs []error

	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena: size must be positive, got %vx%v", c.Arena.Width, c.Arena.Height))
	}
	if c.Danger.LineY < 0 || c.Danger.LineY >= c.Arena.Height {
		errs = append(errs, fmt.Errorf("danger: line y %v outside arena", c.Danger.LineY))
	}
	if c.Danger.TurnLimit < 1 {
		errs = append(errs, errors.New("danger: turn limit must be at least 1"))
	}
	if c.Physics.MaxBodies < 2 {
		errs = append(errs, errors.New("physics: max bodies must allow a pair"))
	}
	if c.Physics.TimeStep <= 0 || c.Physics.MaxSubSteps < 1 || c.Physics.SolverIterations < 1 {
		errs = append(errs, errors.New("physics: time step, sub-steps and solver iterations must be positive"))
	}
	if c.Physics.CellSize < 1 {
		errs = append(errs, errors.New("physics: cell size must be positive"))
	}
	if c.Merge.ProximityFactor <= 0 {
		errs = append(errs, errors.New("merge: proximity factor must be positive"))
	}
	if c.Spawn.DropRateLimit < 1 || c.Spawn.DropRateWindow <= 0 {
		errs = append(errs, errors.New("spawn: drop rate limit and window must be positive"))
	}
	if c.Spawn.BagCopies < 1 {
		errs = append(errs, errors.New("spawn: bag copies must be at least 1"))
	}

	if err := c.Tiers.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(c.Spawn.AllowedTiers) == 0 {
		errs = append(errs, ErrNoSpawnTiers)
	}
	for _, id := range c.Spawn.AllowedTiers {
		if _, ok := c.Tiers.Tier(id); !ok {
			errs = append(errs, fmt.Errorf("spawn: allowed tier %d: %w", id, ErrUnknownTier))
		}
	}

	return errors.Join(errs...)
}
