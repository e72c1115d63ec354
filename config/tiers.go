package config

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTier  = errors.New("unknown tier")
	ErrNoSpawnTiers = errors.New("spawn: no allowed spawn tiers configured")
	ErrEmptyCatalog = errors.New("tiers: catalog is empty")
)

// Tier is one rank of the piece hierarchy. Capped marks the terminal tier.
type Tier struct {
	ID     int
	Name   string
	Radius float64
	Points int
	Capped bool
}

// Mergeable reports whether two pieces of this tier grow into the next tier.
func (t Tier) Mergeable() bool {
	return !t.Capped
}

// TierCatalog is the ordered, immutable table of tiers.
type TierCatalog struct {
	tiers []Tier
}

// NewTierCatalog copies tiers into a catalog. Call Validate before use.
func NewTierCatalog(tiers ...Tier) TierCatalog {
	return TierCatalog{tiers: append([]Tier(nil), tiers...)}
}

// DefaultTiers returns the twelve shipped tiers.
func DefaultTiers() TierCatalog {
	return NewTierCatalog(
		Tier{ID: 1, Name: "Dot", Radius: 20, Points: 2},
		Tier{ID: 2, Name: "Bead", Radius: 26, Points: 5},
		Tier{ID: 3, Name: "Pebble", Radius: 33, Points: 10},
		Tier{ID: 4, Name: "Marble", Radius: 42, Points: 20},
		Tier{ID: 5, Name: "Orb", Radius: 54, Points: 35},
		Tier{ID: 6, Name: "Bubble", Radius: 70, Points: 55},
		Tier{ID: 7, Name: "Moonlet", Radius: 90, Points: 85},
		Tier{ID: 8, Name: "Planetseed", Radius: 115, Points: 130},
		Tier{ID: 9, Name: "Small Planet", Radius: 145, Points: 190},
		Tier{ID: 10, Name: "Giant Planet", Radius: 180, Points: 270},
		Tier{ID: 11, Name: "Star", Radius: 220, Points: 380},
		Tier{ID: 12, Name: "Nova", Radius: 260, Points: 520, Capped: true},
	)
}

// Tier looks a tier up by ID.
func (c TierCatalog) Tier(id int) (Tier, bool) {
	idx := id - 1
	if idx < 0 || idx >= len(c.tiers) {
		return Tier{}, false
	}
	return c.tiers[idx], true
}

// MustTier is Tier for IDs already proven valid by Validate.
func (c TierCatalog) MustTier(id int) Tier {
	t, ok := c.Tier(id)
	if !ok {
		panic(fmt.Sprintf("tier %d: %v", id, ErrUnknownTier))
	}
	return t
}

// Next returns the tier a merged pair of id grows into.
func (c TierCatalog) Next(id int) (Tier, bool) {
	t, ok := c.Tier(id)
	if !ok || t.Capped {
		return Tier{}, false
	}
	return c.Tier(id + 1)
}

// Terminal returns the capped tier.
func (c TierCatalog) Terminal() Tier {
	return c.tiers[len(c.tiers)-1]
}

// Lowest returns the first tier.
func (c TierCatalog) Lowest() Tier {
	return c.tiers[0]
}

// Len returns the number of tiers.
func (c TierCatalog) Len() int {
	return len(c.tiers)
}

// All returns a copy of the catalog in ID order.
func (c TierCatalog) All() []Tier {
	return append([]Tier(nil), c.tiers...)
}

// Validate checks that IDs run 1..N, radius and points grow with the ID, and
// only the last tier is capped.
func (c TierCatalog) Validate() error {
	if len(c.tiers) == 0 {
		return ErrEmptyCatalog
	}

	var errs []error
	for i, t := range c.tiers {
		if t.ID != i+1 {
			errs = append(errs, fmt.Errorf("tiers: position %d has id %d, want %d", i, t.ID, i+1))
		}
		if t.Radius <= 0 {
			errs = append(errs, fmt.Errorf("tiers: tier %d radius must be positive", t.ID))
		}
		if i > 0 {
			prev := c.tiers[i-1]
			if t.Radius <= prev.Radius {
				errs = append(errs, fmt.Errorf("tiers: tier %d radius %v not above tier %d", t.ID, t.Radius, prev.ID))
			}
			if t.Points < prev.Points {
				errs = append(errs, fmt.Errorf("tiers: tier %d points %d below tier %d", t.ID, t.Points, prev.ID))
			}
		}
		last := i == len(c.tiers)-1
		if t.Capped && !last {
			errs = append(errs, fmt.Errorf("tiers: tier %d is capped but not terminal", t.ID))
		}
		if last && !t.Capped {
			errs = append(errs, fmt.Errorf("tiers: terminal tier %d must be capped", t.ID))
		}
	}
	return errors.Join(errs...)
}
