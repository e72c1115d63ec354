package config

import (
	"errors"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidateRejectsEmptySpawnTiers(t *testing.T) {
	c := Default()
	c.Spawn.AllowedTiers = nil
	if err := c.Validate(); !errors.Is(err, ErrNoSpawnTiers) {
		t.Errorf("Validate() = %v, want ErrNoSpawnTiers", err)
	}
}

func TestValidateRejectsUnknownSpawnTier(t *testing.T) {
	c := Default()
	c.Spawn.AllowedTiers = []int{1, 13}
	if err := c.Validate(); !errors.Is(err, ErrUnknownTier) {
		t.Errorf("Validate() = %v, want ErrUnknownTier", err)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	c := Default()
	c.Arena.Width = 0
	c.Physics.MaxBodies = 1
	c.Spawn.AllowedTiers = nil

	err := c.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrNoSpawnTiers) {
		t.Errorf("joined error lost ErrNoSpawnTiers: %v", err)
	}
}

func TestTierMonotonicity(t *testing.T) {
	tiers := DefaultTiers()
	for _, tier := range tiers.All() {
		next, ok := tiers.Next(tier.ID)
		if tier.Capped {
			if ok {
				t.Errorf("capped tier %d has a next tier", tier.ID)
			}
			continue
		}
		if !ok {
			t.Fatalf("tier %d has no next tier", tier.ID)
		}
		if next.Radius <= tier.Radius {
			t.Errorf("tier %d radius %v not above tier %d radius %v", next.ID, next.Radius, tier.ID, tier.Radius)
		}
		if next.Points < tier.Points {
			t.Errorf("tier %d points %d below tier %d", next.ID, next.Points, tier.ID)
		}
	}
	if tiers.Terminal().ID != tiers.Len() || !tiers.Terminal().Capped {
		t.Errorf("terminal tier = %+v", tiers.Terminal())
	}
	if tiers.Lowest().ID != 1 {
		t.Errorf("lowest tier = %+v", tiers.Lowest())
	}
}

func TestTierCatalogValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog TierCatalog
		wantErr bool
	}{
		{"default", DefaultTiers(), false},
		{"empty", NewTierCatalog(), true},
		{"gap in ids", NewTierCatalog(
			Tier{ID: 1, Radius: 10, Points: 1},
			Tier{ID: 3, Radius: 20, Points: 2, Capped: true},
		), true},
		{"shrinking radius", NewTierCatalog(
			Tier{ID: 1, Radius: 20, Points: 1},
			Tier{ID: 2, Radius: 10, Points: 2, Capped: true},
		), true},
		{"capped in the middle", NewTierCatalog(
			Tier{ID: 1, Radius: 10, Points: 1, Capped: true},
			Tier{ID: 2, Radius: 20, Points: 2, Capped: true},
		), true},
		{"terminal not capped", NewTierCatalog(
			Tier{ID: 1, Radius: 10, Points: 1},
			Tier{ID: 2, Radius: 20, Points: 2},
		), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeSoundBuckets(t *testing.T) {
	tests := []struct {
		tier int
		want SoundID
	}{
		{1, SoundMergeSmall},
		{4, SoundMergeSmall},
		{5, SoundMergeMedium},
		{8, SoundMergeMedium},
		{9, SoundMergeLarge},
		{12, SoundMergeLarge},
	}
	for _, tt := range tests {
		if got := MergeSound(tt.tier); got != tt.want {
			t.Errorf("MergeSound(%d) = %v, want %v", tt.tier, got, tt.want)
		}
	}
}
