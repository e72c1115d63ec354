package config

import "time"

// SoundID represents a logical sound cue
type SoundID int

const (
	SoundNone SoundID = iota
	// Merge sounds, bucketed by the merged tier
	SoundMergeSmall
	SoundMergeMedium
	SoundMergeLarge
	SoundCombo
	SoundSpecialClear
	// Game state sounds
	SoundDrop
	SoundDanger
	SoundGameOver
)

// AudioConfig contains audio-related configuration values
type AudioConfig struct {
	SampleRate    int
	DefaultSFXVol float64

	// Tier buckets: tiers up to SmallMaxTier are small, up to MediumMaxTier medium
	SmallMaxTier  int
	MediumMaxTier int
}

// Tone describes a synthesized cue. Hosts without sample assets render these.
type Tone struct {
	Frequency float64 // Hz
	Sweep     float64 // Hz added linearly over the duration
	Duration  time.Duration
}

// SoundConfig maps sound IDs to synthesized tones
type SoundConfig struct {
	Tones             map[SoundID]Tone
	VolumeMultipliers map[SoundID]float64
}

var Audio AudioConfig
var Sound SoundConfig

func init() {
	Audio = AudioConfig{
		SampleRate:    44100,
		DefaultSFXVol: 0.6,
		SmallMaxTier:  4,
		MediumMaxTier: 8,
	}

	Sound = SoundConfig{
		Tones: map[SoundID]Tone{
			SoundMergeSmall:   {Frequency: 660, Sweep: 220, Duration: 80 * time.Millisecond},
			SoundMergeMedium:  {Frequency: 440, Sweep: 220, Duration: 120 * time.Millisecond},
			SoundMergeLarge:   {Frequency: 262, Sweep: 262, Duration: 200 * time.Millisecond},
			SoundCombo:        {Frequency: 880, Sweep: 440, Duration: 100 * time.Millisecond},
			SoundSpecialClear: {Frequency: 196, Sweep: 784, Duration: 450 * time.Millisecond},
			SoundDrop:         {Frequency: 330, Sweep: -110, Duration: 50 * time.Millisecond},
			SoundDanger:       {Frequency: 220, Sweep: 0, Duration: 250 * time.Millisecond},
			SoundGameOver:     {Frequency: 392, Sweep: -262, Duration: 700 * time.Millisecond},
		},
		VolumeMultipliers: map[SoundID]float64{
			SoundSpecialClear: 1.5,
			SoundDrop:         0.5,
		},
	}
}

// MergeSound picks the merge cue bucket for a merged tier ID.
func MergeSound(tierID int) SoundID {
	switch {
	case tierID <= Audio.SmallMaxTier:
		return SoundMergeSmall
	case tierID <= Audio.MediumMaxTier:
		return SoundMergeMedium
	default:
		return SoundMergeLarge
	}
}
