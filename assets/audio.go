package assets

import (
	"bytes"
	"fmt"
	"io"

	"github.com/automoto/novadrop/assets/synth"
	cfg "github.com/automoto/novadrop/config"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// AudioLoader renders, decodes and caches sound cues
type AudioLoader struct {
	sfxCache map[cfg.SoundID][]byte // Cache decoded audio bytes for SFX
	context  *audio.Context
}

// NewAudioLoader creates a new audio loader with the given context
func NewAudioLoader(ctx *audio.Context) *AudioLoader {
	return &AudioLoader{
		sfxCache: make(map[cfg.SoundID][]byte),
		context:  ctx,
	}
}

// PreloadAll decodes every configured cue. Call this at startup to avoid
// decode lag on first play.
func (l *AudioLoader) PreloadAll() error {
	for id := range cfg.Sound.Tones {
		if err := l.PreloadSFX(id); err != nil {
			return err
		}
	}
	return nil
}

// PreloadSFX decodes a sound effect and caches it without creating a player.
func (l *AudioLoader) PreloadSFX(id cfg.SoundID) error {
	_, err := l.decoded(id)
	return err
}

func (l *AudioLoader) decoded(id cfg.SoundID) ([]byte, error) {
	if cached, ok := l.sfxCache[id]; ok {
		return cached, nil
	}

	tone, ok := cfg.Sound.Tones[id]
	if !ok {
		return nil, fmt.Errorf("no tone for sound %d", id)
	}
	rate := l.context.SampleRate()
	data := synth.WAV(synth.Tone(tone.Frequency, tone.Sweep, tone.Duration, rate, 0.8), rate)

	stream, err := wav.DecodeWithSampleRate(rate, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound %d: %w", id, err)
	}
	decoded, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded sound %d: %w", id, err)
	}

	l.sfxCache[id] = decoded
	return decoded, nil
}

// LoadSFX returns a new player for a cue each time.
func (l *AudioLoader) LoadSFX(id cfg.SoundID) (*audio.Player, error) {
	decoded, err := l.decoded(id)
	if err != nil {
		return nil, err
	}
	return l.context.NewPlayer(bytes.NewReader(decoded))
}
