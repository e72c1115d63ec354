// Package synth renders the game's sound cues from tone descriptions, so the
// host needs no sample files.
package synth

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

const (
	attack = 5 * time.Millisecond
	decay  = 4.0 // Exponential decay rate over the tone's length
)

// Tone returns mono 16-bit samples of a sine sweeping from freq to
// freq+sweep, shaped by a short attack and an exponential decay.
func Tone(freq, sweep float64, d time.Duration, sampleRate int, gain float64) []int16 {
	n := int(d.Seconds() * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	gain = math.Max(0, math.Min(1, gain))
	attackN := int(attack.Seconds() * float64(sampleRate))

	out := make([]int16, n)
	phase := 0.0
	for i := range out {
		t := float64(i) / float64(n)
		f := freq + sweep*t
		phase += 2 * math.Pi * f / float64(sampleRate)

		env := math.Exp(-decay * t)
		if i < attackN {
			env *= float64(i) / float64(attackN)
		}
		out[i] = int16(math.Sin(phase) * env * gain * math.MaxInt16)
	}
	return out
}

// WAV wraps mono 16-bit samples in a RIFF container.
func WAV(samples []int16, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataLen := len(samples) * 2
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}
