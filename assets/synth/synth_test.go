package synth

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestToneLengthAndEnvelope(t *testing.T) {
	samples := Tone(440, 0, 100*time.Millisecond, 44100, 1)
	if len(samples) != 4410 {
		t.Fatalf("len = %d, want 4410", len(samples))
	}
	if samples[0] != 0 {
		t.Errorf("first sample = %d, want silence at the start of the attack", samples[0])
	}

	peak := func(from, to int) int16 {
		var p int16
		for _, s := range samples[from:to] {
			if s < 0 {
				s = -s
			}
			p = max(p, s)
		}
		return p
	}
	if early, late := peak(300, 800), peak(3900, 4410); late >= early {
		t.Errorf("tone did not decay: early peak %d, late peak %d", early, late)
	}
}

func TestToneClampsGain(t *testing.T) {
	for _, s := range Tone(440, 0, 10*time.Millisecond, 8000, 5) {
		if s == -32768 {
			t.Fatal("sample overflowed")
		}
	}
	if Tone(440, 0, 0, 44100, 1) != nil {
		t.Error("zero duration produced samples")
	}
}

func TestWAVHeader(t *testing.T) {
	samples := []int16{1, -1, 2}
	b := WAV(samples, 22050)

	if len(b) != 44+6 {
		t.Fatalf("len = %d, want 50", len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Errorf("bad chunk ids: %q %q %q", b[0:4], b[8:12], b[36:40])
	}
	if rate := binary.LittleEndian.Uint32(b[24:28]); rate != 22050 {
		t.Errorf("sample rate = %d", rate)
	}
	if n := binary.LittleEndian.Uint32(b[40:44]); n != 6 {
		t.Errorf("data length = %d, want 6", n)
	}
	if v := int16(binary.LittleEndian.Uint16(b[46:48])); v != -1 {
		t.Errorf("second sample = %d, want -1", v)
	}
}
