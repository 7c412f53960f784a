package audio

import (
	"testing"
	"time"
)

func TestTone(t *testing.T) {
	buf := Tone(DefaultToneDuration, DefaultSampleRate)

	if buf.SampleRate != DefaultSampleRate {
		t.Errorf("Expected sample rate %d, got %d", DefaultSampleRate, buf.SampleRate)
	}

	expected := DefaultToneDuration + 2*tonePadding
	if d := buf.Duration(); d < expected-50*time.Millisecond || d > expected+50*time.Millisecond {
		t.Errorf("Expected duration ~%v, got %v", expected, d)
	}

	// The tone must be comfortably audible without any normalization.
	peak := peakAmplitude(buf.Samples)
	if peak < lowPeakThreshold {
		t.Errorf("Tone peak %d below usability threshold %d", peak, lowPeakThreshold)
	}
	if peak > maxInt16 {
		t.Errorf("Tone peak %d exceeds full scale", peak)
	}

	// Leading padding is silent.
	for i := 0; i < 100; i++ {
		if buf.Samples[i] != 0 {
			t.Fatalf("Expected silent padding, sample %d = %d", i, buf.Samples[i])
		}
	}
}

func TestToneDefaults(t *testing.T) {
	buf := Tone(0, 0)

	if buf.SampleRate != DefaultSampleRate {
		t.Errorf("Expected default sample rate, got %d", buf.SampleRate)
	}

	if len(buf.Samples) == 0 {
		t.Error("Expected non-empty tone for zero-value arguments")
	}
}

func TestBufferRoundTripBytes(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345}
	buf := NewBuffer(samples, DefaultSampleRate)

	decoded := SamplesFromBytes(buf.Bytes())
	if len(decoded) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(decoded))
	}
	for i, s := range samples {
		if decoded[i] != s {
			t.Errorf("Sample %d: expected %d, got %d", i, s, decoded[i])
		}
	}
}
