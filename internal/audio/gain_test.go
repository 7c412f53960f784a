package audio

import (
	"math"
	"testing"
)

func TestNormalizeQuietBuffer(t *testing.T) {
	// Near-silent input (peak 50) must be rescaled, bounded by the
	// maximum multiplier.
	samples := []int16{10, -20, 30, -40, 50}
	in := NewBuffer(samples, DefaultSampleRate)

	res := Normalize(in)

	if !res.Scaled {
		t.Fatal("Expected quiet buffer to be rescaled")
	}

	if res.Silent {
		t.Error("Quiet buffer must not be flagged silent")
	}

	if res.Gain != maxGain {
		t.Errorf("Expected gain capped at %.1f, got %.2f", maxGain, res.Gain)
	}

	if res.Peak != 50*int(maxGain) {
		t.Errorf("Expected peak %d after scaling, got %d", 50*int(maxGain), res.Peak)
	}

	// Provenance: the input buffer is untouched.
	if in.Samples[4] != 50 {
		t.Errorf("Input buffer was mutated: sample 4 = %d", in.Samples[4])
	}
}

func TestNormalizeHealthyBufferUnchanged(t *testing.T) {
	samples := []int16{30000, -28000, 26000, -26214}
	in := NewBuffer(samples, DefaultSampleRate)

	res := Normalize(in)

	if res.Scaled {
		t.Error("Healthy buffer must pass through unscaled")
	}

	if res.Buffer != in {
		t.Error("Unscaled buffer must be returned as-is")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	// Running the guard twice on an already-normalized buffer produces
	// no further change.
	samples := []int16{10, -20, 30, -40, 50}
	first := Normalize(NewBuffer(samples, DefaultSampleRate))
	second := Normalize(first.Buffer)

	if second.Scaled {
		t.Error("Second pass must not rescale again")
	}

	for i, s := range first.Buffer.Samples {
		if second.Buffer.Samples[i] != s {
			t.Fatalf("Sample %d changed on second pass: %d != %d", i, second.Buffer.Samples[i], s)
		}
	}
}

func TestNormalizeAllZeros(t *testing.T) {
	in := NewBuffer(make([]int16, 1000), DefaultSampleRate)

	res := Normalize(in)

	if !res.Silent {
		t.Error("All-zero buffer must be flagged silent")
	}

	if res.Scaled {
		t.Error("All-zero buffer must not be rescaled")
	}

	if res.Peak != 0 {
		t.Errorf("Expected peak 0, got %d", res.Peak)
	}
}

func TestNormalizeEmptyBuffer(t *testing.T) {
	res := Normalize(NewBuffer(nil, DefaultSampleRate))

	if !res.Silent {
		t.Error("Empty buffer must be flagged silent")
	}
}

func TestRMSAmplitude(t *testing.T) {
	// Constant signal: RMS equals the absolute value.
	samples := []int16{1000, -1000, 1000, -1000}
	rms := rmsAmplitude(samples)
	if math.Abs(rms-1000) > 0.001 {
		t.Errorf("Expected RMS 1000, got %.3f", rms)
	}

	if rmsAmplitude(nil) != 0 {
		t.Error("Expected RMS 0 for empty input")
	}
}
