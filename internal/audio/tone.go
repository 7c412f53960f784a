package audio

import (
	"math"
	"time"
)

const (
	// toneFrequency is the pitch of the synthetic fallback tone.
	toneFrequency = 440.0

	// toneModulationHz gives the tone a slow amplitude wobble so it is
	// clearly audible as a placeholder rather than a flat beep.
	toneModulationHz = 3.0

	toneAmplitudeRatio = 0.3
	tonePadding        = 200 * time.Millisecond

	// DefaultToneDuration is the length of the fallback tone emitted
	// when every other way of producing audio has failed.
	DefaultToneDuration = 1500 * time.Millisecond
)

// Tone generates a fixed-duration amplitude-modulated sine tone,
// padded with short silences at both ends. It is the pipeline's last
// resort: callers receive it instead of an error when a container
// cannot be parsed or speech synthesis is unavailable.
func Tone(duration time.Duration, sampleRate int) *Buffer {
	if duration <= 0 {
		duration = DefaultToneDuration
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	numSamples := int(duration.Seconds() * float64(sampleRate))
	samples := make([]int16, numSamples)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		modulation := math.Sin(2*math.Pi*toneModulationHz*t)*0.3 + 0.7
		samples[i] = int16(math.Sin(2*math.Pi*toneFrequency*t) * maxInt16 * toneAmplitudeRatio * modulation)
	}

	pad := make([]int16, int(tonePadding.Seconds()*float64(sampleRate)))
	padded := make([]int16, 0, len(pad)*2+numSamples)
	padded = append(padded, pad...)
	padded = append(padded, samples...)
	padded = append(padded, pad...)

	return NewBuffer(padded, sampleRate)
}
