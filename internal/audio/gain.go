package audio

import "math"

const (
	// lowPeakThreshold is the usability floor for peak amplitude.
	// Buffers quieter than this are rescaled before use.
	lowPeakThreshold = 500

	// targetPeakRatio is the fraction of full scale a rescaled buffer
	// is aimed at.
	targetPeakRatio = 0.8

	// maxGain bounds the rescale multiplier so near-silent noise is
	// not amplified into harsh clipping.
	maxGain = 5.0
)

// NormalizeResult reports what the quality guard did to a buffer.
type NormalizeResult struct {
	Buffer *Buffer
	Peak   int
	RMS    float64
	Silent bool
	Scaled bool
	Gain   float64
}

// Normalize inspects a PCM buffer for near-silence and applies soft
// amplitude normalization when the peak is below the usability
// threshold. An all-zero buffer is left unchanged and flagged silent.
// Buffers at healthy amplitude pass through untouched, so applying the
// guard twice changes nothing. When rescaling happens a new buffer is
// produced; the input is never mutated. Pure function, no I/O.
func Normalize(in *Buffer) NormalizeResult {
	res := NormalizeResult{Buffer: in, Gain: 1.0}
	if in == nil || len(in.Samples) == 0 {
		res.Silent = true
		return res
	}

	res.Peak = peakAmplitude(in.Samples)
	res.RMS = rmsAmplitude(in.Samples)

	if res.Peak == 0 {
		// No signal to rescale.
		res.Silent = true
		return res
	}

	if res.Peak >= lowPeakThreshold {
		return res
	}

	gain := math.Min(float64(maxInt16)/float64(res.Peak)*targetPeakRatio, maxGain)

	out := in.Clone()
	for i, s := range out.Samples {
		v := float64(s) * gain
		if v > maxInt16 {
			v = maxInt16
		} else if v < -maxInt16 - 1 {
			v = -maxInt16 - 1
		}
		out.Samples[i] = int16(v)
	}

	res.Buffer = out
	res.Scaled = true
	res.Gain = gain
	res.Peak = peakAmplitude(out.Samples)
	res.RMS = rmsAmplitude(out.Samples)
	return res
}

// peakAmplitude returns the maximum absolute sample value.
func peakAmplitude(samples []int16) int {
	peak := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// rmsAmplitude returns the root-mean-square energy of the samples.
func rmsAmplitude(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var energy float64
	for _, s := range samples {
		energy += float64(s) * float64(s)
	}
	return math.Sqrt(energy / float64(len(samples)))
}
