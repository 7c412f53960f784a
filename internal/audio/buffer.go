package audio

import (
	"encoding/binary"
	"time"
)

const (
	// DefaultSampleRate is the pipeline-wide PCM sample rate in Hz.
	DefaultSampleRate = 24000

	// maxInt16 is the full-scale amplitude of 16-bit PCM.
	maxInt16 = 32767
)

// Buffer represents an ordered sequence of signed 16-bit PCM samples
// tagged with a sample rate and channel count. By the time a buffer
// reaches the quality guard or a transcription call it is always mono.
// Pipeline stages never mutate a buffer in place; a stage that changes
// the data produces a new buffer so provenance stays traceable.
type Buffer struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// NewBuffer creates a mono buffer from the given samples.
func NewBuffer(samples []int16, sampleRate int) *Buffer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Buffer{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   1,
	}
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 || len(b.Samples) == 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	samples := make([]int16, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{
		Samples:    samples,
		SampleRate: b.SampleRate,
		Channels:   b.Channels,
	}
}

// Bytes returns the samples as little-endian PCM-16 bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.Samples)*2)
	for i, s := range b.Samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// SamplesFromBytes reinterprets little-endian PCM-16 bytes as samples.
// A trailing odd byte is dropped.
func SamplesFromBytes(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
	}
	return samples
}
