package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// WAVHeader represents the canonical minimal header of a WAV file
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16  // Number of channels
	SampleRate    uint32  // Sample rate
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16  // NumChannels * BitsPerSample / 8
	BitsPerSample uint16  // Bits per sample
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// DataChunk locates the PCM payload inside a recognized RIFF/WAVE container.
type DataChunk struct {
	Offset     int // byte offset of the first PCM sample
	Length     int // declared data chunk length in bytes
	SampleRate int // from the fmt chunk, 0 if the fmt chunk was absent
	Channels   int // from the fmt chunk, 0 if the fmt chunk was absent
}

// DetectWAV inspects a byte buffer and reports whether it is a WAV
// container. Detection checks the "RIFF"...."WAVE" signature, then scans
// chunk headers (4-byte ASCII tag, 4-byte little-endian length) starting
// at offset 12 until the "data" chunk is found. Some encoders emit extra
// sub-chunks (LIST, fact) before "data", so a fixed 44-byte offset is
// never assumed. A buffer exhausted without a "data" chunk is reported
// as unrecognized rather than an error.
func DetectWAV(data []byte) (DataChunk, bool) {
	if len(data) < 12 {
		return DataChunk{}, false
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return DataChunk{}, false
	}

	var chunk DataChunk
	pos := 12
	for pos+8 <= len(data) {
		tag := string(data[pos : pos+4])
		length := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		if length < 0 {
			return DataChunk{}, false
		}

		switch tag {
		case "fmt ":
			if pos+8+16 <= len(data) {
				chunk.Channels = int(binary.LittleEndian.Uint16(data[pos+10 : pos+12]))
				chunk.SampleRate = int(binary.LittleEndian.Uint32(data[pos+12 : pos+16]))
			}
		case "data":
			chunk.Offset = pos + 8
			chunk.Length = length
			return chunk, true
		}

		pos += 8 + length
	}

	return DataChunk{}, false
}

// ExtractPCM returns the raw sample sequence between the data chunk
// bounds, reinterpreted as signed 16-bit little-endian integers. It
// fails only when the declared chunk length exceeds the remaining
// buffer; the caller is expected to fall back to the transcoder bridge
// in that case.
func ExtractPCM(data []byte, chunk DataChunk) ([]int16, error) {
	if chunk.Offset < 0 || chunk.Length < 0 || chunk.Offset+chunk.Length > len(data) {
		return nil, fmt.Errorf("data chunk out of bounds: offset=%d length=%d buffer=%d",
			chunk.Offset, chunk.Length, len(data))
	}
	return SamplesFromBytes(data[chunk.Offset : chunk.Offset+chunk.Length]), nil
}

// DecodeWAV decodes a WAV container into a PCM buffer using the chunk
// scanner, so containers with extra sub-chunks before "data" decode
// correctly.
func DecodeWAV(data []byte) (*Buffer, error) {
	chunk, ok := DetectWAV(data)
	if !ok {
		return nil, fmt.Errorf("not a recognizable WAV container (%d bytes)", len(data))
	}

	samples, err := ExtractPCM(data, chunk)
	if err != nil {
		return nil, err
	}

	sampleRate := chunk.SampleRate
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}

	buf := NewBuffer(samples, sampleRate)
	if chunk.Channels > 0 {
		buf.Channels = chunk.Channels
	}
	return buf, nil
}

// EncodeWAV encodes PCM-16 mono samples into a canonical WAV container
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio samples")
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	numChannels := uint16(1)
	bitsPerSample := uint16(16)
	dataSize := uint32(len(samples) * 2)
	fileSize := 36 + dataSize

	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     fileSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(samples)*2))

	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}

	return buf.Bytes(), nil
}

// DownmixMono averages interleaved multi-channel samples into mono.
// Mono input is returned unchanged.
func DownmixMono(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}

	mono := make([]int16, len(samples)/channels)
	for i := range mono {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += int(samples[i*channels+c])
		}
		mono[i] = int16(sum / channels)
	}
	return mono
}

// Resample converts samples between rates with linear interpolation.
// It returns the input unchanged when the rates already match.
func Resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || fromRate <= 0 || toRate <= 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen == 0 {
		return nil
	}

	out := make([]int16, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		a := float64(samples[idx])
		b := float64(samples[idx+1])
		out[i] = int16(a + (b-a)*frac)
	}
	return out
}
