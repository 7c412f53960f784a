package transcode

import (
	"bytes"
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/jgranda1999/magistrate-voice-service/internal/audio"
)

// DecodeMP3 decodes MP3 bytes (the speech-synthesis output format) into
// a mono PCM buffer at the bridge's target sample rate. The decoder
// always emits interleaved 16-bit stereo, which is downmixed and
// resampled here. Callers should fall back to Decode when an MP3 payload
// turns out to be malformed.
func (b *Bridge) DecodeMP3(data []byte) (*audio.Buffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 stream: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3 stream: %w", err)
	}
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("unexpected MP3 decoded length: %d bytes", len(raw))
	}

	mono := audio.DownmixMono(audio.SamplesFromBytes(raw), 2)
	if dec.SampleRate() != b.config.SampleRate {
		mono = audio.Resample(mono, dec.SampleRate(), b.config.SampleRate)
	}

	return audio.NewBuffer(mono, b.config.SampleRate), nil
}
