package transcode

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jgranda1999/magistrate-voice-service/internal/audio"
)

// Config contains transcoder bridge configuration
type Config struct {
	FFmpegPath string        // path to the ffmpeg executable
	SampleRate int           // target PCM sample rate
	Timeout    time.Duration // subprocess timeout
}

// Source identifies which path produced the decoded PCM
type Source string

const (
	SourceWAV        Source = "wav"        // recognized WAV, extracted directly
	SourceTranscoder Source = "transcoder" // converted by the external process
	SourceResniff    Source = "resniff"    // salvaged by the fallback re-sniff
	SourceTone       Source = "tone"       // synthetic tone, last resort
)

// Bridge converts uploaded audio containers into mono PCM buffers
type Bridge struct {
	config Config
	logger *slog.Logger
}

// NewBridge creates a new transcoder bridge
func NewBridge(config Config, logger *slog.Logger) *Bridge {
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	if config.SampleRate <= 0 {
		config.SampleRate = audio.DefaultSampleRate
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Bridge{
		config: config,
		logger: logger,
	}
}

// Decode converts arbitrary upload bytes into a mono PCM buffer. It never
// fails: a recognized WAV is extracted directly, an opaque container goes
// through the external transcoder, and when that is unavailable the
// original bytes are re-sniffed leniently before the synthetic tone is
// emitted as a last resort.
func (b *Bridge) Decode(ctx context.Context, data []byte) (*audio.Buffer, Source) {
	if chunk, ok := audio.DetectWAV(data); ok {
		samples, err := audio.ExtractPCM(data, chunk)
		if err == nil {
			return b.toBuffer(samples, chunk), SourceWAV
		}
		b.logger.Warn("WAV extraction failed, trying external transcoder",
			slog.String("error", err.Error()),
		)
	}

	if buf, err := b.runFFmpeg(ctx, data); err == nil {
		return buf, SourceTranscoder
	} else {
		b.logger.Warn("External transcoder failed",
			slog.String("error", err.Error()),
		)
	}

	// The transcoder is gone; re-sniff the original bytes in case the
	// container actually was a WAV the strict first pass rejected.
	if buf, ok := b.resniff(data); ok {
		return buf, SourceResniff
	}

	b.logger.Warn("Unparseable audio container, emitting synthetic tone",
		slog.Int("input_bytes", len(data)),
	)
	return audio.Tone(audio.DefaultToneDuration, b.config.SampleRate), SourceTone
}

// runFFmpeg invokes the external transcoder with fixed target parameters
// (WAV, mono, 16-bit PCM at the configured rate) through temporary files
// that are removed on every exit path.
func (b *Bridge) runFFmpeg(ctx context.Context, data []byte) (*audio.Buffer, error) {
	tmpDir, err := os.MkdirTemp("", "transcode-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	inputPath := filepath.Join(tmpDir, "input")
	if err := os.WriteFile(inputPath, data, 0o600); err != nil {
		return nil, err
	}
	outputPath := filepath.Join(tmpDir, "output.wav")

	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.config.FFmpegPath,
		"-i", inputPath,
		"-y",
		"-ar", strconv.Itoa(b.config.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		outputPath,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		b.logger.Debug("Transcoder diagnostics",
			slog.String("ffmpeg", b.config.FFmpegPath),
			slog.String("stderr", stderr.String()),
		)
		return nil, err
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, err
	}

	// The transcoder output goes through the chunk scanner too; some
	// encoders emit extra sub-chunks before "data", so a fixed 44-byte
	// header cannot be assumed.
	buf, err := audio.DecodeWAV(out)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// resniff retries WAV detection on the original bytes, clamping a
// declared data-chunk length that overruns the buffer so a truncated but
// otherwise valid recording is salvaged instead of replaced by a tone.
func (b *Bridge) resniff(data []byte) (*audio.Buffer, bool) {
	chunk, ok := audio.DetectWAV(data)
	if !ok {
		return nil, false
	}

	if chunk.Offset+chunk.Length > len(data) {
		chunk.Length = len(data) - chunk.Offset
		chunk.Length -= chunk.Length % 2
	}
	if chunk.Length <= 0 {
		return nil, false
	}

	samples, err := audio.ExtractPCM(data, chunk)
	if err != nil {
		return nil, false
	}
	return b.toBuffer(samples, chunk), true
}

// toBuffer wraps extracted samples, downmixing and resampling to the
// bridge's fixed mono target when the container declared otherwise.
func (b *Bridge) toBuffer(samples []int16, chunk audio.DataChunk) *audio.Buffer {
	if chunk.Channels > 1 {
		samples = audio.DownmixMono(samples, chunk.Channels)
	}
	if chunk.SampleRate > 0 && chunk.SampleRate != b.config.SampleRate {
		samples = audio.Resample(samples, chunk.SampleRate, b.config.SampleRate)
	}
	return audio.NewBuffer(samples, b.config.SampleRate)
}
