package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jgranda1999/magistrate-voice-service/internal/audio"
	"github.com/jgranda1999/magistrate-voice-service/internal/persona"
)

// Stage identifies the pipeline step a failure is attributed to,
// enabling stage-specific fallback policy.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageGeneration    Stage = "generation"
	StageSynthesis     Stage = "synthesis"
)

// StageError is a pipeline failure attributed to one specific stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Transcriber converts a WAV byte stream into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavData []byte) (string, error)
}

// Generator produces a reply for a single user turn under a system message.
type Generator interface {
	Generate(ctx context.Context, systemMessage, userMessage string) (string, error)
}

// Synthesizer converts text into an MP3 payload.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// MP3Decoder turns a synthesized MP3 payload into a PCM buffer.
type MP3Decoder interface {
	DecodeMP3(data []byte) (*audio.Buffer, error)
}

// DefaultApology is spoken in place of the generated reply when
// synthesis fails; by that point a transcript and response text already
// exist and are worth preserving even without natural speech.
const DefaultApology = "Os pido disculpas. En este momento no puedo responderos con mi voz, mas os ruego que leáis mis palabras."

// Config contains pipeline configuration
type Config struct {
	SampleRate  int
	ApologyText string
}

// Pipeline sequences transcription, response generation, and speech
// synthesis for one stateless request.
type Pipeline struct {
	config      Config
	transcriber Transcriber
	generator   Generator
	synthesizer Synthesizer
	decoder     MP3Decoder
	logger      *slog.Logger
}

// Result carries the outcome of a completed pipeline run. SynthesisErr
// is non-nil when natural speech could not be produced and a synthetic
// tone was substituted; transcript and response text are still present.
type Result struct {
	TranscribedText string
	ResponseText    string
	Audio           *audio.Buffer
	InputSilent     bool
	Degraded        bool   // apology substituted for the generated reply
	SynthesisErr    error  // tone substituted, reported to the caller
}

// New creates a pipeline over the given stage implementations.
func New(config Config, t Transcriber, g Generator, s Synthesizer, d MP3Decoder, logger *slog.Logger) *Pipeline {
	if config.SampleRate <= 0 {
		config.SampleRate = audio.DefaultSampleRate
	}
	if config.ApologyText == "" {
		config.ApologyText = DefaultApology
	}

	return &Pipeline{
		config:      config,
		transcriber: t,
		generator:   g,
		synthesizer: s,
		decoder:     d,
		logger:      logger,
	}
}

// Run processes one voice exchange: the quality-guarded input is
// transcribed, the transcript answered in the persona's voice, and the
// reply synthesized to speech. Transcription and generation failures
// are surfaced as StageErrors because no safe default reply exists;
// synthesis failures degrade through the apology and tone fallbacks
// instead.
func (p *Pipeline) Run(ctx context.Context, in *audio.Buffer, prof persona.Profile) (*Result, error) {
	guarded := audio.Normalize(in)
	if guarded.Scaled {
		p.logger.Info("Inbound audio rescaled",
			slog.Int("peak", guarded.Peak),
			slog.Float64("gain", guarded.Gain),
		)
	}
	if guarded.Silent {
		p.logger.Warn("Inbound audio is silent",
			slog.Int("samples", len(in.Samples)),
		)
	}

	wavData, err := audio.EncodeWAV(guarded.Buffer.Samples, guarded.Buffer.SampleRate)
	if err != nil {
		return nil, &StageError{Stage: StageTranscription, Err: err}
	}

	transcript, err := p.transcriber.Transcribe(ctx, wavData)
	if err != nil {
		return nil, &StageError{Stage: StageTranscription, Err: err}
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		// An empty transcript fails this stage; generation is never
		// attempted with empty input.
		return nil, &StageError{Stage: StageTranscription, Err: fmt.Errorf("empty transcript")}
	}

	result, err := p.respond(ctx, transcript, prof)
	if err != nil {
		return nil, err
	}
	result.InputSilent = guarded.Silent
	return result, nil
}

// RunText processes a text-only exchange, skipping transcription and
// reusing the generation and synthesis stages with identical fallbacks.
func (p *Pipeline) RunText(ctx context.Context, message string, prof persona.Profile) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, &StageError{Stage: StageGeneration, Err: fmt.Errorf("empty message")}
	}
	return p.respond(ctx, message, prof)
}

// respond runs the generation and synthesis stages for a known user turn.
func (p *Pipeline) respond(ctx context.Context, userTurn string, prof persona.Profile) (*Result, error) {
	responseText, err := p.generator.Generate(ctx, prof.SystemPrompt(), userTurn)
	if err != nil {
		return nil, &StageError{Stage: StageGeneration, Err: err}
	}
	responseText = strings.TrimSpace(responseText)
	if responseText == "" {
		return nil, &StageError{Stage: StageGeneration, Err: fmt.Errorf("empty response")}
	}

	result := &Result{
		TranscribedText: userTurn,
		ResponseText:    responseText,
	}

	speechBuf, err := p.synthesize(ctx, responseText)
	if err == nil {
		result.Audio = speechBuf
		return result, nil
	}

	p.logger.Warn("Speech synthesis failed, substituting apology",
		slog.String("persona", prof.ID),
		slog.String("error", err.Error()),
	)

	apologyBuf, apologyErr := p.synthesize(ctx, p.config.ApologyText)
	if apologyErr == nil {
		result.Audio = apologyBuf
		result.Degraded = true
		return result, nil
	}

	p.logger.Error("Apology synthesis also failed, emitting tone",
		slog.String("persona", prof.ID),
		slog.String("error", apologyErr.Error()),
	)

	result.Audio = audio.Tone(audio.DefaultToneDuration, p.config.SampleRate)
	result.Degraded = true
	result.SynthesisErr = &StageError{Stage: StageSynthesis, Err: err}
	return result, nil
}

// synthesize runs one text-to-speech attempt and quality-guards the
// decoded output.
func (p *Pipeline) synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	mp3Data, err := p.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	buf, err := p.decoder.DecodeMP3(mp3Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode synthesized speech: %w", err)
	}

	guarded := audio.Normalize(buf)
	if guarded.Scaled {
		p.logger.Info("Outbound audio rescaled",
			slog.Int("peak", guarded.Peak),
			slog.Float64("gain", guarded.Gain),
		)
	}
	if guarded.Silent {
		return nil, fmt.Errorf("synthesized speech is silent")
	}

	return guarded.Buffer, nil
}
