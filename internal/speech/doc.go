// Package speech wraps the external AI services behind the pipeline:
// speech-to-text transcription, persona-conditioned response generation,
// and text-to-speech synthesis. Every call goes through a uniform
// timeout and single-bounded-retry wrapper.
package speech
