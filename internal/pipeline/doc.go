// Package pipeline orchestrates the voice exchange: transcription of
// inbound audio, persona-conditioned response generation, and speech
// synthesis of the reply, with stage-specific failure and fallback
// policy. Requests are stateless; the three stages within one request
// run strictly sequentially.
package pipeline
