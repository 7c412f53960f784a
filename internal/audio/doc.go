// Package audio implements PCM audio handling for the voice pipeline.
// It provides WAV container sniffing and data-chunk scanning, PCM-16
// extraction and encoding, amplitude normalization of near-silent buffers,
// and the synthetic fallback tone used when no other audio can be produced.
package audio
