// Package transcode bridges opaque browser-recorded audio containers to
// raw PCM. It shells out to an external ffmpeg process for formats the
// WAV sniffer cannot handle and falls back to re-sniffing or a synthetic
// tone so the pipeline never aborts on an unparseable container. It also
// decodes the MP3 output of speech synthesis without a subprocess.
package transcode
