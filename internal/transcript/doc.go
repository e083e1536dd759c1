// Package transcript acquires a transcript for a video by walking the source
// chain from cheapest to most expensive: manual captions, auto-generated
// captions, then audio download with speech transcription.
package transcript
