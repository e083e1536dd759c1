// Package llm provides a minimal client for OpenAI-compatible chat
// completion endpoints. Requests ask for JSON output; decoding the payload is
// the summarizer's job because models routinely wrap JSON in prose or fences.
package llm
