package summary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tubewatch/internal/services"
	"tubewatch/internal/services/llm"
)

const systemPrompt = "You are a senior financial analyst who writes clear, " +
	"precise summaries of investment and market commentary. Respond with JSON only."

const userPromptFormat = `Summarize the following video transcript.

Return a JSON object with exactly these keys:
- "short_summary": a concise summary of at most 80 words.
- "comprehensive_summary": a detailed summary of 3 to 5 paragraphs.

Rules:
- Use only information stated in the transcript. Do not speculate.
- Surface concrete figures, tickers, and positions when the speaker gives them.
- Do not include any text outside the JSON object.

Video title: %s

Transcript:
%s`

// Bundle holds both summaries produced for a video.
type Bundle struct {
	ShortSummary         string `json:"short_summary"`
	ComprehensiveSummary string `json:"comprehensive_summary"`
}

// TextGenerator produces raw model output for a prompt pair.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Summarizer turns a transcript into a summary bundle.
type Summarizer struct {
	generator TextGenerator
}

// NewSummarizer builds a summarizer over the given generator.
func NewSummarizer(generator TextGenerator) *Summarizer {
	return &Summarizer{generator: generator}
}

// Summarize generates and parses both summaries. A whitespace-only transcript
// is rejected before any model call is made.
func (s *Summarizer) Summarize(ctx context.Context, videoTitle, transcript string) (Bundle, error) {
	if strings.TrimSpace(transcript) == "" {
		return Bundle{}, services.Wrap(services.ErrEmptyTranscript, "summary", "summarize",
			"transcript is empty; nothing to summarize", nil)
	}

	content, err := s.generator.GenerateText(ctx, systemPrompt,
		fmt.Sprintf(userPromptFormat, videoTitle, transcript))
	if err != nil {
		return Bundle{}, services.Wrap(services.ErrSummarization, "summary", "generate",
			describeGenerationError(err), err)
	}

	bundle, err := ParseBundle(content)
	if err != nil {
		return Bundle{}, services.Wrap(services.ErrSummarization, "summary", "parse", "", err)
	}
	return bundle, nil
}

// describeGenerationError maps provider failures to operator-readable causes.
func describeGenerationError(err error) string {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return "authentication failed; check the summarizer api key"
		case http.StatusForbidden:
			return "access denied by the summarizer api"
		case http.StatusNotFound:
			return "summarizer model or endpoint not found"
		case http.StatusTooManyRequests:
			return "summarizer quota exhausted"
		}
	}
	return "summary generation failed"
}
