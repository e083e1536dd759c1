// Package whisper transcribes downloaded audio through the OpenAI speech
// transcription API.
package whisper

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"tubewatch/internal/services"
)

// Client wraps the transcription endpoint.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a transcription client for the given model.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = openai.Whisper1
	}
	return &Client{api: openai.NewClient(apiKey), model: model}
}

// Transcribe converts the audio file at path to plain text.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "whisper", "transcribe",
			fmt.Sprintf("transcribe %s", path), err)
	}
	return strings.TrimSpace(resp.Text), nil
}
