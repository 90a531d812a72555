// Package transcribe proxies uploaded audio to a speech-to-text provider.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const transcriptionPrompt = "Transcribe the spoken content of this audio verbatim. Reply with the transcript text only."

// ErrExternalService wraps failures of the speech-to-text provider.
var ErrExternalService = errors.New("transcribe: external service failure")

// Request carries one audio upload.
type Request struct {
	Audio    []byte
	Filename string
	MIMEType string
	Model    string
}

// Transcriber turns audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiTranscriber sends audio inline to a Gemini model.
type GeminiTranscriber struct {
	models contentGenerator
}

// NewGeminiTranscriber creates a client against the Gemini API using apiKey.
func NewGeminiTranscriber(ctx context.Context, apiKey string) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe: create genai client: %w", err)
	}
	return &GeminiTranscriber{models: client.Models}, nil
}

// Transcribe implements Transcriber.
func (g *GeminiTranscriber) Transcribe(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcriptionPrompt},
				{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Audio}},
			},
		},
	}
	resp, err := g.models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", ErrExternalService, err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Disabled rejects every request. It stands in when no provider credentials
// are configured so the endpoint still answers with the generic failure.
type Disabled struct{}

// Transcribe implements Transcriber.
func (Disabled) Transcribe(context.Context, Request) (string, error) {
	return "", fmt.Errorf("%w: no provider configured", ErrExternalService)
}
