// Package summary produces short post summaries with a Gemini model.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/eringen/portfolio/content"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "gemini-2.5-flash"
	// MaxInputRunes bounds the post text sent to the model.
	MaxInputRunes = 10000
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("summary: no response from model")

// Config configures a Gemini summarizer.
type Config struct {
	APIKey string
	Model  string
}

// generator is the part of the genai models service used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini summarizes posts through the Gemini API.
type Gemini struct {
	models generator
	model  string
}

// NewGemini creates a Gemini summarizer. It fails when no API key is given.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("summary: API key not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGemini(client.Models, cfg.Model), nil
}

func newGemini(models generator, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{models: models, model: model}
}

// Model returns the model name.
func (g *Gemini) Model() string {
	return g.model
}

// Summarize returns a two to three sentence summary of a post body.
func (g *Gemini) Summarize(ctx context.Context, title, body string) (string, error) {
	temperature := float32(0.2)
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(Prompt(title, body)), &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Prompt builds the summarization prompt from a title and an HTML body.
func Prompt(title, body string) string {
	text := content.Truncate(content.StripTags(body), MaxInputRunes)
	return "Summarize the following blog post in 2-3 sentences of plain text. " +
		"Do not use markdown or bullet points.\n\n" +
		"Title: " + strings.TrimSpace(title) + "\n\nContent:\n" + text
}
