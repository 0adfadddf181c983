// Package llm provides the optional vault-note summarizer. Summaries are
// appended to notes as a clearly separated section and never affect the
// credibility score.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/veridex/internal/model"
)

const systemPrompt = `You summarize technical documents for a personal research vault.
Write a short, factual summary (3-5 sentences) of the provided content.
Do not add information that is not in the content. Do not assess credibility.`

const maxPromptChars = 12000

// Summarizer generates note summaries via an OpenAI-compatible API.
// An empty base URL targets OpenAI; pointing it at a local Ollama
// server works the same way.
type Summarizer struct {
	client *openai.Client
	model  string
}

// NewSummarizer creates a summarizer from config
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model not configured")
	}
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("llm api key not configured")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Summarizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// Summarize produces a Markdown section for the given content
func (s *Summarizer) Summarize(ctx context.Context, content *model.IngestContent) (string, error) {
	body := content.Transcript
	if body == "" {
		body = content.CleanText
	}
	if body == "" {
		return "", nil
	}
	if len(body) > maxPromptChars {
		body = body[:maxPromptChars]
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Title: %s\n\n%s", content.Source.Title, body)},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm completion: empty response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", nil
	}

	return "## AI Summary\n\n> Generated by " + s.model + "; not part of the credibility assessment.\n\n" + summary, nil
}
