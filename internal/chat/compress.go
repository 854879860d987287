package chat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const compressPrompt = `You are an assistant that makes long technical responses more concise for voice output.
Your task is to rephrase the following text to be shorter and more conversational,
while preserving all key information. Focus only on the most important details.
Be brief but clear, as this will be spoken aloud.

IMPORTANT HANDLING FOR CODE BLOCKS:
- Do not include full code blocks in your response
- Instead, briefly mention "I've created code for X" or "Here's a script that does Y"
- For large code blocks, just say something like "I've written a Python function that handles user authentication"
- DO NOT attempt to read out the actual code syntax
- Only describe what the code does in 1 sentences maximum

Original text:
%s

Return only the compressed text, without any explanation or introduction.`

// fallbackResponse is spoken when the coding agent returned nothing.
const fallbackResponse = "I'm ready to assist you. Please provide your query."

type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Compressor rephrases long technical responses into short spoken
// summaries using an OpenAI-compatible chat completion endpoint.
type Compressor struct {
	ServerURL   string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  HTTPDoer

	llm *openai.LLM
}

// Compress returns a voice-friendly version of the given text.
// On compression failure the original text is returned so that the
// response is never lost.
func (c *Compressor) Compress(ctx context.Context, text string) string {
	if len(strings.TrimSpace(text)) < 10 {
		if strings.TrimSpace(text) == "" {
			return fallbackResponse
		}

		return text
	}

	compressed, err := c.compress(ctx, text)
	if err != nil {
		slog.Warn(fmt.Sprintf("compress response for speech: %s", err))

		return text
	}

	compressed = strings.TrimSpace(compressed)
	if compressed == "" {
		return text
	}

	slog.Debug(fmt.Sprintf("compressed response from %d to %d characters", len(text), len(compressed)))

	return compressed
}

func (c *Compressor) compress(ctx context.Context, text string) (string, error) {
	if c.llm == nil {
		opts := []openai.Option{
			openai.WithBaseURL(c.ServerURL + "/v1"),
			openai.WithToken(c.APIKey),
			openai.WithModel(c.Model),
		}

		if c.HTTPClient != nil {
			opts = append(opts, openai.WithHTTPClient(c.HTTPClient))
		}

		llm, err := openai.New(opts...)
		if err != nil {
			return "", err
		}

		c.llm = llm
	}

	prompt := fmt.Sprintf(compressPrompt, text)

	return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(c.temperature()),
		llms.WithMaxTokens(c.maxTokens()),
	)
}

func (c *Compressor) temperature() float64 {
	if c.Temperature == 0 {
		return 0.1
	}

	return c.Temperature
}

func (c *Compressor) maxTokens() int {
	if c.MaxTokens == 0 {
		return 1024
	}

	return c.MaxTokens
}
