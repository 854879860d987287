package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is an HTTP client for an OpenAI-compatible speech endpoint.
type Client struct {
	URL    string
	Model  string
	Voice  string
	Client *http.Client
	APIKey string
}

func (c *Client) GenerateAudio(ctx context.Context, msg string) (io.ReadCloser, error) {
	params := map[string]interface{}{
		"input": msg,
		"model": c.Model,
	}

	if c.Voice != "" {
		params["voice"] = c.Voice
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal speech generation params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speech generation request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: server responded with %d", ErrSynthesis, resp.StatusCode)
	}

	return resp.Body, nil
}
