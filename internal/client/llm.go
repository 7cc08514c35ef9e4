package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"mercari/shopper/internal/config"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// LLMClient sends a prompt to a local model and returns the full generated text.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type generateRequest struct {
	Model        string  `json:"model"`
	Prompt       string  `json:"prompt"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
	StopSequence string  `json:"stop_sequence,omitempty"`
}

// generateChunk is one line of the /api/generate stream.
type generateChunk struct {
	Response *string `json:"response"`
	Done     bool    `json:"done"`
	Error    string  `json:"error"`
}

type ollamaClient struct {
	config     config.LLMConfig
	httpClient *resty.Client
}

func NewLLMClient(cfg config.LLMConfig) LLMClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/x-ndjson")

	if cfg.Timeout > 0 {
		client.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	}

	return &ollamaClient{
		config:     cfg,
		httpClient: client,
	}
}

// Generate consumes the whole chunk stream before returning. Chunks are never
// treated as complete documents on their own.
func (c *ollamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Model:        c.config.Model,
		Prompt:       prompt,
		MaxTokens:    c.config.MaxTokens,
		Temperature:  c.config.Temperature,
		StopSequence: c.config.StopSequence,
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetDoNotParseResponse(true).
		Post("/api/generate")
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: request cancelled: %v", ErrTransport, ctx.Err())
		}
		return "", fmt.Errorf("%w: failed to reach LLM: %v", ErrTransport, err)
	}

	stream := resp.RawResponse.Body
	defer stream.Close()

	if resp.IsError() {
		detail, _ := io.ReadAll(io.LimitReader(stream, 4096))
		return "", fmt.Errorf("%w: LLM HTTP error: %d %s", ErrTransport, resp.StatusCode(), bytes.TrimSpace(detail))
	}

	text, err := readGenerateStream(stream)
	if err != nil {
		return "", err
	}

	log.Debugf("LLM produced %d characters", len(text))
	return text, nil
}

func readGenerateStream(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var sb strings.Builder
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			log.Warnf("Could not decode LLM stream line: %s", line)
			continue
		}

		if chunk.Error != "" {
			return "", fmt.Errorf("%w: LLM reported: %s", ErrTransport, chunk.Error)
		}

		if chunk.Response != nil {
			sb.WriteString(*chunk.Response)
		}

		if chunk.Done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: failed to read LLM stream: %v", ErrTransport, err)
	}

	return strings.TrimSpace(sb.String()), nil
}
