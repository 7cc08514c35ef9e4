package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mercari/shopper/internal/client"
)

var errNoJSONObject = errors.New("no JSON object found")

// decodeModelJSON strips markdown fences and decodes the outermost JSON object in raw.
func decodeModelJSON(raw string, v any) error {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("%w: %w", client.ErrMalformedResponse, errNoJSONObject)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", client.ErrMalformedResponse, err)
	}
	return nil
}
