package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"mercari/shopper/internal/domain"
	"mercari/shopper/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	requests []string
	turn     func(request string) *domain.Turn
}

func (h *stubHandler) HandleTurn(_ context.Context, request string) *domain.Turn {
	h.requests = append(h.requests, request)
	if h.turn != nil {
		return h.turn(request)
	}
	return &domain.Turn{Request: request, Stage: domain.StageDone, Search: domain.SearchSuccessNoItems, Parameters: &domain.ExtractedParameters{Query: request}}
}

func render(turn *domain.Turn) string {
	var buf bytes.Buffer
	NewRenderer(&buf).Render(turn)
	return buf.String()
}

func TestREPLStopsOnExitAnyCase(t *testing.T) {
	for _, word := range []string{"exit", "EXIT", "  Exit  "} {
		t.Run(word, func(t *testing.T) {
			handler := &stubHandler{}
			var out bytes.Buffer

			err := NewREPL(strings.NewReader("switch\n\n"+word+"\nnever read\n"), &out, handler).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, []string{"switch"}, handler.requests)
			assert.Contains(t, out.String(), "Goodbye!")
		})
	}
}

func TestREPLEndOfInput(t *testing.T) {
	handler := &stubHandler{}
	err := NewREPL(strings.NewReader("a\nb"), &bytes.Buffer{}, handler).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, handler.requests)
}

func TestREPLKeepsGoingAfterFailedTurn(t *testing.T) {
	handler := &stubHandler{turn: func(request string) *domain.Turn {
		return &domain.Turn{
			Stage:         domain.StageFailed,
			FailedAt:      domain.StageExtracting,
			ExtractionErr: fmt.Errorf("%w: boom", service.ErrExtractionFailed),
		}
	}}
	var out bytes.Buffer

	err := NewREPL(strings.NewReader("one\ntwo\nexit\n"), &out, handler).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, handler.requests, 2)
	assert.Equal(t, 2, strings.Count(out.String(), "Parameter extraction failed."))
}

func TestREPLSkipsOverlongLine(t *testing.T) {
	handler := &stubHandler{}
	var out bytes.Buffer
	input := strings.Repeat("a", 70*1024) + "\nswitch\nexit\n"

	err := NewREPL(strings.NewReader(input), &out, handler).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"switch"}, handler.requests)
	assert.Contains(t, out.String(), "was ignored")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestREPLAcceptsLineAtLimit(t *testing.T) {
	handler := &stubHandler{}
	line := strings.Repeat("b", MaxRequestBytes)

	err := NewREPL(strings.NewReader(line+"\n"), &bytes.Buffer{}, handler).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, handler.requests, 1)
	assert.Len(t, handler.requests[0], MaxRequestBytes)
}

func TestREPLOverlongLastLineWithoutNewline(t *testing.T) {
	handler := &stubHandler{}
	var out bytes.Buffer

	err := NewREPL(strings.NewReader("switch\n"+strings.Repeat("c", 70*1024)), &out, handler).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"switch"}, handler.requests)
	assert.Contains(t, out.String(), "was ignored")
}

func TestREPLCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewREPL(strings.NewReader("switch\n"), &bytes.Buffer{}, &stubHandler{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderFullSuccess(t *testing.T) {
	priceMax := 20000.0
	out := render(&domain.Turn{
		Stage:      domain.StageDone,
		Search:     domain.SearchSuccess,
		ItemsFound: 12,
		Parameters: &domain.ExtractedParameters{Query: "Nintendo Switch", PriceMax: &priceMax, Categories: []string{"72"}},
		Recommendations: []domain.RecommendationEntry{
			{ItemName: "Switch Lite", ItemPrice: 19800, ItemCondition: "Like new", ItemID: "m123", Reason: "within budget"},
		},
	})

	assert.Contains(t, out, "\"query\": \"Nintendo Switch\"")
	assert.Contains(t, out, "--- Mercari Simulation Status: Success ---")
	assert.Contains(t, out, "Found 12 items.")
	assert.Contains(t, out, "1. Switch Lite")
	assert.Contains(t, out, "¥19,800")
	assert.Contains(t, out, "Condition: Like new")
	assert.Contains(t, out, "Reason: within budget")
	assert.Contains(t, out, "https://jp.mercari.com/item/m123")
}

func TestRenderEmptyRecommendations(t *testing.T) {
	out := render(&domain.Turn{
		Stage:           domain.StageDone,
		Search:          domain.SearchSuccess,
		ItemsFound:      3,
		Parameters:      &domain.ExtractedParameters{Query: "x"},
		Recommendations: []domain.RecommendationEntry{},
	})

	assert.Contains(t, out, "No recommendations found.")
}

func TestRenderNoItems(t *testing.T) {
	out := render(&domain.Turn{
		Stage:      domain.StageDone,
		Search:     domain.SearchSuccessNoItems,
		Parameters: &domain.ExtractedParameters{Query: "x"},
	})

	assert.Contains(t, out, "Success but No Items Found")
	assert.NotContains(t, out, "recommendations")
}

func TestRenderSearchFailure(t *testing.T) {
	out := render(&domain.Turn{
		Stage:      domain.StageDone,
		Search:     domain.SearchFailure,
		Parameters: &domain.ExtractedParameters{Query: "x"},
		SearchErr:  fmt.Errorf("%w: 503", service.ErrSearchFailed),
		Warnings:   []domain.Warning{{Source: "category", Name: "Hats", Message: `category "Hats" does not match any known category and will be ignored`}},
	})

	assert.Contains(t, out, "--- Mercari Simulation Status: Failure ---")
	assert.Contains(t, out, "Search failed, but parameter extraction was successful.")
	assert.Contains(t, out, "Warning: category \"Hats\"")
	assert.NotContains(t, out, "Parameter extraction failed.")
}

func TestRenderMalformedExtractionShowsRaw(t *testing.T) {
	err := fmt.Errorf("%w: %w", service.ErrExtractionFailed, &service.ResponseError{
		Stage: domain.StageExtracting,
		Raw:   "I am not JSON",
		Err:   errors.New("no JSON object found"),
	})

	out := render(&domain.Turn{Stage: domain.StageFailed, FailedAt: domain.StageExtracting, Search: domain.SearchSkipped, ExtractionErr: err})

	assert.Contains(t, out, "Parameter extraction failed.")
	assert.Contains(t, out, "Raw response:\nI am not JSON")
	assert.NotContains(t, out, "Mercari Simulation Status")
}

func TestRenderRecommendationFailureKeepsSearchStatus(t *testing.T) {
	err := fmt.Errorf("%w: %w", service.ErrRecommendationFailed, &service.ResponseError{
		Stage: domain.StageRecommending,
		Raw:   `{"items": []}`,
		Err:   errors.New("missing recommendations"),
	})

	out := render(&domain.Turn{
		Stage:             domain.StageFailed,
		FailedAt:          domain.StageRecommending,
		Search:            domain.SearchSuccess,
		ItemsFound:        4,
		Parameters:        &domain.ExtractedParameters{Query: "x"},
		RecommendationErr: err,
	})

	assert.Contains(t, out, "--- Mercari Simulation Status: Success ---")
	assert.Contains(t, out, "Recommendation failed.")
	assert.Contains(t, out, `{"items": []}`)
}

func TestYen(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})

	assert.Equal(t, "¥1,234,567", r.Yen(1234567))
	assert.Equal(t, "¥500", r.Yen(499.6))
}
