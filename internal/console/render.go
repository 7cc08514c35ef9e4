package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"mercari/shopper/internal/domain"
	"mercari/shopper/internal/service"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Renderer writes the user-facing report of a turn.
type Renderer struct {
	out     io.Writer
	printer *message.Printer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		printer: message.NewPrinter(language.Japanese),
	}
}

func (r *Renderer) Render(turn *domain.Turn) {
	if turn.ExtractionErr != nil {
		r.println("Parameter extraction failed.")
		r.printError(turn.ExtractionErr)
		return
	}

	r.renderParameters(turn.Parameters)
	r.renderWarnings(turn.Warnings)
	r.renderSearch(turn)

	if turn.Search != domain.SearchSuccess {
		return
	}

	if turn.RecommendationErr != nil {
		r.println("Recommendation failed.")
		r.printError(turn.RecommendationErr)
		return
	}

	r.renderRecommendations(turn.Recommendations)
}

func (r *Renderer) renderParameters(params *domain.ExtractedParameters) {
	if params == nil {
		return
	}

	b, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		r.printf("Extracted parameters: %+v\n", *params)
		return
	}
	r.println("Extracted parameters:")
	r.println(string(b))
}

func (r *Renderer) renderWarnings(warnings []domain.Warning) {
	for _, w := range warnings {
		r.printf("Warning: %s\n", w.Message)
	}
}

func (r *Renderer) renderSearch(turn *domain.Turn) {
	switch turn.Search {
	case domain.SearchSuccess:
		r.println("--- Mercari Simulation Status: Success ---")
		r.printf("Found %d items.\n", turn.ItemsFound)
	case domain.SearchSuccessNoItems:
		r.println("--- Mercari Simulation Status: Success but No Items Found ---")
	case domain.SearchFailure:
		r.println("--- Mercari Simulation Status: Failure ---")
		r.println("Search failed, but parameter extraction was successful.")
		if turn.SearchErr != nil {
			r.printf("Error: %v\n", turn.SearchErr)
		}
	}
}

func (r *Renderer) renderRecommendations(recs []domain.RecommendationEntry) {
	if len(recs) == 0 {
		r.println("No recommendations found.")
		return
	}

	r.println("Top recommendations:")
	for i, rec := range recs {
		r.printf("%d. %s\n", i+1, rec.ItemName)
		r.printf("   Price: %s\n", r.Yen(rec.ItemPrice))
		if rec.ItemCondition != "" {
			r.printf("   Condition: %s\n", rec.ItemCondition)
		}
		if rec.Reason != "" {
			r.printf("   Reason: %s\n", rec.Reason)
		}
		r.printf("   URL: %s\n", rec.URL())
	}
}

// Yen formats a price with digit grouping, e.g. ¥19,800.
func (r *Renderer) Yen(amount float64) string {
	return r.printer.Sprintf("¥%d", int64(math.Round(amount)))
}

func (r *Renderer) printError(err error) {
	r.printf("Error: %v\n", err)

	var respErr *service.ResponseError
	if errors.As(err, &respErr) {
		r.println("Raw response:")
		r.println(respErr.Raw)
	}
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
