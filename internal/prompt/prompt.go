// Package prompt renders the two LLM prompt templates used per turn.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"mercari/shopper/internal/domain"
)

var (
	extractionTmpl     = template.Must(template.New("extraction").Parse(extractionTemplate))
	recommendationTmpl = template.Must(template.New("recommendation").Funcs(template.FuncMap{
		"condition": func(c domain.ItemCondition) string { return c.GetConditionName() },
	}).Parse(recommendationTemplate))
)

type extractionData struct {
	UserRequest string
}

type recommendationData struct {
	UserRequest string
	Query       string
	TopN        int
	Items       []domain.SearchResultItem
}

// Extraction renders the parameter extraction prompt.
func Extraction(userRequest string) (string, error) {
	var buf bytes.Buffer
	if err := extractionTmpl.Execute(&buf, extractionData{UserRequest: userRequest}); err != nil {
		return "", fmt.Errorf("failed to render extraction prompt: %w", err)
	}
	return buf.String(), nil
}

// Recommendation renders the ranking prompt. Callers cap items before calling.
func Recommendation(userRequest, query string, items []domain.SearchResultItem, topN int) (string, error) {
	var buf bytes.Buffer
	err := recommendationTmpl.Execute(&buf, recommendationData{
		UserRequest: userRequest,
		Query:       query,
		TopN:        topN,
		Items:       items,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render recommendation prompt: %w", err)
	}
	return buf.String(), nil
}
