package service

import (
	"errors"
	"fmt"

	"mercari/shopper/internal/domain"
)

var (
	ErrExtractionFailed     = errors.New("parameter extraction failed")
	ErrSearchFailed         = errors.New("search failed")
	ErrRecommendationFailed = errors.New("recommendation failed")
)

// ResponseError carries the raw model output that could not be used.
type ResponseError struct {
	Stage domain.Stage
	Raw   string
	Err   error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unusable model response while %s: %v", e.Stage, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}
