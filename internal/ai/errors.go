package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Upstream failure classification. No retries happen anywhere in this
// service; each of these is surfaced to the caller immediately.
var (
	ErrRateLimited        = errors.New("the analysis service is receiving too many requests right now, please try again in a moment")
	ErrServiceUnavailable = errors.New("the analysis service is temporarily unavailable, please try again")
)

// UpstreamError is any non-success upstream response that is neither a rate
// limit nor a temporary outage. Status and body are kept for diagnostics.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("analysis service returned status %d: %s", e.StatusCode, e.Body)
}

// ClassifyUpstreamError maps a go-openai error to the failure taxonomy.
func ClassifyUpstreamError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}
	return fmt.Errorf("analysis request failed: %w", err)
}

func classifyStatus(status int, body string) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d)", ErrRateLimited, status)
	case status == http.StatusServiceUnavailable,
		strings.Contains(strings.ToLower(body), "temporarily unavailable"):
		return fmt.Errorf("%w (status %d: %s)", ErrServiceUnavailable, status, body)
	default:
		return &UpstreamError{StatusCode: status, Body: body}
	}
}
