package ai

import (
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestClassifyRateLimited(t *testing.T) {
	err := ClassifyUpstreamError(&openai.APIError{HTTPStatusCode: 429, Message: "Rate limit reached"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestClassifyServiceUnavailableStatus(t *testing.T) {
	err := ClassifyUpstreamError(&openai.APIError{HTTPStatusCode: 503, Message: "upstream down"})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClassifyServiceUnavailableMessage(t *testing.T) {
	// Some providers report outages with a 500 plus a message substring.
	err := ClassifyUpstreamError(&openai.APIError{
		HTTPStatusCode: 500,
		Message:        "The model is Temporarily Unavailable, check back soon",
	})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClassifyGenericUpstream(t *testing.T) {
	err := ClassifyUpstreamError(&openai.APIError{HTTPStatusCode: 400, Message: "bad request"})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != 400 || upstream.Body != "bad request" {
		t.Errorf("upstream = %+v", upstream)
	}
}

func TestClassifyNonAPIError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := ClassifyUpstreamError(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("transport errors should be wrapped, got %v", err)
	}
}
