package media

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/darthvader-ux740/speakconfident/internal/config"
)

// Validation failures. All are caught before any network call is made.
var (
	ErrInvalidInput         = errors.New("audio payload is required")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload exceeds maximum allowed size")
	ErrMalformedEncoding    = errors.New("payload is not valid base64")
)

// Payload is an accepted media upload, still base64-encoded. It lives for
// one request and is discarded once the transcription call consumes it.
type Payload struct {
	Base64   string
	MimeType string
	FileName string // sanitized, logging only
	// EstimatedBytes is derived from the encoded length (4:3 expansion),
	// not from decoding.
	EstimatedBytes int64
}

// Request is the inbound upload shape.
type Request struct {
	Audio    string `json:"audio" binding:"required"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType" binding:"required"`
}

var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Validator checks uploads against configured limits. Pure; no side effects.
type Validator struct {
	cfg *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate accepts or rejects an upload. Checks run cheapest-first so an
// oversized or mistyped payload never reaches the base64 scan.
func (v *Validator) Validate(req Request) (*Payload, error) {
	encoded := strings.TrimSpace(req.Audio)
	if encoded == "" {
		return nil, ErrInvalidInput
	}

	if !v.cfg.MimeAllowed(req.MimeType) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, req.MimeType)
	}

	estimated := EstimateDecodedSize(encoded)
	if estimated > v.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: estimated %d bytes, limit %d", ErrPayloadTooLarge, estimated, v.cfg.MaxUploadBytes)
	}

	// Data-URL prefixes sometimes slip through from browser recorders.
	if i := strings.Index(encoded, ","); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+1:]
	}
	if !base64Alphabet.MatchString(encoded) {
		return nil, ErrMalformedEncoding
	}

	return &Payload{
		Base64:         encoded,
		MimeType:       req.MimeType,
		FileName:       SanitizeFileName(req.FileName),
		EstimatedBytes: estimated,
	}, nil
}

// EstimateDecodedSize derives the decoded byte count from the encoded
// length, accounting for the 4:3 base64 expansion and trailing padding.
func EstimateDecodedSize(encoded string) int64 {
	n := int64(len(encoded))
	if n == 0 {
		return 0
	}
	padding := int64(0)
	if strings.HasSuffix(encoded, "==") {
		padding = 2
	} else if strings.HasSuffix(encoded, "=") {
		padding = 1
	}
	return n*3/4 - padding
}

// SanitizeFileName reduces a client-supplied filename to a safe character
// subset. The result is used only in log lines, never in decisions or paths.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "recording"
	}
	safe := unsafeFileChars.ReplaceAllString(name, "_")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}
