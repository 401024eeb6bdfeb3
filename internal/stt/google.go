package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/darthvader-ux740/speakconfident/internal/media"
)

// GoogleProvider implements STT using Google Cloud Speech-to-Text REST API
type GoogleProvider struct {
	projectID  string
	apiKey     string
	httpClient *http.Client
	useAPIKey  bool
}

// NewGoogleProvider creates a new Google STT provider.
// keyData can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file
//   - A JSON string containing the service account credentials
func NewGoogleProvider(projectID, keyData string) (*GoogleProvider, error) {
	keyData = strings.TrimSpace(keyData)

	if len(keyData) == 39 && strings.HasPrefix(keyData, "AIzaSy") {
		log.Printf("[Google STT] Using API key authentication")
		return &GoogleProvider{
			projectID:  projectID,
			apiKey:     keyData,
			httpClient: &http.Client{Timeout: 90 * time.Second},
			useAPIKey:  true,
		}, nil
	}

	ctx := context.Background()
	var jsonData []byte
	var err error

	if strings.HasPrefix(keyData, "{") {
		log.Printf("[Google STT] Using credentials JSON from environment")
		jsonData = []byte(keyData)
	} else {
		log.Printf("[Google STT] Reading key file: %s", keyData)
		jsonData, err = os.ReadFile(keyData)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file %q: %w", keyData, err)
		}
	}

	creds, err := google.CredentialsFromJSON(ctx, jsonData, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
	}

	return &GoogleProvider{
		projectID:  projectID,
		httpClient: oauth2.NewClient(ctx, creds.TokenSource),
	}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

type googleSTTRequest struct {
	Config googleSTTConfig `json:"config"`
	Audio  googleSTTAudio  `json:"audio"`
}

type googleSTTConfig struct {
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	EnableWordTimeOffsets      bool   `json:"enableWordTimeOffsets"`
	EnableWordConfidence       bool   `json:"enableWordConfidence"`
	Model                      string `json:"model,omitempty"`
}

type googleSTTAudio struct {
	Content string `json:"content"` // base64 encoded
}

type googleSTTResponse struct {
	Results []googleSTTResult `json:"results"`
	Error   *googleSTTError   `json:"error,omitempty"`
}

type googleSTTResult struct {
	Alternatives []googleSTTAlternative `json:"alternatives"`
}

type googleSTTAlternative struct {
	Transcript string          `json:"transcript"`
	Confidence float64         `json:"confidence"`
	Words      []googleSTTWord `json:"words"`
}

type googleSTTWord struct {
	StartTime  string  `json:"startTime"` // e.g. "1.500s"
	EndTime    string  `json:"endTime"`
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence"`
}

type googleSTTError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Transcribe sends the already-base64 payload to the recognize endpoint with
// word time offsets and word confidence enabled.
func (p *GoogleProvider) Transcribe(ctx context.Context, payload *media.Payload) (*Result, error) {
	log.Printf("[Google STT] Transcribing %s: ~%d bytes, type %s",
		payload.FileName, payload.EstimatedBytes, payload.MimeType)

	reqBody := googleSTTRequest{
		Config: googleSTTConfig{
			LanguageCode:               "en-US",
			EnableAutomaticPunctuation: true,
			EnableWordTimeOffsets:      true,
			EnableWordConfidence:       true,
			Model:                      "latest_long",
		},
		Audio: googleSTTAudio{Content: payload.Base64},
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := "https://speech.googleapis.com/v1/speech:recognize"
	if p.useAPIKey {
		apiURL += "?key=" + p.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Google Speech-to-Text: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp googleSTTResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
			log.Printf("[Google STT] API error: code %d, status %s: %s",
				errResp.Error.Code, errResp.Error.Status, errResp.Error.Message)
			return nil, fmt.Errorf("Google Speech-to-Text API error: %s", errResp.Error.Message)
		}
		return nil, fmt.Errorf("Google Speech-to-Text API returned status %d: %s", resp.StatusCode, preview(body))
	}

	var sttResp googleSTTResponse
	if err := json.Unmarshal(body, &sttResp); err != nil {
		return nil, fmt.Errorf("failed to parse Google Speech-to-Text response: %w", err)
	}

	return buildGoogleResult(&sttResp, string(body)), nil
}

// buildGoogleResult flattens recognize results into a single transcript with
// a word list. Duration comes from the last word's end offset since the API
// reports no clip duration of its own.
func buildGoogleResult(resp *googleSTTResponse, raw string) *Result {
	var (
		parts      []string
		words      []Word
		confSum    float64
		confChunks int
	)

	for _, res := range resp.Results {
		if len(res.Alternatives) == 0 {
			continue
		}
		alt := res.Alternatives[0]
		parts = append(parts, strings.TrimSpace(alt.Transcript))
		if alt.Confidence > 0 {
			confSum += alt.Confidence
			confChunks++
		}
		for _, w := range alt.Words {
			words = append(words, Word{
				Text:       w.Word,
				Start:      parseGoogleDuration(w.StartTime),
				End:        parseGoogleDuration(w.EndTime),
				Confidence: w.Confidence,
			})
		}
	}

	result := &Result{
		Transcript:  strings.Join(parts, " "),
		Words:       words,
		Provider:    "google",
		RawResponse: raw,
	}
	if len(words) > 0 {
		result.DurationSeconds = words[len(words)-1].End
	}
	if confChunks > 0 {
		result.Confidence = confSum / float64(confChunks)
	}
	return result
}

// parseGoogleDuration parses the "1.500s" duration format.
func parseGoogleDuration(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "s")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
