package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"

	"github.com/darthvader-ux740/speakconfident/internal/analysis"
)

// EvalInput is everything the evaluation prompt is built from.
type EvalInput struct {
	Transcript      string
	DurationSeconds float64
	WordCount       int
	Unclear         []analysis.UnclearWord
}

// Client calls the LLM completion API for speech evaluation.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	return &Client{client: openai.NewClient(apiKey), model: model}
}

// Evaluate runs one completion call and returns the raw response text.
// Parsing and repair happen downstream; failures here are classified into
// the upstream taxonomy and never retried.
func (c *Client) Evaluate(ctx context.Context, input EvalInput) (string, error) {
	systemPrompt, userPrompt := BuildPrompt(input)

	log.Printf("[AI] Evaluating speech: transcript %d chars, %d words, %.1fs, %d unclear words",
		len(input.Transcript), input.WordCount, input.DurationSeconds, len(input.Unclear))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		log.Printf("[AI] Completion error: %v", err)
		return "", ClassifyUpstreamError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("analysis service returned no choices")
	}

	content := resp.Choices[0].Message.Content
	log.Printf("[AI] Response received: %d chars, tokens prompt=%d completion=%d",
		len(content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return content, nil
}
