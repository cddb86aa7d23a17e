package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voicerelay/voice-relay/internal/conversation"
	"github.com/voicerelay/voice-relay/internal/provider"
)

// OpenAIClient generates replies through the OpenAI chat completion API. The
// combined prompt travels as a single user message so both generation
// vendors see identical input.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Generate sends the combined prompt and returns the trimmed reply text.
func (c *OpenAIClient) Generate(ctx context.Context, userText string, history []conversation.Message, mode conversation.Mode) (string, error) {
	prompt := BuildPrompt(userText, history, mode)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &provider.VendorError{
				Vendor:  "openai",
				Message: "generation request rejected",
				Status:  apiErr.HTTPStatusCode,
				Detail:  apiErr.Message,
			}
		}
		return "", &provider.TransportError{Vendor: "openai", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
