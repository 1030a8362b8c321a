package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/econsult-tools/econsult/internal/models"
)

const (
	// Timeout for individual OpenAI API requests.
	openAIRequestTimeout = 60 * time.Second

	// openAISafeInputLen keeps single requests comfortably inside the
	// context window of the small chat models.
	openAISafeInputLen = 6000
)

// OpenAISummarizer delegates summarization to a pretrained chat model.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISummarizer builds the client with a bounded HTTP timeout.
// Returns ErrModelUnavailable when no API key is configured so callers
// can switch to the extractive fallback.
func NewOpenAISummarizer(apiKey, model string) (*OpenAISummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing OPENAI_API_KEY", models.ErrModelUnavailable)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
	)
	slog.Info("[Summarizer] OpenAI client initialized",
		slog.String("model", model),
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAISummarizer{client: client, model: model}, nil
}

func (s *OpenAISummarizer) SafeInputLen() int { return openAISafeInputLen }

// Summarize asks the chat model for a summary within the word bounds.
func (s *OpenAISummarizer) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following stakeholder comment in %d to %d words. Respond with the summary only.\n\n%s",
		minWords, maxWords, text)

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You summarize public consultation comments faithfully and concisely."),
			openai.UserMessage(prompt),
		}),
		Model: openai.F(openai.ChatModel(s.model)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: summary request: %v", models.ErrModelUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty summary response", models.ErrModelUnavailable)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
