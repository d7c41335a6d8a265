package nodes

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/agentflow/agentflow"
)

// OpenAIClient is the default LLMClient, a thin shim over github.com/openai/openai-go's chat
// completions endpoint. Grounded on joemocha-flow/examples/chatbot/main.go's setupOpenAIClient
// and createChatNode, generalized from a hard-coded OpenRouter base URL to an optional override
// so the same client works against OpenAI directly or any OpenAI-compatible gateway.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient builds an OpenAIClient from an API key and an optional base URL override
// (pass "" to use OpenAI's default endpoint).
func NewOpenAIClient(apiKey, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, agentflow.ConfigurationError("openai client: API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{client: openai.NewClient(opts...)}, nil
}

// NewOpenAIClientFromEnv reads apiKeyEnv (and baseURLEnv, if non-empty) from the environment.
// Mirrors the teacher's OPENROUTER_API_KEY convention, generalized to a caller-chosen variable
// name.
func NewOpenAIClientFromEnv(apiKeyEnv, baseURLEnv string) (*OpenAIClient, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, agentflow.ConfigurationError("openai client: environment variable %q is not set", apiKeyEnv)
	}
	var baseURL string
	if baseURLEnv != "" {
		baseURL = os.Getenv(baseURLEnv)
	}
	return NewOpenAIClient(apiKey, baseURL)
}

// Execute sends req as a single chat completion call and returns the assistant's reply.
func (c *OpenAIClient) Execute(ctx context.Context, req Request) (Response, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	})
	if err != nil {
		return Response{}, translateOpenAIError(ctx, err)
	}
	if len(completion.Choices) == 0 {
		return Response{}, agentflow.IoError(fmt.Errorf("openai: completion returned no choices"))
	}

	return Response{Content: completion.Choices[0].Message.Content}, nil
}

// translateOpenAIError maps an openai-go client error onto the closed error taxonomy from
// spec.md §7: an expired context becomes TimeoutExceeded, a 401/403 becomes ConfigurationError,
// a 429 becomes RateLimitExceeded (limit/window unknown), and everything else is an IoError
// wrapping the cause.
func translateOpenAIError(ctx context.Context, err error) *agentflow.Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return agentflow.TimeoutExceeded(0)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return agentflow.ConfigurationError("openai: authentication rejected: %s", apiErr.Message)
		case 429:
			return agentflow.RateLimitExceededUnknown().Wrap(apiErr)
		}
	}

	return agentflow.IoError(err)
}
