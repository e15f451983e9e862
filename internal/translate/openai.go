package translate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const openAIRequestTimeout = 30 * time.Second

var (
	openAIInstance *OpenAITranslator
	openAIOnce     sync.Once
)

// OpenAITranslator translates feedback text through the chat completions API.
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

func GetOpenAITranslator() *OpenAITranslator {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("[OpenAITranslator] Missing OPENAI_API_KEY in environment variables")
		panic("[OpenAITranslator] Missing OPENAI_API_KEY in environment variables")
	}
	openAIOnce.Do(func() {
		config := openai.DefaultConfig(apiKey)
		config.HTTPClient = &http.Client{
			Timeout: openAIRequestTimeout,
		}

		model := os.Getenv("OPENAI_TRANSLATION_MODEL")
		if model == "" {
			model = openai.GPT4oMini
		}

		openAIInstance = &OpenAITranslator{
			client: openai.NewClientWithConfig(config),
			model:  model,
		}
		slog.Info("[OpenAITranslator] Client initialized",
			slog.String("model", model),
			slog.Duration("timeout", openAIRequestTimeout))
	})
	return openAIInstance
}

func (t *OpenAITranslator) Translate(ctx context.Context, text string, sourceLang string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You translate customer feedback into English. " +
					"Reply with the translation only, no commentary.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate from %s to English:\n%s", sourceLang, text),
			},
		},
		Temperature: 0,
	})
	if err != nil {
		slog.Error("[OpenAITranslator] Translation request failed",
			slog.String("source_lang", sourceLang),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrTranslationUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrTranslationUnavailable)
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", fmt.Errorf("%w: empty translation", ErrTranslationUnavailable)
	}

	return translated, nil
}
