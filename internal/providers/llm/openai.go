package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/garyyong/askgary/internal/config"
	"github.com/garyyong/askgary/internal/core"
	"github.com/garyyong/askgary/pkg/retry"
)

// OpenAI implements core.Completer and core.Embedder against the OpenAI
// chat-completions and embeddings endpoints. Any OpenAI-compatible server
// works via OPENAI_BASE_URL.
type OpenAI struct {
	baseProvider
	chatModel  string
	embedModel string
	retrier    *retry.Retrier
}

func NewOpenAI(cfg *config.OpenAIConfig) *OpenAI {
	return &OpenAI{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey),
		chatModel:    cfg.ChatModel,
		embedModel:   cfg.EmbeddingsModel,
		retrier:      retry.NewDefaultRetrier(),
	}
}

func (o *OpenAI) Complete(ctx context.Context, messages []core.Message, temperature float64, maxTokens int) (string, error) {
	payload := map[string]any{
		"model":       o.chatModel,
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}

	var answer string
	err := o.retrier.Do(ctx, func() error {
		resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		answer, err = parseCompletionResponse(resp)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return answer, nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]any{
		"model": o.embedModel,
		"input": text,
	}

	var vector []float32
	err := o.retrier.Do(ctx, func() error {
		resp, err := o.doRequest(ctx, http.MethodPost, "/v1/embeddings", payload)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		vector, err = parseEmbeddingResponse(resp)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	return vector, nil
}

func parseCompletionResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", retry.Permanent(fmt.Errorf("decode: %w", err))
	}
	if len(result.Choices) == 0 {
		return "", retry.Permanent(fmt.Errorf("empty choices: %s", string(data)))
	}
	return result.Choices[0].Message.Content, nil
}

func parseEmbeddingResponse(resp *http.Response) ([]float32, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return nil, err
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decode: %w", err))
	}
	if len(result.Data) == 0 {
		return nil, retry.Permanent(fmt.Errorf("empty embedding data: %s", string(data)))
	}
	return result.Data[0].Embedding, nil
}

func statusError(code int, body []byte) error {
	if code == http.StatusOK {
		return nil
	}
	err := fmt.Errorf("http %d: %s", code, string(body))
	if retryableStatus(code) {
		return err
	}
	return retry.Permanent(err)
}
