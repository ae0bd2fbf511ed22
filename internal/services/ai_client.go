// internal/services/ai_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shopkit/storefront-backend/internal/config"
)

// AIClient abstracts the generative-AI backend so handlers and tests can
// substitute their own implementation.
type AIClient interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

const demoAnswer = "Demo response: add GEMINI_API_KEY or CHATGPT_API_KEY in .env to get live AI answers."

// GenAIClient talks to Gemini and falls back to the OpenAI chat completions
// API when the Gemini call fails. With neither key configured it returns a
// canned demo answer so the endpoint stays usable in development.
type GenAIClient struct {
	httpClient    *http.Client
	cfg           config.AIConfig
	geminiBaseURL string
	openaiBaseURL string
}

func NewGenAIClient(cfg config.AIConfig) *GenAIClient {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GenAIClient{
		httpClient:    &http.Client{Timeout: timeout},
		cfg:           cfg,
		geminiBaseURL: "https://generativelanguage.googleapis.com",
		openaiBaseURL: "https://api.openai.com",
	}
}

func (c *GenAIClient) Ask(ctx context.Context, prompt string) (string, error) {
	cleanPrompt := strings.TrimSpace(prompt)

	if c.cfg.GeminiAPIKey != "" {
		answer, err := c.askGemini(ctx, cleanPrompt)
		if err == nil {
			return answer, nil
		}
		if c.cfg.OpenAIAPIKey != "" {
			logrus.WithError(err).Warn("Gemini request failed, falling back to OpenAI")
			return c.askOpenAI(ctx, cleanPrompt)
		}
		return "", err
	}

	if c.cfg.OpenAIAPIKey != "" {
		return c.askOpenAI(ctx, cleanPrompt)
	}

	return demoAnswer, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *GenAIClient) askGemini(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.geminiBaseURL, c.cfg.GeminiModel, c.cfg.GeminiAPIKey)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	respBody, err := c.post(ctx, url, body, nil)
	if err != nil {
		return "", err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode Gemini response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "No response", nil
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (c *GenAIClient) askOpenAI(ctx context.Context, prompt string) (string, error) {
	url := c.openaiBaseURL + "/v1/chat/completions"

	body, err := json.Marshal(openAIRequest{
		Model:       c.cfg.OpenAIModel,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		return "", err
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.OpenAIAPIKey,
	}

	respBody, err := c.post(ctx, url, body, headers)
	if err != nil {
		return "", err
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode OpenAI response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "No response", nil
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (c *GenAIClient) post(ctx context.Context, url string, body []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
