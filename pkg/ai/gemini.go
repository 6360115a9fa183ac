package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/video-chat/pkg/config"
)

// GeminiClient is a minimal client for the Google Generative Language API,
// covering the two calls the core needs: text embedding and chat generation.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	embedModel string
	chatModel  string
	client     *http.Client
}

// NewGeminiClient creates a Gemini client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	base := "https://generativelanguage.googleapis.com"
	embedModel := "text-embedding-004"
	chatModel := "gemini-1.5-flash"
	timeout := 60 * time.Second
	if cfg != nil {
		if cfg.BaseURL != "" {
			base = cfg.BaseURL
		}
		if cfg.EmbedModel != "" {
			embedModel = cfg.EmbedModel
		}
		if cfg.ChatModel != "" {
			chatModel = cfg.ChatModel
		}
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}

	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    base,
		embedModel: embedModel,
		chatModel:  chatModel,
		client:     &http.Client{Timeout: timeout},
	}
}

// embedContent request/response shapes

type embedRequest struct {
	Content geminiContent `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// generateContent request/response shapes

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Embed maps text to a fixed-length embedding vector.
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedRequest{
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:embedContent", g.baseURL, g.embedModel)
	var out embedResponse
	if err := g.post(ctx, endpoint, reqBody, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding from gemini")
	}
	return out.Embedding.Values, nil
}

// Generate sends the prompt to Gemini and returns the model's text reply.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.chatModel)
	var out generateResponse
	if err := g.post(ctx, endpoint, reqBody, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// post executes one JSON round trip with retry on transient failures.
func (g *GeminiClient) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("gemini returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("gemini returned status %d", resp.StatusCode))
		}

		return json.NewDecoder(resp.Body).Decode(out)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}
