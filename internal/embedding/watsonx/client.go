package watsonx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"courses-backend/internal/embedding"
	"courses-backend/internal/shared/ibmcloud"
)

const (
	apiVersion     = "2024-05-02"
	defaultBaseURL = "https://us-south.ml.cloud.ibm.com"
	defaultIAMURL  = "https://iam.cloud.ibm.com/identity/token"
	truncateTokens = 512
)

// Config configures the watsonx.ai embeddings client.
type Config struct {
	APIKey      string
	ProjectID   string
	Model       string
	BaseURL     string
	IAMTokenURL string
	Timeout     time.Duration
}

// Client implements embedding.Service using watsonx.ai text embeddings.
type Client struct {
	projectID  string
	model      string
	baseURL    string
	httpClient *http.Client
	tokens     *ibmcloud.TokenSource
}

// NewClient constructs a new watsonx embeddings client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &embedding.ConfigurationError{Missing: "WATSONX_API_KEY"}
	}
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, &embedding.ConfigurationError{Missing: "WATSONX_PROJECT_ID"}
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "intfloat/multilingual-e5-large"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.IAMTokenURL == "" {
		cfg.IAMTokenURL = defaultIAMURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	return &Client{
		projectID:  cfg.ProjectID,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     ibmcloud.NewTokenSource(cfg.IAMTokenURL, cfg.APIKey, httpClient),
	}, nil
}

type embedRequest struct {
	ModelID    string          `json:"model_id"`
	ProjectID  string          `json:"project_id"`
	Inputs     []string        `json:"inputs"`
	Parameters embedParameters `json:"parameters"`
}

type embedParameters struct {
	TruncateInputTokens int `json:"truncate_input_tokens"`
}

type embedResponse struct {
	Results []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"results"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if ibmcloud.IsCredentialError(err) {
			return nil, &embedding.AuthError{Provider: "watsonx", Err: err}
		}
		return nil, err
	}

	reqBody := embedRequest{
		ModelID:    c.model,
		ProjectID:  c.projectID,
		Inputs:     []string{text},
		Parameters: embedParameters{TruncateInputTokens: truncateTokens},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/ml/v1/text/embeddings?version=" + apiVersion
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("watsonx embeddings request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &embedding.AuthError{Provider: "watsonx", Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var parsed embedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("watsonx embeddings response parse: %w", err)
	}
	if len(parsed.Errors) > 0 {
		apiErr := fmt.Errorf("watsonx error: %s (%s)", parsed.Errors[0].Message, parsed.Errors[0].Code)
		if embedding.IsAuthError(apiErr) {
			return nil, &embedding.AuthError{Provider: "watsonx", Err: apiErr}
		}
		return nil, apiErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watsonx embeddings status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(parsed.Results) == 0 || len(parsed.Results[0].Embedding) == 0 {
		return nil, fmt.Errorf("watsonx embeddings response missing results")
	}
	return parsed.Results[0].Embedding, nil
}

var _ embedding.Service = (*Client)(nil)
