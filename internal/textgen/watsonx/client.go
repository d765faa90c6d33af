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

	"courses-backend/internal/shared/ibmcloud"
	"courses-backend/internal/textgen"
)

const (
	apiVersion     = "2024-05-02"
	defaultBaseURL = "https://us-south.ml.cloud.ibm.com"
	defaultIAMURL  = "https://iam.cloud.ibm.com/identity/token"
	maxNewTokens   = 500
)

// Config configures the watsonx.ai text generation client.
type Config struct {
	APIKey      string
	ProjectID   string
	Model       string
	BaseURL     string
	IAMTokenURL string
	Timeout     time.Duration
}

// Client implements textgen.Client using watsonx.ai text generation.
type Client struct {
	projectID  string
	model      string
	baseURL    string
	httpClient *http.Client
	tokens     *ibmcloud.TokenSource
}

// NewClient constructs a new watsonx generation client. Missing credentials
// surface as a ConfigurationError so callers can refuse to start rather
// than fall back to placeholder text.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &textgen.ConfigurationError{Missing: "WATSONX_API_KEY"}
	}
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, &textgen.ConfigurationError{Missing: "WATSONX_PROJECT_ID"}
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "ibm/granite-3-2-8b-instruct"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.IAMTokenURL == "" {
		cfg.IAMTokenURL = defaultIAMURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
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

type generateRequest struct {
	ModelID    string             `json:"model_id"`
	ProjectID  string             `json:"project_id"`
	Input      string             `json:"input"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	DecodingMethod string  `json:"decoding_method"`
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float32 `json:"temperature"`
}

type generateResponse struct {
	Results []struct {
		GeneratedText string `json:"generated_text"`
	} `json:"results"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Generate returns the model's completion for the given prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}

	reqBody := generateRequest{
		ModelID:   c.model,
		ProjectID: c.projectID,
		Input:     prompt,
		Parameters: generateParameters{
			DecodingMethod: "greedy",
			MaxNewTokens:   maxNewTokens,
			Temperature:    0.1,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/ml/v1/text/generation?version=" + apiVersion
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("watsonx generation request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("watsonx generation response parse: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return "", fmt.Errorf("watsonx error: %s (%s)", parsed.Errors[0].Message, parsed.Errors[0].Code)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watsonx generation status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(parsed.Results) == 0 {
		return "", fmt.Errorf("watsonx generation response missing results")
	}
	text := strings.TrimSpace(parsed.Results[0].GeneratedText)
	if text == "" {
		return "", fmt.Errorf("watsonx generation response empty text")
	}
	return text, nil
}

var _ textgen.Client = (*Client)(nil)
