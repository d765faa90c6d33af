package ibmcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// CredentialError marks an API key rejected by the IAM token endpoint.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("ibm iam credentials rejected: %v", e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// IsCredentialError reports whether err is a rejected-credential failure.
func IsCredentialError(err error) bool {
	var credErr *CredentialError
	return errors.As(err, &credErr)
}

// TokenSource exchanges an IBM Cloud API key for a bearer token and caches
// it until shortly before expiry. Safe for concurrent use.
type TokenSource struct {
	tokenURL   string
	apiKey     string
	httpClient *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewTokenSource constructs a TokenSource for the given IAM endpoint.
func NewTokenSource(tokenURL, apiKey string, httpClient *http.Client) *TokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenSource{tokenURL: tokenURL, apiKey: apiKey, httpClient: httpClient}
}

// Token returns a cached bearer token, refreshing it when expired.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && time.Now().Before(s.expires) {
		return s.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ibm:params:oauth:grant-type:apikey")
	form.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("iam token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		tokenErr := fmt.Errorf("iam token status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			// IAM reports a bad api key as 400 with code BXNIM0415E.
			return "", &CredentialError{Err: tokenErr}
		}
		return "", tokenErr
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("iam token response parse: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", &CredentialError{Err: fmt.Errorf("iam token response missing access_token")}
	}

	s.token = parsed.AccessToken
	// Refresh a minute early so a token never expires mid-request.
	s.expires = time.Now().Add(time.Duration(parsed.ExpiresIn)*time.Second - time.Minute)
	return s.token, nil
}
