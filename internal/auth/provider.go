package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ProviderClient calls the hosted auth provider's REST API.
type ProviderClient struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
}

func NewProviderClient(cfg Config) (*ProviderClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.ProviderURL), "/")
	anonKey := strings.TrimSpace(cfg.AnonKey)
	if baseURL == "" || anonKey == "" {
		return nil, ErrDisabled
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ProviderClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		anonKey:    anonKey,
	}, nil
}

// SendMagicLink emails a one-time sign-in link, creating the user if needed.
func (c *ProviderClient) SendMagicLink(ctx context.Context, email, redirectTo string) error {
	endpoint := c.baseURL + "/auth/v1/otp"
	if redirectTo = strings.TrimSpace(redirectTo); redirectTo != "" {
		endpoint += "?" + url.Values{"redirect_to": {redirectTo}}.Encode()
	}
	payload, err := json.Marshal(map[string]any{"email": email, "create_user": true})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, endpoint, c.anonKey, payload)
}

// SignOut revokes the session behind the supplied access token.
func (c *ProviderClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, c.baseURL+"/auth/v1/logout", accessToken, nil)
}

func (c *ProviderClient) do(ctx context.Context, endpoint, bearer string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(raw, &payload)
	message := firstNonEmpty(payload.Msg, payload.ErrorDescription, payload.Message, http.StatusText(resp.StatusCode))
	return fmt.Errorf("auth provider status %d: %s", resp.StatusCode, message)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
