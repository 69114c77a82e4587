package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrGatewayBaseURLRequired is returned when the gateway URL is missing.
var ErrGatewayBaseURLRequired = errors.New("sms: gateway base url is required")

// HTTPGateway is a Sender backed by an HTTP SMS gateway accepting
// form-encoded send requests.
type HTTPGateway struct {
	baseURL  string
	apiKey   string
	senderID string
	client   *http.Client
}

// HTTPGatewayConfig configures the gateway client.
type HTTPGatewayConfig struct {
	// BaseURL is the gateway send endpoint.
	BaseURL string
	// APIKey authenticates requests via the apikey header.
	APIKey string
	// SenderID is the originating identity shown to recipients.
	SenderID string
	// Timeout bounds each send request; defaults to 10 seconds.
	Timeout time.Duration
}

// NewHTTPGateway constructs an HTTPGateway sender.
func NewHTTPGateway(cfg HTTPGatewayConfig) (*HTTPGateway, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrGatewayBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPGateway{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		senderID: cfg.SenderID,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Send posts the message to the gateway.
func (g *HTTPGateway) Send(ctx context.Context, phoneNumber, body string) error {
	form := url.Values{}
	form.Set("senderid", g.senderID)
	form.Set("msgType", "text")
	form.Set("msg", body)
	form.Set("mobile", phoneNumber)
	form.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if g.apiKey != "" {
		req.Header.Set("apikey", g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms: gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
