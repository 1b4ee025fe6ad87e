package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrSMSUnavailable = errors.New("sms provider unavailable")

type SMSClientConfig struct {
	APIKey     string
	BaseURL    string
	From       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// SMSClient posts messages to an HTTP messaging provider. Delivery receipts
// are out of scope; a 2xx response counts as accepted.
type SMSClient struct {
	apiKey     string
	baseURL    string
	from       string
	timeout    time.Duration
	httpClient *http.Client
}

func NewSMSClient(config SMSClientConfig) *SMSClient {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}
	return &SMSClient{
		apiKey:     strings.TrimSpace(config.APIKey),
		baseURL:    strings.TrimSuffix(strings.TrimSpace(config.BaseURL), "/"),
		from:       strings.TrimSpace(config.From),
		timeout:    config.Timeout,
		httpClient: config.HTTPClient,
	}
}

func (c *SMSClient) Available() bool {
	return c.apiKey != "" && c.baseURL != ""
}

func (c *SMSClient) Send(ctx context.Context, delivery Delivery) error {
	if !c.Available() {
		return ErrSMSUnavailable
	}
	if strings.TrimSpace(delivery.To) == "" {
		return errors.New("destination is required")
	}

	payload, err := json.Marshal(map[string]string{
		"from": c.from,
		"to":   delivery.To,
		"body": delivery.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create sms request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("sms transport error: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return fmt.Errorf("sms provider status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
