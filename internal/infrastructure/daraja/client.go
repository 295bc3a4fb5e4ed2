package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mkamau/daraja-gateway/internal/domain/payment"
	"github.com/mkamau/daraja-gateway/internal/infrastructure/observability"
)

const (
	tokenPath = "/oauth/v1/generate?grant_type=client_credentials"
	pushPath  = "/mpesa/stkpush/v1/processrequest"

	// maxResponseBody bounds how much of a provider response is read.
	maxResponseBody = 1 << 20
)

type ClientConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
}

// Client talks to the provider's HTTP API: the client-credentials token
// endpoint and the push payment endpoint.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
}

func NewClient(cfg ClientConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// FetchToken exchanges the consumer key/secret for a fresh bearer token and
// its lifetime.
func (c *Client) FetchToken(ctx context.Context) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tokenPath, nil)
	if err != nil {
		return "", 0, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderCallObserved(observability.CallToken, time.Since(start))
	if err != nil {
		return "", 0, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		return "", 0, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&tr); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" || tr.ExpiresIn <= 0 {
		return "", 0, errors.New("token endpoint returned empty token or lifetime")
	}

	return tr.AccessToken, time.Duration(tr.ExpiresIn) * time.Second, nil
}

type pushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type providerError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Push issues one push payment request. Exactly one attempt: the provider
// gives no idempotency guarantee for this call.
func (c *Client) Push(ctx context.Context, token string, p payment.Payload) (*payment.Result, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, &payment.SubmissionError{Err: fmt.Errorf("marshal push payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+pushPath, bytes.NewReader(body))
	if err != nil {
		return nil, &payment.SubmissionError{Err: fmt.Errorf("build push request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderCallObserved(observability.CallPush, time.Since(start))
	if err != nil {
		return nil, &payment.SubmissionError{Err: fmt.Errorf("push request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &payment.SubmissionError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read push response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		subErr := &payment.SubmissionError{StatusCode: resp.StatusCode, Body: raw}
		var pe providerError
		if json.Unmarshal(raw, &pe) == nil {
			subErr.ErrorCode = pe.ErrorCode
			subErr.ErrorMessage = pe.ErrorMessage
		}
		c.logger.Warn("provider rejected push request",
			zap.Int("status", resp.StatusCode),
			zap.String("error_code", subErr.ErrorCode),
			zap.String("error_message", subErr.ErrorMessage),
		)
		return nil, subErr
	}

	var pr pushResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, &payment.SubmissionError{StatusCode: resp.StatusCode, Body: raw, Err: fmt.Errorf("decode push response: %w", err)}
	}
	if pr.ResponseCode == "" {
		return nil, &payment.SubmissionError{StatusCode: resp.StatusCode, Body: raw, Err: errors.New("push response missing ResponseCode")}
	}

	return &payment.Result{
		MerchantRequestID:   pr.MerchantRequestID,
		CheckoutRequestID:   pr.CheckoutRequestID,
		ResponseCode:        pr.ResponseCode,
		ResponseDescription: pr.ResponseDescription,
		CustomerMessage:     pr.CustomerMessage,
	}, nil
}

func basicAuth(key, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(key + ":" + secret))
}
