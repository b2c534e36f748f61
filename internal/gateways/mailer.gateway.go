package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MohdAnasQureshi/groceryshop/pkg/logger"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

var ErrNoAvailableEndpoints = errors.New("no available mailer endpoints")

// MailRequest is the payload handed to the mail delivery service.
type MailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Code    string `json:"code"`
}

type MailResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

type endpoint struct {
	name             string
	url              string
	client           *fasthttp.Client
	consecutiveFails atomic.Int32
	openUntil        atomic.Int64
}

func (e *endpoint) available() bool {
	return time.Now().Unix() > e.openUntil.Load()
}

type MailerConfig struct {
	PrimaryURL            string
	BackupURL             string
	Timeout               time.Duration
	MaxRetries            int
	RetryDelay            time.Duration
	MaxConns              int
	CircuitBreakThreshold int
	CircuitBreakTimeout   time.Duration
}

// MailerClient delivers OTP mails over HTTP with a primary endpoint and an
// optional backup that takes over while the primary trips its breaker.
type MailerClient struct {
	config    *MailerConfig
	endpoints []*endpoint
}

func NewMailerClient(config *MailerConfig) (*MailerClient, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.PrimaryURL == "" {
		return nil, errors.New("primary mailer url is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.MaxConns == 0 {
		config.MaxConns = 64
	}
	if config.CircuitBreakThreshold == 0 {
		config.CircuitBreakThreshold = 5
	}
	if config.CircuitBreakTimeout == 0 {
		config.CircuitBreakTimeout = 30 * time.Second
	}

	c := &MailerClient{config: config}

	urls := []struct{ name, url string }{{"primary", config.PrimaryURL}}
	if config.BackupURL != "" {
		urls = append(urls, struct{ name, url string }{"backup", config.BackupURL})
	}

	for _, u := range urls {
		c.endpoints = append(c.endpoints, &endpoint{
			name: u.name,
			url:  u.url,
			client: &fasthttp.Client{
				MaxConnsPerHost:     config.MaxConns,
				ReadTimeout:         config.Timeout,
				WriteTimeout:        config.Timeout,
				MaxIdleConnDuration: 60 * time.Second,
			},
		})
		logger.Info("Mailer endpoint initialized", "name", u.name, "url", u.url)
	}

	return c, nil
}

// selectEndpoint returns the first endpoint whose breaker is closed,
// preferring the primary.
func (c *MailerClient) selectEndpoint() (*endpoint, error) {
	for _, e := range c.endpoints {
		if e.available() {
			return e, nil
		}
	}
	return nil, ErrNoAvailableEndpoints
}

// SendOTP posts a verification code mail, failing over to the backup and
// retrying per config.
func (c *MailerClient) SendOTP(ctx context.Context, email, code string) error {
	body, err := json.Marshal(&MailRequest{
		To:      email,
		Subject: "Your verification code",
		Code:    code,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		ep, err := c.selectEndpoint()
		if err != nil {
			lastErr = err
			continue
		}

		start := time.Now()
		response, err := c.doRequest(ctx, ep, "POST", "/api/v1/mail/send", body)
		latency := time.Since(start).Milliseconds()

		if err != nil {
			c.recordFailure(ep)
			logger.Warn("Mail request failed, retrying", "error", err, "endpoint", ep.name, "attempt", attempt+1)
			lastErr = err
			continue
		}

		ep.consecutiveFails.Store(0)

		var resp MailResponse
		if err := json.Unmarshal(response, &resp); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}

		logger.Info("OTP mail accepted", "message_id", resp.MessageID, "status", resp.Status, "endpoint", ep.name, "latency_ms", latency)
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *MailerClient) doRequest(ctx context.Context, ep *endpoint, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(ep.url + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := ep.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())
	return result, nil
}

func (c *MailerClient) recordFailure(ep *endpoint) {
	fails := ep.consecutiveFails.Add(1)
	if fails >= int32(c.config.CircuitBreakThreshold) {
		ep.openUntil.Store(time.Now().Add(c.config.CircuitBreakTimeout).Unix())
		ep.consecutiveFails.Store(0)
		logger.Warn("Mailer circuit breaker opened", "endpoint", ep.name, "consecutive_fails", fails, "timeout", c.config.CircuitBreakTimeout)
	}
}
