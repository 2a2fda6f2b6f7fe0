package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"questpath/internal/service"
	"questpath/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token attached to authenticated requests.
type TokenSource interface {
	Token() string
}

// Client talks to the learning platform's REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

type errorBody struct {
	Detail  any    `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) reason() string {
	switch d := b.Detail.(type) {
	case string:
		if d != "" {
			return d
		}
	case nil:
	default:
		return fmt.Sprint(d)
	}
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

// do sends a JSON request and returns the raw response body of a 2xx reply.
// token overrides the token source when non-empty.
func (c *Client) do(ctx context.Context, op, method, path string, payload any, token string) ([]byte, error) {
	log := logger.Logger()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token == "" && c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("backend request failed", zap.String("op", op), zap.Error(err))
		return nil, &service.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &service.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	reason := resp.Status
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.reason() != "" {
		reason = eb.reason()
	}

	log.Warn("backend rejected request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("reason", reason))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &service.AuthenticationError{Reason: reason}
	}
	return nil, &service.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", reason)}
}

// softError reports the {"success": false} and {"error": ...} bodies some
// endpoints return with a 200 status.
func softError(op string, data []byte) error {
	var body struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}
	if body.Error != "" || (body.Success != nil && !*body.Success) {
		reason := body.Error
		if reason == "" {
			reason = "request was not successful"
		}
		return &service.NetworkError{Op: op, StatusCode: http.StatusOK, Err: fmt.Errorf("%s", reason)}
	}
	return nil
}
