package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/scry-cards/internal/config"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"
)

// DefaultEndpoint is the OpenRouter chat-completions URL.
const DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// chatCompletionsPath is appended to the base URL by go-openai.
const chatCompletionsPath = "/chat/completions"

// DefaultRequestTimeout bounds a single HTTP attempt.
const DefaultRequestTimeout = 30 * time.Second

// Client sends chat sessions to an OpenRouter-compatible chat-completions
// endpoint through go-openai. It holds only configuration and is safe for
// concurrent use; conversation state lives in the Session values passed to Send.
type Client struct {
	api        *openai.Client
	timeout    time.Duration
	retry      RetryPolicy
	httpClient *http.Client
	jitter     func() float64
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Attribution headers
// are added on top of its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithJitterSource replaces the random source used for backoff jitter.
// It must return values in [0, 1).
func WithJitterSource(rnd func() float64) Option {
	return func(c *Client) {
		if rnd != nil {
			c.jitter = rnd
		}
	}
}

// attributionTransport adds OpenRouter's optional app attribution headers.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" || t.title != "" {
		req = req.Clone(req.Context())
		if t.referer != "" {
			req.Header.Set("HTTP-Referer", t.referer)
		}
		if t.title != "" {
			req.Header.Set("X-Title", t.title)
		}
	}
	return t.base.RoundTrip(req)
}

// baseURL turns a chat-completions URL into the base URL go-openai expects.
// A bare base URL is accepted as is.
func baseURL(endpoint string) string {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return strings.TrimSuffix(strings.TrimRight(endpoint, "/"), chatCompletionsPath)
}

// NewClient creates a Client from the LLM configuration. An empty endpoint
// and zero durations fall back to the package defaults. MaxRetries is taken
// as given: 0 means a single attempt, and config.Load supplies the default
// of 3. A missing API key is an error.
func NewClient(logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries cannot be negative: %d", cfg.MaxRetries)
	}

	if logger == nil {
		logger = slog.Default()
	}

	policy := DefaultRetryPolicy()
	policy.MaxRetries = cfg.MaxRetries
	if cfg.RetryBaseDelay > 0 {
		policy.BaseDelay = cfg.RetryBaseDelay
	}
	if cfg.RetryMaxDelay > 0 {
		policy.MaxDelay = cfg.RetryMaxDelay
	}

	c := &Client{
		timeout:    cfg.RequestTimeout,
		retry:      policy,
		httpClient: &http.Client{},
		jitter:     rand.Float64,
		logger:     logger.With(slog.String("component", "openrouter_client")),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultRequestTimeout
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := c.httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = &attributionTransport{base: transport, referer: cfg.AppURL, title: cfg.AppTitle}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = baseURL(cfg.Endpoint)
	apiCfg.HTTPClient = &hc
	c.api = openai.NewClientWithConfig(apiCfg)

	return c, nil
}

// Send appends a message to the session, performs the request with
// retries, validates the reply and returns the session extended with both
// the new message and the assistant reply. On error the given session is
// returned unchanged.
func (c *Client) Send(ctx context.Context, s Session, content string, role Role) (Session, *Response, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return s, nil, ErrEmptyMessage
	}
	if role != RoleUser && role != RoleSystem {
		return s, nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	next := s.WithMessage(Message{Role: role, Content: text})
	req := next.request()

	log := logger.FromContextOrDefault(ctx, c.logger)
	model := req.Model

	var resp *Response
	attempt := 0
	err := retry.Do(ctx, c.retry.backoff(c.jitter), func(ctx context.Context) error {
		attempt++
		r, err := c.doOnce(ctx, req)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Retryable {
				log.WarnContext(ctx, "chat completion attempt failed",
					slog.Int("attempt", attempt),
					slog.Int("max_retries", c.retry.MaxRetries),
					slog.Int("status", apiErr.StatusCode),
					slog.String("error", apiErr.Error()))
				return retry.RetryableError(err)
			}
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "chat completion failed",
			slog.Int("attempts", attempt),
			slog.Int("retries", max(attempt-1, 0)),
			slog.String("model", model),
			slog.String("error", err.Error()))
		return s, nil, err
	}

	_, hasFormat := next.ResponseFormat()
	if err := validateResponse(resp, hasFormat); err != nil {
		log.ErrorContext(ctx, "chat completion returned an invalid response",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return s, nil, err
	}

	observeUsage(model, resp.Usage)
	log.DebugContext(ctx, "chat completion succeeded",
		slog.Int("attempts", attempt),
		slog.String("model", model),
		slog.String("response_id", resp.ID))

	next = next.WithMessage(Message{Role: RoleAssistant, Content: resp.Choices[0].Message.Content})
	return next, resp, nil
}

// doOnce performs a single attempt bounded by the per-attempt timeout.
func (c *Client) doOnce(ctx context.Context, req openai.ChatCompletionRequest) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.api.CreateChatCompletion(attemptCtx, req)
	if err != nil {
		return nil, c.classify(ctx, attemptCtx, err, req.Model, start)
	}
	observeAttempt(req.Model, statusLabel(http.StatusOK), time.Since(start))
	return &Response{ChatCompletionResponse: out}, nil
}

// classify maps a go-openai failure onto the retry model. Non-2xx replies
// become status errors; a cancelled caller context is returned as is and
// never retried; anything that is not an HTTP status or transport failure
// is a body the client could not decode.
func (c *Client) classify(parent, attemptCtx context.Context, err error, model string, start time.Time) error {
	if status, detail, ok := statusFrom(err); ok {
		observeAttempt(model, statusLabel(status), time.Since(start))
		return newStatusError(status, http.StatusText(status), detail)
	}

	if parent.Err() != nil {
		observeAttempt(model, "canceled", time.Since(start))
		return parent.Err()
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		observeAttempt(model, "timeout", time.Since(start))
		return newTimeoutError(c.timeout.Milliseconds(), err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		observeAttempt(model, "network", time.Since(start))
		return newNetworkError(err)
	}

	observeAttempt(model, "malformed", time.Since(start))
	return invalidResponse("malformed response body")
}

// statusFrom extracts the HTTP status and provider message from a go-openai
// error. RequestError is checked first because it always carries the status,
// even when the body only partly decoded into an APIError.
func statusFrom(err error) (status int, detail string, ok bool) {
	var apiErr *openai.APIError
	hasAPIErr := errors.As(err, &apiErr)
	if hasAPIErr {
		detail = apiErr.Message
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, detail, true
	}
	if hasAPIErr && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, detail, true
	}
	return 0, "", false
}

// validateResponse checks the reply shape. go-openai decodes a missing
// message as the zero value, so an empty role marks it as absent.
func validateResponse(r *Response, wantJSON bool) error {
	if r == nil || len(r.Choices) == 0 {
		return invalidResponse("no choices returned")
	}
	msg := r.Choices[0].Message
	if msg.Role == "" {
		return invalidResponse("no message in first choice")
	}
	if wantJSON && !json.Valid([]byte(msg.Content)) {
		return invalidResponse("expected JSON but got invalid format")
	}
	return nil
}
