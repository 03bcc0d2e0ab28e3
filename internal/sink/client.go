package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/motorpool-trip-tickets/internal/model"
	"github.com/nurpe/motorpool-trip-tickets/internal/requestid"
)

const maxErrorBody = 64 << 10

// TransportError means the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("record sink unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError carries a non-OK response from the sink. Body is the raw response text.
type ApplicationError struct {
	StatusCode int
	Body       string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("record sink returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	url        string
	okStatuses map[int]struct{}
	http       *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithOKStatuses restricts success to the given codes. Without it any 2xx is OK.
func WithOKStatuses(codes []int) Option {
	return func(c *Client) {
		if len(codes) == 0 {
			return
		}
		c.okStatuses = make(map[int]struct{}, len(codes))
		for _, code := range codes {
			c.okStatuses[code] = struct{}{}
		}
	}
}

func NewClient(url string, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "sink").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts the ticket as JSON. One attempt is made; there is no retry.
func (c *Client) Send(ctx context.Context, ticket model.TripTicket) error {
	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode trip ticket: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := requestid.From(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("ticket_no", ticket.TripTicketNo).Msg("sink request failed")
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if c.isOK(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Debug().
			Int("status", resp.StatusCode).
			Dur("latency", time.Since(start)).
			Str("ticket_no", ticket.TripTicketNo).
			Msg("sink accepted trip ticket")
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read sink response: %w", err)}
	}
	c.log.Warn().
		Int("status", resp.StatusCode).
		Str("ticket_no", ticket.TripTicketNo).
		Msg("sink rejected trip ticket")
	return &ApplicationError{StatusCode: resp.StatusCode, Body: string(body)}
}

func (c *Client) isOK(code int) bool {
	if c.okStatuses == nil {
		return code >= 200 && code < 300
	}
	_, ok := c.okStatuses[code]
	return ok
}
