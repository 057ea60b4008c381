// Package mailer relays contact messages to the site owner through the
// Resend HTTP API.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"portfolio/api/config"
	"portfolio/api/logging"
	"portfolio/api/metrics"
	"portfolio/api/models"
)

const breakerName = "resend-api"

// ErrUnavailable is returned while the circuit breaker rejects calls.
var ErrUnavailable = errors.New("email provider unavailable")

// Message is a rendered email ready to hand to the provider.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Client sends mail through Resend. The zero value is not usable; use New.
type Client struct {
	apiKey  string
	baseURL string
	from    string
	to      []string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[string]
	now     func() time.Time
}

// New creates a Resend client from the email configuration.
func New(cfg config.EmailConfig) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{
		apiKey:  cfg.ResendAPIKey,
		baseURL: strings.TrimRight(cfg.ResendBaseURL, "/"),
		from:    cfg.From,
		to:      cfg.To,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
		now:     time.Now,
	}
}

// SendContact renders req and sends it to the configured recipients,
// returning the provider's message id.
func (c *Client) SendContact(ctx context.Context, req models.EmailRequest) (string, error) {
	msg, err := c.render(req)
	if err != nil {
		return "", err
	}

	id, err := c.cb.Execute(func() (string, error) {
		return c.send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id, err
}

func (c *Client) send(ctx context.Context, msg Message) (string, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("failed to read resend response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("resend returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to decode resend response: %w", err)
	}
	return out.ID, nil
}

var htmlBody = template.Must(template.New("contact").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="font-size: 24px;">New Portfolio Contact Message</h1>
  <h3>From:</h3>
  <p>{{.Name}}</p>
  <h3>Email:</h3>
  <p><a href="mailto:{{.Email}}">{{.Email}}</a></p>
  <h3>Message:</h3>
  <p style="line-height: 1.6; white-space: pre-wrap;">{{.Message}}</p>
  <hr>
  <p style="color: #64748b; font-size: 14px;">This message was sent from your portfolio website contact form.</p>
  <p style="color: #64748b; font-size: 14px;">Time: {{.Time}}</p>
</div>
`))

func (c *Client) render(req models.EmailRequest) (Message, error) {
	sentAt := c.now().Format(time.RFC1123)
	data := struct {
		models.EmailRequest
		Time string
	}{req, sentAt}

	var html bytes.Buffer
	if err := htmlBody.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("failed to render email: %w", err)
	}

	text := fmt.Sprintf("New Portfolio Contact Message\n\nFrom: %s\nEmail: %s\n\nMessage:\n%s\n\n---\nThis message was sent from your portfolio website contact form.\nTime: %s\n",
		req.Name, req.Email, req.Message, sentAt)

	return Message{
		From:    c.from,
		To:      c.to,
		ReplyTo: req.Email,
		Subject: "Portfolio Contact: Message from " + req.Name,
		HTML:    html.String(),
		Text:    text,
	}, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
