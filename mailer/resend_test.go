package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/config"
	"portfolio/api/models"
)

func newTestClient(url string) *Client {
	c := New(config.EmailConfig{
		ResendAPIKey:  "re_test",
		ResendBaseURL: url,
		From:          "onboarding@resend.dev",
		To:            []string{"owner@example.com", "backup@example.com"},
		Timeout:       2 * time.Second,
	})
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestSendContact(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"4ef9a417-02e9-4d39-ad75-9611e0fcc33c"}`))
	}))
	defer srv.Close()

	id, err := newTestClient(srv.URL).SendContact(context.Background(), models.EmailRequest{
		Name:    "Ada <script>",
		Email:   "ada@example.com",
		Message: "Hello\nWorld",
	})
	require.NoError(t, err)
	assert.Equal(t, "4ef9a417-02e9-4d39-ad75-9611e0fcc33c", id)

	assert.Equal(t, "onboarding@resend.dev", got.From)
	assert.Equal(t, []string{"owner@example.com", "backup@example.com"}, got.To)
	assert.Equal(t, "ada@example.com", got.ReplyTo)
	assert.Equal(t, "Portfolio Contact: Message from Ada <script>", got.Subject)
	assert.Contains(t, got.HTML, "Ada &lt;script&gt;")
	assert.NotContains(t, got.HTML, "<script>")
	assert.Contains(t, got.Text, "From: Ada <script>")
	assert.Contains(t, got.Text, "Message:\nHello\nWorld")
}

func TestSendContactProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SendContact(context.Background(), models.EmailRequest{Name: "a", Email: "a@b.co", Message: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestSendContactBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	req := models.EmailRequest{Name: "a", Email: "a@b.co", Message: "m"}
	for i := 0; i < 5; i++ {
		_, err := c.SendContact(context.Background(), req)
		require.Error(t, err)
	}

	_, err := c.SendContact(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(5), calls.Load())
}
