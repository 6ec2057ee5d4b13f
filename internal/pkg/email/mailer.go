package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/zachm/hooprun/internal/pkg/logger"
)

// Message is a single outbound email job. The same shape travels through
// the local queue and over the QStash wire.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Sender performs a direct, synchronous email send
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher accepts email jobs for asynchronous delivery
type Dispatcher interface {
	Dispatch(msg Message, delay time.Duration) error
}

// ResendSender sends email through the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a ResendSender with a display-name from header
func NewResendSender(apiKey, fromName, fromAddress string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   fmt.Sprintf("%s <%s>", fromName, fromAddress),
	}
}

// Send delivers one message. A rate-limited response is retried once
// after a one second pause; any other failure is returned as-is.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		return nil
	}
	if !isRateLimited(err) {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Warn().Str("subject", msg.Subject).Msg("Email rate limited, retrying once")
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
		return ctx.Err()
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email after retry: %w", err)
	}
	return nil
}

func isRateLimited(err error) bool {
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "429") || strings.Contains(text, "rate limit") || strings.Contains(text, "rate_limit")
}
