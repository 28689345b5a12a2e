package notification

import (
	"context"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v2"
)

type ResendSender struct {
	client *resend.Client
}

func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

// WithBaseURL points the client at another API host, e.g. a local stub.
func (s *ResendSender) WithBaseURL(raw string) (*ResendSender, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}
	s.client.BaseURL = u
	return s, nil
}

func (s *ResendSender) Send(ctx context.Context, msg *Message) error {
	if _, err := s.client.Emails.SendWithContext(ctx, toResendRequest(msg)); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

func toResendRequest(msg *Message) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		Headers: msg.Headers,
	}
}
