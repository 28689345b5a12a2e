// Package notification delivers the contact notification email through the
// configured transactional provider.
package notification

import (
	"context"
	"fmt"

	"contact-intake/config"
)

const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderSES    = "ses"
	ProviderLog    = "log"
)

// Message is one fully rendered outbound email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
	Headers map[string]string
}

// Sender delivers a Message. Implementations hold no per-request state.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// PriorityHeaders marks a message as high priority across mail clients.
func PriorityHeaders() map[string]string {
	return map[string]string{
		"X-Priority":        "1",
		"X-MSMail-Priority": "High",
		"Importance":        "high",
	}
}

// NewSender builds the Sender for cfg.Mail.Provider. credential is the
// provider secret read from the environment by the caller: the Resend API
// key, the SMTP password or the AWS secret access key.
func NewSender(ctx context.Context, cfg *config.Config, credential string) (Sender, error) {
	switch cfg.Mail.Provider {
	case ProviderResend:
		return NewResendSender(credential), nil
	case ProviderSMTP:
		return NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, credential), nil
	case ProviderSES:
		return NewSESSender(ctx, cfg.SES.Region, cfg.SES.AccessKeyID, credential)
	case ProviderLog:
		return NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
}
