package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
}

func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

// Send blocks until the SMTP exchange finishes or ctx is done. The library
// has no context support, so a cancelled send keeps running in the
// background until the server answers.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := toEmail(msg)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	errc := make(chan error, 1)
	go func() { errc <- e.Send(addr, auth) }()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

func toEmail(msg *Message) *email.Email {
	e := email.NewEmail()
	e.From = msg.From
	e.To = []string{msg.To}
	if msg.ReplyTo != "" {
		e.ReplyTo = []string{msg.ReplyTo}
	}
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)
	e.Text = []byte(msg.Text)
	for k, v := range msg.Headers {
		e.Headers.Set(k, v)
	}
	return e
}
