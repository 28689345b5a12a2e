package notification

import (
	"context"

	"go.uber.org/zap"

	"contact-intake/logger"
)

// LogSender writes the message summary to the log instead of sending it.
// Meant for local development.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (LogSender) Send(ctx context.Context, msg *Message) error {
	logger.From(ctx).Info("email not sent, log provider active",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)),
		zap.Int("text_bytes", len(msg.Text)),
	)
	return nil
}
