package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"contact-intake/config"
	"contact-intake/logger"
	"contact-intake/metrics"
	"contact-intake/models"
	"contact-intake/notification"
	"contact-intake/render"
	"contact-intake/utils"
)

// SenderFactory builds a provider client from the credential read for the
// current request.
type SenderFactory func(ctx context.Context, credential string) (notification.Sender, error)

// Result is what a successful submission returns to the caller.
type Result struct {
	Message string
	Warning string
}

type ContactService struct {
	config     *config.Config
	renderer   *render.Renderer
	metrics    *metrics.Metrics
	newSender  SenderFactory
	credential func() string
}

type Option func(*ContactService)

func WithSenderFactory(f SenderFactory) Option {
	return func(s *ContactService) { s.newSender = f }
}

// WithCredential replaces the environment lookup of the provider secret.
func WithCredential(f func() string) Option {
	return func(s *ContactService) { s.credential = f }
}

func NewContactService(cfg *config.Config, renderer *render.Renderer, m *metrics.Metrics, opts ...Option) *ContactService {
	if m == nil {
		m = metrics.New()
	}
	s := &ContactService{
		config:     cfg,
		renderer:   renderer,
		metrics:    m,
		credential: cfg.Credential,
	}
	s.newSender = func(ctx context.Context, credential string) (notification.Sender, error) {
		return notification.NewSender(ctx, cfg, credential)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates raw, renders the notification email and hands it to the
// provider. A *ValidationError means the caller sent bad input; any other
// error is internal. Provider failures are logged and, under the
// succeed-anyway policy, do not produce an error.
func (s *ContactService) Submit(ctx context.Context, raw []byte) (*Result, error) {
	log := logger.From(ctx)

	in, err := decodeInput(raw)
	if err != nil {
		log.Warn("malformed contact request", logger.Reason(ReasonMalformed))
		s.metrics.Submission("unknown", metrics.OutcomeMalformed)
		return nil, err
	}

	source := in.resolveSource()
	log = log.With(logger.Source(string(source)))

	sub, err := validate(in, source)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Info("contact submission rejected", logger.Reason(verr.Reason))
		}
		s.metrics.Submission(string(source), metrics.OutcomeInvalid)
		return nil, err
	}
	log = log.With(logger.Email(utils.MaskEmail(sub.Email)))

	credential := s.credential()
	if credential == "" && s.config.Mail.Provider != notification.ProviderLog {
		log.Warn("email provider credential not configured, email not sent",
			logger.Provider(s.config.Mail.Provider),
			zap.String("credential_env", s.config.Mail.CredentialEnv),
		)
		s.metrics.Submission(string(source), metrics.OutcomeUnconfigured)
		return &Result{Message: MsgReceived, Warning: WarnUnconfigured}, nil
	}

	profile := models.ProfileFor(source)
	body, err := s.renderer.Render(sub, profile)
	if err != nil {
		s.metrics.Submission(string(source), metrics.OutcomeError)
		return nil, fmt.Errorf("render contact email: %w", err)
	}

	msg := s.buildMessage(sub, profile, body)
	if err := s.deliver(logger.ToContext(ctx, log), credential, msg); err != nil {
		log.Error("failed to send contact email", logger.Provider(s.config.Mail.Provider), zap.Error(err))
		s.metrics.Submission(string(source), metrics.OutcomeDeliveryFailed)
		if s.config.Contact.OnDeliveryFailure == config.DeliveryFail {
			return nil, fmt.Errorf("deliver contact email: %w", err)
		}
		return &Result{Message: MsgSent}, nil
	}

	log.Info("contact email sent", logger.Provider(s.config.Mail.Provider))
	s.metrics.Submission(string(source), metrics.OutcomeAccepted)
	return &Result{Message: MsgSent}, nil
}

func (s *ContactService) buildMessage(sub *models.Submission, p models.Profile, body *render.Email) *notification.Message {
	name := utils.HeaderSafe(sub.FullName())
	return &notification.Message{
		From:    s.config.Mail.From,
		To:      s.config.Mail.To,
		ReplyTo: fmt.Sprintf("%s <%s>", name, sub.Email),
		Subject: fmt.Sprintf("Nuevo contacto desde %s - %s", p.DisplayName, name),
		HTML:    body.HTML,
		Text:    body.Text,
		Headers: notification.PriorityHeaders(),
	}
}

// deliver makes a single attempt. The send is detached from the caller's
// cancellation so a visitor closing the tab does not abort it, and a
// panicking provider client is reported as an error.
func (s *ContactService) deliver(ctx context.Context, credential string, msg *notification.Message) (err error) {
	ctx = context.WithoutCancel(ctx)
	if s.config.Mail.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Mail.Timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
		s.metrics.Delivery(s.config.Mail.Provider, time.Since(start), err)
	}()

	sender, err := s.newSender(ctx, credential)
	if err != nil {
		return fmt.Errorf("create sender: %w", err)
	}
	return sender.Send(ctx, msg)
}
