package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"contact-intake/config"
	"contact-intake/logger"
	"contact-intake/metrics"
	"contact-intake/notification"
	"contact-intake/render"
)

type fakeSender struct {
	sent []*notification.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg *notification.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type harness struct {
	svc     *ContactService
	sender  *fakeSender
	builds  int
	metrics *metrics.Metrics
	logs    *observer.ObservedLogs
	cfg     *config.Config
}

func newHarness(t *testing.T, credential string, mutate ...func(*config.Config)) *harness {
	t.Helper()

	cfg := config.Default()
	cfg.Mail.To = "contacto@example.com"
	for _, m := range mutate {
		m(cfg)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	h := &harness{sender: &fakeSender{}, metrics: metrics.New(), logs: logs, cfg: cfg}
	renderer := render.MustNew(time.UTC, render.WithClock(func() time.Time {
		return time.Date(2026, 10, 18, 14, 5, 0, 0, time.UTC)
	}))
	h.svc = NewContactService(cfg, renderer, h.metrics,
		WithCredential(func() string { return credential }),
		WithSenderFactory(func(_ context.Context, cred string) (notification.Sender, error) {
			h.builds++
			assert.Equal(t, credential, cred)
			return h.sender, nil
		}),
	)
	return h
}

const validBody = `{"nombre":"Juan","apellido":"Pérez","email":"juan@example.com","telefono":"88887777"}`

func TestSubmitScenarioA(t *testing.T) {
	h := newHarness(t, "re_key")

	res, err := h.svc.Submit(context.Background(), []byte(`{
		"nombre": "Juan", "apellido": "Pérez", "email": "JUAN@Example.COM",
		"telefono": "88887777", "mensaje": "Hola <b>mundo</b>", "source": "merry"}`))
	require.NoError(t, err)
	assert.Equal(t, MsgSent, res.Message)
	assert.Empty(t, res.Warning)

	require.Len(t, h.sender.sent, 1)
	msg := h.sender.sent[0]
	assert.Contains(t, msg.HTML, "&lt;b&gt;mundo&lt;/b&gt;")
	assert.Equal(t, "Juan Pérez <juan@example.com>", msg.ReplyTo)
	assert.Equal(t, "Nuevo contacto desde Doña Merry - Juan Pérez", msg.Subject)
	assert.Equal(t, "contacto@example.com", msg.To)
	assert.Equal(t, "ShowMarketing <onboarding@resend.dev>", msg.From)
	assert.Equal(t, notification.PriorityHeaders(), msg.Headers)
	assert.Contains(t, msg.Text, "Hola <b>mundo</b>")
}

func TestSubmitScenarioBMissingTelefono(t *testing.T) {
	h := newHarness(t, "re_key")

	_, err := h.svc.Submit(context.Background(),
		[]byte(`{"nombre":"Juan","apellido":"Pérez","email":"juan@example.com"}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Por favor complete todos los campos requeridos", verr.Message)
	assert.Empty(t, h.sender.sent)
}

func TestSubmitScenarioCLongNombre(t *testing.T) {
	h := newHarness(t, "re_key")
	body := `{"nombre":"` + strings.Repeat("a", 101) + `","apellido":"Pérez","email":"juan@example.com","telefono":"88887777"}`

	_, err := h.svc.Submit(context.Background(), []byte(body))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "El nombre no puede exceder 100 caracteres", verr.Message)
	assert.Zero(t, h.builds)
}

func TestSubmitScenarioDMissingCredential(t *testing.T) {
	h := newHarness(t, "")

	res, err := h.svc.Submit(context.Background(), []byte(validBody))
	require.NoError(t, err)
	assert.Equal(t, MsgReceived, res.Message)
	assert.Equal(t, WarnUnconfigured, res.Warning)
	assert.Zero(t, h.builds, "no provider client is built")
	assert.Empty(t, h.sender.sent)
	assert.Equal(t, 1, h.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestSubmitScenarioEProviderFailureIsSwallowed(t *testing.T) {
	h := newHarness(t, "re_key")
	h.sender.err = errors.New("resend: 500 internal error")

	res, err := h.svc.Submit(context.Background(), []byte(validBody))
	require.NoError(t, err)
	assert.Equal(t, MsgSent, res.Message)
	assert.Empty(t, res.Warning)

	errs := h.logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Equal(t, "failed to send contact email", errs[0].Message)
	assert.Equal(t, "j***n@example.com", errs[0].ContextMap()["email"])
}

func TestSubmitProviderPanicIsSwallowed(t *testing.T) {
	h := newHarness(t, "re_key")
	h.svc.newSender = func(context.Context, string) (notification.Sender, error) {
		panic("nil client")
	}

	res, err := h.svc.Submit(context.Background(), []byte(validBody))
	require.NoError(t, err)
	assert.Equal(t, MsgSent, res.Message)
}

func TestSubmitFailPolicySurfacesDeliveryError(t *testing.T) {
	h := newHarness(t, "re_key", func(c *config.Config) {
		c.Contact.OnDeliveryFailure = config.DeliveryFail
	})
	h.sender.err = errors.New("boom")

	_, err := h.svc.Submit(context.Background(), []byte(validBody))
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestSubmitSenderFactoryErrorCountsAsDeliveryFailure(t *testing.T) {
	h := newHarness(t, "re_key")
	h.svc.newSender = func(context.Context, string) (notification.Sender, error) {
		return nil, errors.New("bad region")
	}

	res, err := h.svc.Submit(context.Background(), []byte(validBody))
	require.NoError(t, err)
	assert.Equal(t, MsgSent, res.Message)
}

func TestSubmitLogProviderNeedsNoCredential(t *testing.T) {
	h := newHarness(t, "", func(c *config.Config) { c.Mail.Provider = notification.ProviderLog })

	res, err := h.svc.Submit(context.Background(), []byte(validBody))
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	assert.Equal(t, 1, h.builds)
}

func TestSubmitDeliveryIgnoresCallerCancellation(t *testing.T) {
	h := newHarness(t, "re_key")
	var sawErr error
	h.svc.newSender = func(ctx context.Context, _ string) (notification.Sender, error) {
		sawErr = ctx.Err()
		return h.sender, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.svc.Submit(ctx, []byte(validBody))
	require.NoError(t, err)
	assert.NoError(t, sawErr)
	assert.Len(t, h.sender.sent, 1)
}

func TestSubmitSourceSelection(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{``, "ShowMarketing"},
		{`,"source":"merry"`, "Doña Merry"},
		{`,"source":"misael"`, "El Semental"},
		{`,"source":"unknown-value"`, "ShowMarketing"},
		{`,"source":42`, "ShowMarketing"},
		{`,"source":null`, "ShowMarketing"},
	}

	for _, tt := range tests {
		t.Run(tt.want+tt.source, func(t *testing.T) {
			h := newHarness(t, "re_key")
			body := strings.TrimSuffix(validBody, "}") + tt.source + "}"

			_, err := h.svc.Submit(context.Background(), []byte(body))
			require.NoError(t, err)
			require.Len(t, h.sender.sent, 1)
			assert.True(t, strings.HasPrefix(h.sender.sent[0].Subject, "Nuevo contacto desde "+tt.want+" - "))
		})
	}
}

func TestSubmitHeaderValuesCollapseLineBreaks(t *testing.T) {
	h := newHarness(t, "re_key")
	body := `{"nombre":"Juan\r\nBcc: x@evil.example","apellido":"Pérez","email":"juan@example.com","telefono":"88887777"}`

	_, err := h.svc.Submit(context.Background(), []byte(body))
	require.NoError(t, err)
	require.Len(t, h.sender.sent, 1)
	msg := h.sender.sent[0]
	assert.NotContains(t, msg.ReplyTo, "\n")
	assert.NotContains(t, msg.Subject, "\r")
	assert.Equal(t, "Juan Bcc: x@evil.example Pérez <juan@example.com>", msg.ReplyTo)
}

func TestSubmitMetrics(t *testing.T) {
	h := newHarness(t, "re_key")

	_, _ = h.svc.Submit(context.Background(), []byte(`nope`))
	_, _ = h.svc.Submit(context.Background(), []byte(`{"source":"merry"}`))
	_, _ = h.svc.Submit(context.Background(), []byte(validBody))

	gathered, err := h.metrics.Registry().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range gathered {
		if mf.GetName() != "contact_submissions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			for _, l := range m.GetLabel() {
				key += l.GetName() + "=" + l.GetValue() + ";"
			}
			counts[key] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, counts["outcome=malformed;source=unknown;"])
	assert.Equal(t, 1.0, counts["outcome=invalid;source=merry;"])
	assert.Equal(t, 1.0, counts["outcome=accepted;source=show-marketing;"])
}
