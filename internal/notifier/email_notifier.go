package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/dealnotifier/internal/common"
	"github.com/aleister1102/dealnotifier/internal/config"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// EmailSender delivers notifications as plain-text mail over SMTP.
type EmailSender struct {
	cfg      config.EmailConfig
	logger   zerolog.Logger
	deliver  func(ctx context.Context, msg *mail.Msg) error
	hostname string
}

// NewEmailSender validates cfg and prepares an SMTP client factory.
// A new connection is opened for each message.
func NewEmailSender(cfg config.EmailConfig, logger zerolog.Logger) (*EmailSender, error) {
	if !cfg.Enabled() {
		return nil, common.NewConfigurationError("notification_config.email", "host", "SMTP host is not configured")
	}
	if cfg.From == "" {
		return nil, common.NewConfigurationError("notification_config.email", "from", "sender address is required")
	}

	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	// Fail fast on bad options instead of at the first deal.
	if _, err := mail.NewClient(cfg.Host, opts...); err != nil {
		return nil, common.WrapError(err, "invalid SMTP settings")
	}

	es := &EmailSender{
		cfg:      cfg,
		logger:   logger.With().Str("component", "EmailSender").Logger(),
		hostname: cfg.Host,
	}
	es.deliver = func(ctx context.Context, msg *mail.Msg) error {
		client, err := mail.NewClient(cfg.Host, opts...)
		if err != nil {
			return err
		}
		return client.DialAndSendWithContext(ctx, msg)
	}
	return es, nil
}

func clientOptions(cfg config.EmailConfig) ([]mail.Option, error) {
	port := cfg.Port
	if port == 0 {
		port = config.DefaultEmailPort
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultEmailTimeoutSeconds) * time.Second
	}

	policy, err := tlsPolicy(cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTimeout(timeout),
		mail.WithTLSPolicy(policy),
	}
	if cfg.SSL {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return opts, nil
}

func tlsPolicy(name string) (mail.TLSPolicy, error) {
	switch strings.ToLower(name) {
	case "", "mandatory":
		return mail.TLSMandatory, nil
	case "opportunistic":
		return mail.TLSOpportunistic, nil
	case "none":
		return mail.NoTLS, nil
	default:
		return mail.NoTLS, common.NewValidationError("tls_policy", name, "unknown TLS policy")
	}
}

// Send mails n to its recipient, or to the configured default recipient.
func (es *EmailSender) Send(ctx context.Context, n Notification) error {
	msg, err := es.buildMessage(n)
	if err != nil {
		return err
	}
	if err := es.deliver(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", es.hostname, err)
	}
	es.logger.Debug().Strs("to", msg.GetToString()).Msg("Mail sent")
	return nil
}

func (es *EmailSender) buildMessage(n Notification) (*mail.Msg, error) {
	recipient := strings.TrimSpace(n.Recipient)
	if recipient == "" {
		recipient = strings.TrimSpace(es.cfg.DefaultRecipient)
	}
	if recipient == "" {
		return nil, ErrNoRecipient
	}

	subject := n.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	msg := mail.NewMsg()
	if err := msg.From(es.cfg.From); err != nil {
		return nil, common.WrapErrorf(err, "invalid sender address '%s'", es.cfg.From)
	}
	if err := msg.To(recipient); err != nil {
		return nil, common.WrapErrorf(err, "invalid recipient address '%s'", recipient)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, n.Body)
	return msg, nil
}
