package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig describes an unauthenticated relay.
type SMTPConfig struct {
	Host    string
	Port    int
	HELO    string
	Timeout time.Duration
}

// SMTPSender opens one plain connection to the relay per message. It never retries.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.NoTLS),
	}
	if s.cfg.HELO != "" {
		opts = append(opts, mail.WithHELO(s.cfg.HELO))
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return client, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg *mail.Msg) error {
	client, err := s.client()
	if err != nil {
		return err
	}

	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send via %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}

	return nil
}

// Probe connects to the relay, completes the greeting and disconnects without sending.
func (s *SMTPSender) Probe(ctx context.Context) error {
	client, err := s.client()
	if err != nil {
		return err
	}

	if err = client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("failed to reach %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}

	return client.Close()
}
