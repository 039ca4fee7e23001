package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"form-gateway/internal/common/logger"
)

type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	UseTLS   bool          `mapstructure:"use_tls"`
	From     string        `mapstructure:"from"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

const defaultSMTPTimeout = 30 * time.Second

func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("smtp port must be between 1 and 65535")
	}
	if c.From == "" {
		return fmt.Errorf("from address is required")
	}
	return nil
}

// SMTPSender delivers HTML mail over SMTP with optional STARTTLS.
type SMTPSender struct {
	config *SMTPConfig
	logger logger.Logger
}

func NewSMTPSender(cfg *SMTPConfig, log logger.Logger) (*SMTPSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}
	return &SMTPSender{config: cfg, logger: log}, nil
}

// Send delivers the message within the configured timeout, tightened to the
// context deadline when that is sooner. The deadline covers the whole SMTP
// conversation, so a stalled server fails the send instead of blocking the
// request goroutine.
func (s *SMTPSender) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	timeout := s.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	message := s.buildMessage(recipients, subject, htmlBody)

	client, err := s.dial(timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName:         s.config.Host,
			InsecureSkipVerify: false,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if s.config.Username != "" && s.config.Password != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	if _, err := w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to quit: %w", err)
	}

	s.logger.Info("email sent", map[string]interface{}{
		"recipients": recipients,
		"subject":    subject,
	})
	return nil
}

// dial connects with the timeout and sets a connection deadline covering the
// rest of the conversation, reading the server greeting included.
func (s *SMTPSender) dial(timeout time.Duration) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set connection deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open SMTP session: %w", err)
	}

	return client, nil
}

func (s *SMTPSender) buildMessage(recipients []string, subject, htmlBody string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", s.config.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(recipients, ", ")))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(htmlBody)

	return builder.String()
}

// TestConnection dials the SMTP server without sending, for startup checks.
func (s *SMTPSender) TestConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := s.dial(s.config.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName:         s.config.Host,
			InsecureSkipVerify: false,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	return client.Quit()
}
