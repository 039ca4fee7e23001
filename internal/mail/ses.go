package mail

import (
	"context"
	"fmt"

	awsx "form-gateway/internal/common/aws"
	"form-gateway/internal/common/logger"
)

// SESSender delivers mail through Amazon SES.
type SESSender struct {
	client *awsx.SESClient
	from   string
	logger logger.Logger
}

func NewSESSender(ctx context.Context, region, from string, log logger.Logger) (*SESSender, error) {
	if from == "" {
		return nil, fmt.Errorf("from address is required")
	}

	client, err := awsx.NewSESClient(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("create SES client: %w", err)
	}

	return &SESSender{
		client: client,
		from:   from,
		logger: log,
	}, nil
}

func (s *SESSender) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if err := s.client.SendHTMLEmail(ctx, s.from, recipients, subject, htmlBody); err != nil {
		return fmt.Errorf("ses send: %w", err)
	}

	s.logger.Info("email sent via SES", map[string]interface{}{
		"recipients": recipients,
		"subject":    subject,
	})
	return nil
}
