// Package notify sends optional SMS alerts for high-priority submissions.
package notify

import (
	"context"
	"fmt"
	"strings"

	"form-gateway/internal/common/logger"
	"form-gateway/pkg/registry"
)

// SMSPublisher is the outbound SMS capability. Satisfied by the common AWS
// SNS client.
type SMSPublisher interface {
	PublishSMS(ctx context.Context, phoneNumber, message string) error
}

type Config struct {
	PhoneNumber       string `mapstructure:"phone_number"`
	PriorityThreshold string `mapstructure:"priority_threshold"`
}

// priorityRank orders the priority levels a form may carry in its data.
var priorityRank = map[string]int{
	"low":    1,
	"normal": 2,
	"high":   3,
	"urgent": 4,
}

// Notifier fires an SMS when a submission's declared priority meets the
// configured threshold. Alert failures are logged, never propagated: the
// email has already been delivered by the time an alert fires.
type Notifier struct {
	publisher SMSPublisher
	config    *Config
	logger    logger.Logger
}

func NewNotifier(publisher SMSPublisher, cfg *Config, log logger.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		config:    cfg,
		logger:    log,
	}
}

// MaybeAlert sends an SMS if data carries a priority at or above the
// threshold.
func (n *Notifier) MaybeAlert(ctx context.Context, form registry.FormDefinition, data map[string]string) {
	priority := strings.ToLower(strings.TrimSpace(data["priority"]))
	if priority == "" {
		return
	}

	rank, known := priorityRank[priority]
	threshold := priorityRank[strings.ToLower(n.config.PriorityThreshold)]
	if !known || threshold == 0 || rank < threshold {
		return
	}

	message := fmt.Sprintf("[%s] %s priority submission received", form.Name, strings.ToUpper(priority))
	if err := n.publisher.PublishSMS(ctx, n.config.PhoneNumber, message); err != nil {
		n.logger.WithError(err).Error("sms alert failed", map[string]interface{}{
			"formId":   form.ID,
			"priority": priority,
		})
		return
	}

	n.logger.Info("sms alert sent", map[string]interface{}{
		"formId":   form.ID,
		"priority": priority,
	})
}
