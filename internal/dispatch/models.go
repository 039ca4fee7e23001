package dispatch

import (
	"context"

	"form-gateway/internal/common/logger"
	"form-gateway/internal/mail"
	"form-gateway/internal/notify"
	"form-gateway/internal/origin"
	"form-gateway/pkg/registry"
)

// SubmissionRequest is one inbound submission, created per request and
// discarded after dispatch completes or fails.
type SubmissionRequest struct {
	FormID       string            `json:"form_id"`
	Data         map[string]string `json:"data"`
	CaptchaToken string            `json:"captcha_token,omitempty"`
	Origin       string            `json:"origin,omitempty"`
}

// Receipt reports a completed dispatch.
type Receipt struct {
	SubmissionID string `json:"submissionId"`
	FormID       string `json:"formId"`
	Recipients   int    `json:"recipients"`
}

// CaptchaVerifier is the token verification capability consumed by the
// dispatcher. A disabled verifier accepts every request without a network
// call.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteHost string) error
}

// Dependencies carries everything a Dispatcher needs. Alerts and
// Observability are optional.
type Dependencies struct {
	Registry      *registry.Registry
	Origins       *origin.Authorizer
	Captcha       CaptchaVerifier
	Renderer      Renderer
	Sender        mail.Sender
	Alerts        *notify.Notifier
	Observability Observer
	Logger        logger.Logger
}
