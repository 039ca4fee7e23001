// Package dispatch orchestrates the submission pipeline: form lookup, origin
// check, schema check, captcha verification, rendering and delivery, in that
// fixed order, short-circuiting on the first failure.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"form-gateway/internal/common/errors"
	"form-gateway/internal/common/logger"
	"form-gateway/internal/common/metrics"
	"form-gateway/internal/render"
	"form-gateway/internal/schema"
)

// Renderer is the templating capability consumed by the dispatcher.
type Renderer interface {
	Render(key string, data map[string]string) (*render.Message, error)
}

// Observer records pipeline outcomes. Satisfied by the common observability
// meter.
type Observer interface {
	RecordSubmission(ctx context.Context, status string)
	RecordSubmissionDuration(ctx context.Context, duration time.Duration, status string)
}

// Dispatcher runs the pipeline. It holds no cross-request state and is safe
// for concurrent use.
type Dispatcher struct {
	deps   Dependencies
	logger logger.Logger
}

func NewDispatcher(deps Dependencies) *Dispatcher {
	return &Dispatcher{
		deps:   deps,
		logger: deps.Logger.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Dispatch validates and delivers one submission. The first failing stage
// determines the returned StandardError; rendering and sending never run on
// rejected input, and the send runs at most once with no internal retries.
func (d *Dispatcher) Dispatch(ctx context.Context, req *SubmissionRequest) (*Receipt, error) {
	submissionID := uuid.NewString()
	log := d.logger.WithFields(map[string]interface{}{
		"submissionId": submissionID,
		"formId":       req.FormID,
	})

	started := time.Now()
	metrics.SubmissionsReceived.WithLabelValues(req.FormID).Inc()

	receipt, err := d.run(ctx, req, submissionID, log)

	status := "success"
	if err != nil {
		stdErr := errors.Normalize(err)
		status = string(stdErr.Code)
		metrics.SubmissionsRejected.WithLabelValues(req.FormID, string(stdErr.Code)).Inc()
	} else {
		metrics.SubmissionsDelivered.WithLabelValues(req.FormID).Inc()
	}
	metrics.SubmissionDuration.WithLabelValues(req.FormID).Observe(time.Since(started).Seconds())

	if d.deps.Observability != nil {
		d.deps.Observability.RecordSubmission(ctx, status)
		d.deps.Observability.RecordSubmissionDuration(ctx, time.Since(started), status)
	}

	return receipt, err
}

func (d *Dispatcher) run(ctx context.Context, req *SubmissionRequest, submissionID string, log logger.Logger) (*Receipt, error) {
	// Cheap check first: reject unknown forms before any authorization work.
	form, found := d.deps.Registry.Lookup(req.FormID)
	if !found {
		log.Warn("unknown form", nil)
		return nil, errors.NewFormNotFoundError(req.FormID)
	}

	// Reject bad origins before spending a provider round-trip.
	host, allowed := d.deps.Origins.Authorize(req.Origin)
	if !allowed {
		return nil, errors.NewOriginRejectedError(host)
	}

	// Schema before captcha: cheap before expensive.
	if result := schema.Validate(form.Fields, req.Data); !result.Valid {
		log.Warn("schema validation failed", map[string]interface{}{
			"missingFields": result.Missing,
		})
		return nil, errors.NewSchemaRejectedError(result.Missing)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Normalize(err)
	}

	if err := d.deps.Captcha.Verify(ctx, req.CaptchaToken, host); err != nil {
		return nil, err
	}

	// All checks passed; rendering is only reachable for verified input.
	message, err := d.deps.Renderer.Render(form.Template, req.Data)
	if err != nil {
		log.WithError(err).Error("template rendering failed, registry misconfigured", map[string]interface{}{
			"templateKey": form.Template,
		})
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Normalize(err)
	}

	if err := d.deps.Sender.Send(ctx, form.Recipients, message.Subject, message.Body); err != nil {
		log.WithError(err).Error("mail delivery failed", map[string]interface{}{
			"recipients": len(form.Recipients),
		})
		return nil, errors.NewTransportError(err)
	}

	if d.deps.Alerts != nil {
		d.deps.Alerts.MaybeAlert(ctx, form, req.Data)
	}

	log.Info("submission delivered", map[string]interface{}{
		"recipients": len(form.Recipients),
		"origin":     host,
	})

	return &Receipt{
		SubmissionID: submissionID,
		FormID:       form.ID,
		Recipients:   len(form.Recipients),
	}, nil
}
