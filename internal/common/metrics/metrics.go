package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_submissions_received_total",
			Help: "Total number of submissions received per form",
		},
		[]string{"form_id"},
	)

	SubmissionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_submissions_rejected_total",
			Help: "Total number of submissions rejected per form and error code",
		},
		[]string{"form_id", "error_code"},
	)

	SubmissionsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_submissions_delivered_total",
			Help: "Total number of submissions delivered to recipients",
		},
		[]string{"form_id"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_submission_duration_seconds",
			Help: "Duration of submission pipeline processing in seconds",
		},
		[]string{"form_id"},
	)

	CaptchaVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_captcha_verifications_total",
			Help: "Total number of CAPTCHA provider round-trips by result",
		},
		[]string{"provider", "result"},
	)
)
