package api

import (
	"net/http"

	"form-gateway/internal/common/errors"
)

// writeError translates a pipeline outcome into an HTTP response. Client
// errors carry their detail verbatim; infrastructure failures are reported
// generically so provider-outage and transport detail stays in the logs.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)

	status := http.StatusInternalServerError
	detail := stdErr.Details

	switch stdErr.Code {
	case errors.ErrCodeFormNotFound:
		status = http.StatusNotFound
		detail = "Form not found"
	case errors.ErrCodeOriginRejected:
		status = http.StatusBadRequest
		detail = "Origin not allowed"
	case errors.ErrCodeSchemaRejected:
		status = http.StatusBadRequest
	case errors.ErrCodeCaptchaRejected:
		if stdErr.Retryable {
			// Provider unreachable. Infrastructure issue, not a bad token.
			status = http.StatusBadGateway
			detail = "verification unavailable, please try again"
			h.logger.WithError(stdErr).Error("captcha provider unavailable", stdErr.Metadata)
		} else {
			status = http.StatusBadRequest
		}
	case errors.ErrCodeTransportError:
		status = http.StatusBadGateway
		detail = "delivery failed, please try again"
		h.logger.WithError(stdErr).Error("mail transport failure", map[string]interface{}{
			"details": stdErr.Details,
		})
	case errors.ErrCodeConfigurationError:
		// Registry integrity bug that escaped startup validation. Operator
		// facing, not a user input error.
		detail = "internal configuration error"
		h.logger.WithError(stdErr).Error("configuration error at request time", map[string]interface{}{
			"details": stdErr.Details,
		})
	default:
		detail = "internal error"
		h.logger.WithError(stdErr).Error("unexpected dispatch failure", nil)
	}

	writeJSON(w, status, submitResponse{
		Success: false,
		Detail:  detail,
	})
}
