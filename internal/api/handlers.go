package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"form-gateway/internal/common/logger"
	"form-gateway/internal/dispatch"
	"form-gateway/pkg/registry"
)

// Handlers holds the HTTP handlers for the gateway's public surface.
type Handlers struct {
	serviceName string
	registry    *registry.Registry
	dispatcher  *dispatch.Dispatcher
	logger      logger.Logger
}

func NewHandlers(serviceName string, reg *registry.Registry, dispatcher *dispatch.Dispatcher, log logger.Logger) *Handlers {
	return &Handlers{
		serviceName: serviceName,
		registry:    reg,
		dispatcher:  dispatcher,
		logger:      log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// HandleHealth is the liveness endpoint.
//
//	GET /
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.serviceName,
	})
}

// HandleListForms returns every registered form's public view, keyed by form
// id, in registry order.
//
//	GET /forms
func (h *Handlers) HandleListForms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orderedForms(h.registry.List()))
}

// HandleGetForm returns a single form's public view.
//
//	GET /forms/{formID}
func (h *Handlers) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	form, ok := h.registry.Lookup(formID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Form not found"})
		return
	}

	writeJSON(w, http.StatusOK, registry.FormSummary{
		ID:     form.ID,
		Name:   form.Name,
		Fields: form.Fields,
	})
}

// HandleSubmit runs the submission pipeline for the form named in the URL.
//
//	POST /submit/{formID}
func (h *Handlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, chi.URLParam(r, "formID"))
}

// HandleSubmitAlias accepts a submission whose form id is only in the body.
//
//	POST /submit
func (h *Handlers) HandleSubmitAlias(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "")
}

func (h *Handlers) submit(w http.ResponseWriter, r *http.Request, formID string) {
	var req dispatch.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Success: false,
			Detail:  "invalid request body",
		})
		return
	}

	// The URL path wins over the body's form_id when both are present.
	if formID != "" {
		req.FormID = formID
	}

	// Fall back to the Origin header when the body carries no origin.
	if req.Origin == "" {
		req.Origin = r.Header.Get("Origin")
	}

	receipt, err := h.dispatcher.Dispatch(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:      true,
		Message:      "Form submitted successfully",
		SubmissionID: receipt.SubmissionID,
	})
}

type submitResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Detail       string `json:"detail,omitempty"`
	SubmissionID string `json:"submissionId,omitempty"`
}

// orderedForms marshals the form list as a JSON object keyed by form id,
// preserving registry order. Encoding a plain map would reorder the keys.
type orderedForms []registry.FormSummary

func (o orderedForms) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, form := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(form.ID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(map[string]interface{}{
			"name":   form.Name,
			"fields": form.Fields,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
