package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form-gateway/internal/common/config"
	"form-gateway/internal/common/errors"
	"form-gateway/internal/common/logger"
	"form-gateway/internal/dispatch"
	"form-gateway/internal/origin"
	"form-gateway/internal/render"
	"form-gateway/pkg/registry"
)

type stubSender struct {
	calls int
	fail  bool
}

func (s *stubSender) Send(context.Context, []string, string, string) error {
	s.calls++
	if s.fail {
		return fmt.Errorf("connection refused")
	}
	return nil
}

type stubVerifier struct {
	err error
}

func (v *stubVerifier) Verify(context.Context, string, string) error {
	return v.err
}

func newTestRouter(t *testing.T, captcha dispatch.CaptchaVerifier, sender *stubSender) http.Handler {
	t.Helper()

	reg := registry.Default()
	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	dispatcher := dispatch.NewDispatcher(dispatch.Dependencies{
		Registry: reg,
		Origins:  origin.NewAuthorizer([]string{"h190k.com"}, false, logger.NewNoOpLogger()),
		Captcha:  captcha,
		Renderer: renderer,
		Sender:   sender,
		Logger:   logger.NewNoOpLogger(),
	})

	h := NewHandlers("form-gateway", reg, dispatcher, logger.NewNoOpLogger())
	srv := NewServer(config.ServerConfig{
		Host:        "127.0.0.1",
		Port:        8000,
		CORSOrigins: []string{"https://h190k.com"},
	}, h)
	return srv.Handler()
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func submission() map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]string{
			"name":    "A",
			"email":   "a@b.com",
			"message": "hi",
		},
		"captcha_token": "tok",
		"origin":        "https://h190k.com",
	}
}

func TestHandleHealth(t *testing.T) {
	router := newTestRouter(t, &stubVerifier{}, &stubSender{})

	rec := doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "form-gateway", body["service"])
}

func TestHandleListForms_OrderedAndIdempotent(t *testing.T) {
	router := newTestRouter(t, &stubVerifier{}, &stubSender{})

	first := doJSON(t, router, http.MethodGet, "/forms", nil)
	require.Equal(t, http.StatusOK, first.Code)

	// keys appear in registry order, not map order
	body := first.Body.String()
	contactAt := strings.Index(body, `"contact"`)
	supportAt := strings.Index(body, `"support"`)
	newsletterAt := strings.Index(body, `"newsletter"`)
	require.True(t, contactAt >= 0 && supportAt >= 0 && newsletterAt >= 0)
	assert.Less(t, contactAt, supportAt)
	assert.Less(t, supportAt, newsletterAt)

	var forms map[string]struct {
		Name   string   `json:"name"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &forms))
	assert.Equal(t, "Contact Form", forms["contact"].Name)
	assert.Equal(t, []string{"name", "email", "message"}, forms["contact"].Fields)

	second := doJSON(t, router, http.MethodGet, "/forms", nil)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestHandleGetForm(t *testing.T) {
	router := newTestRouter(t, &stubVerifier{}, &stubSender{})

	rec := doJSON(t, router, http.MethodGet, "/forms/support", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var form registry.FormSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &form))
	assert.Equal(t, "support", form.ID)
	assert.Equal(t, "Support Form", form.Name)
}

func TestHandleGetForm_NotFound(t *testing.T) {
	router := newTestRouter(t, &stubVerifier{}, &stubSender{})

	rec := doJSON(t, router, http.MethodGet, "/forms/ghost", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Form not found")
}

func TestHandleSubmit_Success(t *testing.T) {
	sender := &stubSender{}
	router := newTestRouter(t, &stubVerifier{}, sender)

	rec := doJSON(t, router, http.MethodPost, "/submit/contact", submission())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success      bool   `json:"success"`
		Message      string `json:"message"`
		SubmissionID string `json:"submissionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Form submitted successfully", resp.Message)
	assert.NotEmpty(t, resp.SubmissionID)
	assert.Equal(t, 1, sender.calls)
}

func TestHandleSubmitAlias_UsesBodyFormID(t *testing.T) {
	sender := &stubSender{}
	router := newTestRouter(t, &stubVerifier{}, sender)

	body := submission()
	body["form_id"] = "contact"

	rec := doJSON(t, router, http.MethodPost, "/submit", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sender.calls)
}

func TestHandleSubmit_URLWinsOverBodyFormID(t *testing.T) {
	sender := &stubSender{}
	router := newTestRouter(t, &stubVerifier{}, sender)

	body := submission()
	body["form_id"] = "newsletter"

	rec := doJSON(t, router, http.MethodPost, "/submit/contact", body)
	// newsletter would reject the message field set; contact accepts it
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sender.calls)
}

func TestHandleSubmit_OriginHeaderFallback(t *testing.T) {
	sender := &stubSender{}
	router := newTestRouter(t, &stubVerifier{}, sender)

	body := submission()
	delete(body, "origin")

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/submit/contact", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://h190k.com")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sender.calls)
}

func TestHandleSubmit_StatusMappings(t *testing.T) {
	tests := []struct {
		name       string
		captchaErr error
		senderFail bool
		mutate     func(map[string]interface{})
		wantStatus int
		wantDetail string
	}{
		{
			name:       "unknown form",
			mutate:     func(b map[string]interface{}) {},
			wantStatus: http.StatusNotFound,
			wantDetail: "Form not found",
		},
		{
			name: "origin rejected",
			mutate: func(b map[string]interface{}) {
				b["origin"] = "https://evil.example"
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Origin not allowed",
		},
		{
			name: "missing fields listed",
			mutate: func(b map[string]interface{}) {
				b["data"] = map[string]string{"name": "A"}
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "missing fields: email, message",
		},
		{
			name:       "captcha token invalid",
			captchaErr: errors.NewCaptchaTokenInvalidError(),
			mutate:     func(b map[string]interface{}) {},
			wantStatus: http.StatusBadRequest,
			wantDetail: "token invalid",
		},
		{
			name:       "captcha provider unavailable",
			captchaErr: errors.NewCaptchaUnavailableError(fmt.Errorf("siteverify timeout")),
			mutate:     func(b map[string]interface{}) {},
			wantStatus: http.StatusBadGateway,
			wantDetail: "verification unavailable",
		},
		{
			name:       "delivery failure",
			senderFail: true,
			mutate:     func(b map[string]interface{}) {},
			wantStatus: http.StatusBadGateway,
			wantDetail: "delivery failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &stubSender{fail: tt.senderFail}
			router := newTestRouter(t, &stubVerifier{err: tt.captchaErr}, sender)

			path := "/submit/contact"
			if tt.name == "unknown form" {
				path = "/submit/ghost"
			}

			body := submission()
			tt.mutate(body)

			rec := doJSON(t, router, http.MethodPost, path, body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp struct {
				Success bool   `json:"success"`
				Detail  string `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Detail, tt.wantDetail)
		})
	}
}

func TestHandleSubmit_MalformedBody(t *testing.T) {
	router := newTestRouter(t, &stubVerifier{}, &stubSender{})

	req := httptest.NewRequest(http.MethodPost, "/submit/contact", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}
