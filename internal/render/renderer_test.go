package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form-gateway/internal/common/errors"
)

func newTestRenderer(t *testing.T) *Renderer {
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRenderer_Supports(t *testing.T) {
	r := newTestRenderer(t)

	assert.True(t, r.Supports(KeyContact))
	assert.True(t, r.Supports(KeySupport))
	assert.True(t, r.Supports(KeyNewsletter))
	assert.True(t, r.Supports(KeyGeneric))
	assert.False(t, r.Supports("ghost"))
}

func TestRender_Contact(t *testing.T) {
	r := newTestRenderer(t)

	msg, err := r.Render(KeyContact, map[string]string{
		"name":         "A",
		"email":        "a@b.com",
		"message":      "hi there",
		"service_type": "Web Design",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Contact: Web Design", msg.Subject)
	assert.Contains(t, msg.Body, "New Contact Form Submission")
	assert.Contains(t, msg.Body, "A")
	assert.Contains(t, msg.Body, "a@b.com")
	assert.Contains(t, msg.Body, "hi there")
}

func TestRender_ContactDefaultServiceType(t *testing.T) {
	r := newTestRenderer(t)

	msg, err := r.Render(KeyContact, map[string]string{
		"name":    "A",
		"email":   "a@b.com",
		"message": "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Contact: General", msg.Subject)
}

func TestRender_SupportSubjectUppercasesPriority(t *testing.T) {
	r := newTestRenderer(t)

	msg, err := r.Render(KeySupport, map[string]string{
		"name":        "A",
		"email":       "a@b.com",
		"priority":    "urgent",
		"issue":       "login broken",
		"description": "cannot sign in",
	})
	require.NoError(t, err)

	assert.Equal(t, "Support Ticket - URGENT", msg.Subject)
	assert.Contains(t, msg.Body, "login broken")
}

func TestRender_Newsletter(t *testing.T) {
	r := newTestRenderer(t)

	msg, err := r.Render(KeyNewsletter, map[string]string{
		"name":  "A",
		"email": "a@b.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Newsletter Subscriber", msg.Subject)
	assert.Contains(t, msg.Body, "New Newsletter Signup")
}

func TestRender_EscapesSubmittedValues(t *testing.T) {
	r := newTestRenderer(t)

	msg, err := r.Render(KeyContact, map[string]string{
		"name":    "<script>alert(1)</script>",
		"email":   "a@b.com",
		"message": "hi",
	})
	require.NoError(t, err)

	assert.NotContains(t, msg.Body, "<script>")
	assert.Contains(t, msg.Body, "&lt;script&gt;")
}

func TestRender_MissingOptionalFieldsRenderEmpty(t *testing.T) {
	r := newTestRenderer(t)

	msg, err := r.Render(KeyContact, map[string]string{
		"name": "A",
	})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "<strong>Email:</strong>")
}

func TestRender_GenericDumpsPayload(t *testing.T) {
	r := newTestRenderer(t)

	msg, err := r.Render(KeyGeneric, map[string]string{
		"anything": "goes",
		"other":    "too",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Form Submission", msg.Subject)
	assert.Contains(t, msg.Body, "anything")
	assert.Contains(t, msg.Body, "goes")
}

func TestRender_UnknownKeyIsConfigurationError(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.Render("ghost", map[string]string{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigurationError))
}
