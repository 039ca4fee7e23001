package origin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"form-gateway/internal/common/logger"
)

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{name: "https url", origin: "https://example.com", want: "example.com"},
		{name: "http url with port", origin: "http://localhost:3000", want: "localhost"},
		{name: "url with path", origin: "https://example.com/contact", want: "example.com"},
		{name: "bare domain", origin: "example.com", want: "example.com"},
		{name: "bare domain with port", origin: "example.com:8080", want: "example.com"},
		{name: "bare domain with path", origin: "example.com/page", want: "example.com"},
		{name: "uppercase", origin: "HTTPS://EXAMPLE.COM", want: "example.com"},
		{name: "surrounding whitespace", origin: "  https://example.com  ", want: "example.com"},
		{name: "empty", origin: "", want: ""},
		{name: "whitespace only", origin: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHost(tt.origin))
		})
	}
}

func TestAuthorize(t *testing.T) {
	log := logger.NewNoOpLogger()

	tests := []struct {
		name     string
		domains  []string
		allowAll bool
		origin   string
		wantOK   bool
	}{
		{
			name:    "allowed exact match",
			domains: []string{"example.com"},
			origin:  "https://example.com",
			wantOK:  true,
		},
		{
			name:    "allowed case insensitive",
			domains: []string{"Example.COM"},
			origin:  "https://example.com",
			wantOK:  true,
		},
		{
			name:    "allowed with port stripped",
			domains: []string{"localhost"},
			origin:  "http://localhost:5173",
			wantOK:  true,
		},
		{
			name:    "unknown domain rejected",
			domains: []string{"example.com"},
			origin:  "https://evil.com",
			wantOK:  false,
		},
		{
			name:    "subdomain not matched by suffix",
			domains: []string{"example.com"},
			origin:  "https://sub.example.com",
			wantOK:  false,
		},
		{
			name:    "allowlist entry embedded in longer host rejected",
			domains: []string{"example.com"},
			origin:  "https://example.com.evil.com",
			wantOK:  false,
		},
		{
			name:    "missing origin rejected",
			domains: []string{"example.com"},
			origin:  "",
			wantOK:  false,
		},
		{
			name:    "empty allowlist fails closed",
			domains: nil,
			origin:  "https://example.com",
			wantOK:  false,
		},
		{
			name:     "explicit allow all accepts anything",
			domains:  nil,
			allowAll: true,
			origin:   "https://anything.example",
			wantOK:   true,
		},
		{
			name:     "allow all still rejects empty origin",
			domains:  nil,
			allowAll: true,
			origin:   "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthorizer(tt.domains, tt.allowAll, log)
			_, ok := a.Authorize(tt.origin)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestAuthorize_ReturnsOffendingHost(t *testing.T) {
	a := NewAuthorizer([]string{"example.com"}, false, logger.NewNoOpLogger())

	host, ok := a.Authorize("https://evil.com:8443")
	assert.False(t, ok)
	assert.Equal(t, "evil.com", host)
}
