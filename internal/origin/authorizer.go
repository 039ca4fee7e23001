// Package origin decides whether a request's declared origin belongs to the
// authorized domain set.
package origin

import (
	"net"
	"net/url"
	"strings"

	"form-gateway/internal/common/logger"
)

// Authorizer matches normalized origin hosts against a fixed allowlist.
// Matching is exact, case-insensitive, after stripping scheme and port.
// Suffix or substring matching is deliberately not supported.
type Authorizer struct {
	allowed  map[string]struct{}
	allowAll bool
	logger   logger.Logger
}

// NewAuthorizer builds an authorizer. An empty domain set rejects every
// request (fail-closed) unless allowAll is set explicitly.
func NewAuthorizer(domains []string, allowAll bool, log logger.Logger) *Authorizer {
	allowed := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			allowed[d] = struct{}{}
		}
	}

	if len(allowed) == 0 && allowAll {
		log.Warn("origin checks disabled, all origins accepted", nil)
	}

	return &Authorizer{
		allowed:  allowed,
		allowAll: allowAll,
		logger:   log,
	}
}

// Authorize reports whether the declared origin is acceptable. The returned
// host is the normalized form used for the comparison, for diagnostics on
// rejection.
func (a *Authorizer) Authorize(declaredOrigin string) (host string, ok bool) {
	host = NormalizeHost(declaredOrigin)
	if host == "" {
		a.logger.Warn("no origin provided in request", nil)
		return "", false
	}

	if a.allowAll && len(a.allowed) == 0 {
		return host, true
	}

	if _, ok := a.allowed[host]; ok {
		a.logger.Debug("origin allowed", map[string]interface{}{"host": host})
		return host, true
	}

	a.logger.Warn("origin blocked", map[string]interface{}{
		"host":   host,
		"origin": declaredOrigin,
	})
	return host, false
}

// NormalizeHost extracts the host component from a URL-shaped origin, or
// returns the string itself if already bare. The result is lowercased with
// any port stripped.
func NormalizeHost(origin string) string {
	s := strings.ToLower(strings.TrimSpace(origin))
	if s == "" {
		return ""
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Hostname() == "" {
			return ""
		}
		return u.Hostname()
	}

	// Bare host, possibly with a path or port attached.
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}
