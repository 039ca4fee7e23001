// Package captcha performs server-to-server token verification against a
// configured CAPTCHA provider.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"form-gateway/internal/common/errors"
	"form-gateway/internal/common/httpclient"
	"form-gateway/internal/common/logger"
	"form-gateway/internal/common/metrics"
)

// Verifier checks submission tokens with the active provider. With no
// provider configured, verification is skipped entirely; this is a
// deliberate disabled mode for local use, not an error.
type Verifier struct {
	provider Provider
	secret   string
	endpoint string
	client   *httpclient.Client
	logger   logger.Logger
}

// NewVerifier selects the provider from the configured secrets. If both are
// configured, Turnstile wins; the precedence is logged rather than silently
// resolved.
func NewVerifier(cfg *Config, log logger.Logger) *Verifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		// Unset timeout must never mean an unbounded provider round-trip.
		timeout = DefaultConfig().Timeout
	}

	v := &Verifier{
		provider: ProviderNone,
		client:   httpclient.NewClient(timeout),
		logger:   log,
	}

	switch {
	case cfg.TurnstileSecret != "" && cfg.RecaptchaSecret != "":
		log.Warn("both Turnstile and reCAPTCHA configured, using Turnstile", nil)
		v.provider = ProviderTurnstile
		v.secret = cfg.TurnstileSecret
		v.endpoint = turnstileVerifyURL
	case cfg.TurnstileSecret != "":
		log.Info("Turnstile CAPTCHA enabled", nil)
		v.provider = ProviderTurnstile
		v.secret = cfg.TurnstileSecret
		v.endpoint = turnstileVerifyURL
	case cfg.RecaptchaSecret != "":
		log.Info("reCAPTCHA enabled", nil)
		v.provider = ProviderRecaptcha
		v.secret = cfg.RecaptchaSecret
		v.endpoint = recaptchaVerifyURL
	default:
		log.Warn("no CAPTCHA configured - not recommended for production", nil)
	}

	if cfg.Endpoint != "" {
		v.endpoint = cfg.Endpoint
	}

	return v
}

// Enabled reports whether a provider is active.
func (v *Verifier) Enabled() bool {
	return v.provider != ProviderNone
}

// Provider returns the active provider.
func (v *Verifier) Provider() Provider {
	return v.provider
}

// Verify checks the token with the active provider. Returns nil when the
// token is valid or verification is disabled. A missing token is rejected
// without a network call. Transport failures are surfaced as a distinct
// unavailable outcome and never treated as success.
func (v *Verifier) Verify(ctx context.Context, token, remoteHost string) error {
	if v.provider == ProviderNone {
		return nil
	}

	if strings.TrimSpace(token) == "" {
		metrics.CaptchaVerifications.WithLabelValues(string(v.provider), "token_missing").Inc()
		return errors.NewCaptchaTokenMissingError()
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteHost != "" {
		form.Set("remoteip", remoteHost)
	}

	req, err := http.NewRequest(http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.NewCaptchaUnavailableError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.DoWithContext(ctx, req)
	if err != nil {
		v.logger.WithError(err).Error("captcha provider unreachable", map[string]interface{}{
			"provider": v.provider,
		})
		metrics.CaptchaVerifications.WithLabelValues(string(v.provider), "unavailable").Inc()
		return errors.NewCaptchaUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Error("captcha provider returned non-200", map[string]interface{}{
			"provider": v.provider,
			"status":   resp.StatusCode,
		})
		metrics.CaptchaVerifications.WithLabelValues(string(v.provider), "unavailable").Inc()
		return errors.NewCaptchaUnavailableError(fmt.Errorf("provider status %d", resp.StatusCode))
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.CaptchaVerifications.WithLabelValues(string(v.provider), "unavailable").Inc()
		return errors.NewCaptchaUnavailableError(fmt.Errorf("decode provider response: %w", err))
	}

	if !result.Success {
		v.logger.Warn("captcha token rejected by provider", map[string]interface{}{
			"provider":   v.provider,
			"errorCodes": result.ErrorCodes,
		})
		metrics.CaptchaVerifications.WithLabelValues(string(v.provider), "invalid").Inc()
		return errors.NewCaptchaTokenInvalidError()
	}

	metrics.CaptchaVerifications.WithLabelValues(string(v.provider), "success").Inc()
	return nil
}
