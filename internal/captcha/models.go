package captcha

// Provider identifies the active verification backend. At most one provider
// is active per process; the choice is made once at startup.
type Provider string

const (
	ProviderNone      Provider = "none"
	ProviderTurnstile Provider = "turnstile"
	ProviderRecaptcha Provider = "recaptcha"
)

const (
	turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
)

// verifyResponse is the wire shape shared by the Turnstile and reCAPTCHA
// siteverify endpoints.
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}
