package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureOptions returns the security-header policy. HSTS and the SSL redirect
// are only meaningful behind TLS, so they are enabled in production only.
func SecureOptions(production bool) secure.Options {
	opts := secure.Options{
		IsDevelopment:         !production,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
	if production {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
		opts.SSLProxyHeaders = map[string]string{"X-Forwarded-Proto": "https"}
	}
	return opts
}

// Secure returns a middleware that adds security headers.
func Secure(opts secure.Options) func(http.Handler) http.Handler {
	return secure.New(opts).Handler
}
