package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecure_SetsHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	Secure(SecureOptions(false))(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
}

func TestSecureOptions_ProductionEnablesHSTS(t *testing.T) {
	opts := SecureOptions(true)
	assert.False(t, opts.IsDevelopment)
	assert.Equal(t, int64(31536000), opts.STSSeconds)
}
