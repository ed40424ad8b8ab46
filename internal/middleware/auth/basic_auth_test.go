package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBasicAuth(t *testing.T) {
	h := BasicAuth("admin", "secret")(okHandler())

	tests := []struct {
		name     string
		user     string
		pass     string
		noHeader bool
		wantCode int
	}{
		{name: "valid", user: "admin", pass: "secret", wantCode: http.StatusOK},
		{name: "wrong password", user: "admin", pass: "nope", wantCode: http.StatusUnauthorized},
		{name: "wrong user", user: "root", pass: "secret", wantCode: http.StatusUnauthorized},
		{name: "no header", noHeader: true, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/admin/constants", nil)
			if !tt.noHeader {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="Admin Area"`, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestBasicAuth_EmptyCredentialsLockRoutes(t *testing.T) {
	h := BasicAuth("", "")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("", "")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
