package auth

import (
	"crypto/subtle"
	"net/http"
)

// BasicAuth guards the admin routes. Empty credentials lock the routes
// entirely instead of opening them.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username == "" || password == "" {
				requireAuth(w)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				requireAuth(w)
				return
			}

			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			if !userOK || !passOK {
				requireAuth(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requireAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Admin Area"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
