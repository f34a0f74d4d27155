package middleware

import (
	"net/http"
	"strings"
)

// TrimSlash returns middleware redirecting trailing-slash paths to their
// canonical form. The bare root path is left alone.
func TrimSlash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if len(path) > 1 && strings.HasSuffix(path, "/") {
				target := strings.TrimSuffix(path, "/")
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
