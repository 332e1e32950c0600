package i18n

import (
	"net/http"

	"github.com/kasitis/tests1/internal/model"
)

// Middleware attaches a request-scoped localizer. langFn is consulted per
// request so a language change in settings takes effect immediately.
func Middleware(langFn func() model.Language) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := NewLocalizer(langFn())
			next.ServeHTTP(w, r.WithContext(WithLocalizer(r.Context(), loc)))
		})
	}
}
