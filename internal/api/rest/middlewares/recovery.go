package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/response"
)

const internalServerErrorMessage = "Internal server error"

// Recovery turns handler panics into a JSON 500.
type Recovery struct {
	logger *slog.Logger
}

func (m *Recovery) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			m.logger.ErrorContext(
				r.Context(),
				"panic recovered",
				"error", fmt.Sprint(rec),
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
		}()

		next.ServeHTTP(w, r)
	})
}

// NewRecovery returns a Middleware that recovers panics and logs them to logger.
func NewRecovery(logger *slog.Logger) Middleware {
	return &Recovery{logger: logger}
}
