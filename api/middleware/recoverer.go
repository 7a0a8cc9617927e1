package middleware

import (
	"fmt"
	"net/http"

	"github.com/catcoin/pos-backend/api/responses"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
	"github.com/catcoin/pos-backend/pkg/logger"
)

// Recoverer turns a handler panic into the INTERNAL_ERROR envelope. When the
// handler had already started its response only the log line is written.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("panic: %v", v), "handler panicked")
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{
						"method":          r.Method,
						"path":            r.URL.Path,
						"panic":           fmt.Sprint(v),
						"response_status": rec.status,
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				if rec.status != 0 {
					return
				}
				responses.WriteError(r.Context(), nil, rec, err)
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
