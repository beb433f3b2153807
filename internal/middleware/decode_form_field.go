package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jpbalagtas/kusinakit/internal/pkg/message"
	"github.com/jpbalagtas/kusinakit/internal/pkg/web"
)

// DecodeFormField decodes the JSON document carried in a multipart form
// field and attaches it to the request context. It runs after SaveUpload,
// which has already parsed the form.
func DecodeFormField[T any](field string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Info("Decoding form field...", "field", field)
			raw := r.FormValue(field)
			if raw == "" {
				web.Fail(w, http.StatusBadRequest, fmt.Errorf("missing form field %s", field), message.InvalidInput, nil)
				return
			}

			decoder := json.NewDecoder(strings.NewReader(raw))
			decoder.DisallowUnknownFields()
			var decoded T
			if err := decoder.Decode(&decoded); err != nil {
				web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
				return
			}

			ctx := web.NewContextWithParams(r.Context(), decoded)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
