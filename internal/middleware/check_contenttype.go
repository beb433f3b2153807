package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jpbalagtas/kusinakit/internal/pkg/message"
	"github.com/jpbalagtas/kusinakit/internal/pkg/web"
)

func CheckContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Checking Content-Type...")
		contentType := r.Header.Get(web.HeaderContentType)

		if contentType != web.MimeJSON {
			web.Fail(w, http.StatusNotAcceptable, fmt.Errorf("invalid content-type: %s", contentType), message.InvalidInput, nil)
			return
		}

		slog.Info("Content-Type is valid.")
		next.ServeHTTP(w, r)
	})
}
