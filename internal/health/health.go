package health

import (
	"context"
	"net/http"
	"time"

	"github.com/ferdiebergado/gopherkit/http/response"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger checks the readiness of the active storage backend.
type Pinger func(ctx context.Context) error

type Handler struct {
	pinger      Pinger
	promHandler http.Handler
}

func NewHandler(pinger Pinger) *Handler {
	return &Handler{
		pinger:      pinger,
		promHandler: promhttp.Handler(),
	}
}

type status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message,omitempty"`
}

// Live reports that the process is up.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, &status{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether the storage backend answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := &status{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	code := http.StatusOK
	if err := h.pinger(r.Context()); err != nil {
		resp.Status = "fail"
		resp.Message = err.Error()
		code = http.StatusServiceUnavailable
	}

	response.JSON(w, code, resp)
}

// Metrics serves the Prometheus registry.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
