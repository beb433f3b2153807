package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/jpbalagtas/kusinakit/internal/middleware"
	"github.com/jpbalagtas/kusinakit/internal/pkg/web"
	"github.com/jpbalagtas/kusinakit/internal/platform/validation"
)

func TestMiddleware_ValidateInput(t *testing.T) {
	t.Parallel()

	type details struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name       string
		withParams bool
		errs       map[string]string
		wantCode   int
	}{
		{"valid input", true, nil, http.StatusOK},
		{"failed validation returns the error map", true, map[string]string{"name": "name is required"}, http.StatusBadRequest},
		{"no decoded payload in context", false, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator := &validation.StubValidator{
				ValidateStructFunc: func(_ any) map[string]string {
					return tt.errs
				},
			}

			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/createRecipe", http.NoBody)
			if tt.withParams {
				req = req.WithContext(web.NewContextWithParams(req.Context(), details{Name: "Soup"}))
			}
			rec := httptest.NewRecorder()

			middleware.ValidateInput[details](validator)(handler).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("rec.Code = %d, want: %d", rec.Code, tt.wantCode)
			}

			if tt.errs == nil {
				return
			}

			var body web.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !reflect.DeepEqual(body.Errors, tt.errs) {
				t.Errorf("body.Errors = %v, want: %v", body.Errors, tt.errs)
			}
		})
	}
}
