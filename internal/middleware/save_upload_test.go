package middleware_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpbalagtas/kusinakit/internal/middleware"
)

func multipartBody(t *testing.T, details string, fileField, fileName, fileContent string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if details != "" {
		if err := writer.WriteField("details", details); err != nil {
			t.Fatalf("writer.WriteField() error = %v", err)
		}
	}

	if fileName != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("writer.CreateFormFile() error = %v", err)
		}
		if _, err := io.WriteString(part, fileContent); err != nil {
			t.Fatalf("io.WriteString() error = %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close() error = %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestMiddleware_SaveUpload(t *testing.T) {
	t.Parallel()

	const maxBytes = 3 << 20

	t.Run("file saved to disk and attached to context", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		content := "fake image bytes"
		body, contentType := multipartBody(t, `{"name":"Soup"}`, "image", "my pic.jpg", content)

		var gotUpload *middleware.UploadedFile
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUpload = middleware.UploadFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/createRecipe", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		middleware.SaveUpload("image", dir, maxBytes)(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("rec.Code = %d, want: %d", rec.Code, http.StatusOK)
		}
		if gotUpload == nil {
			t.Fatal("no upload attached to the request context")
		}

		if gotUpload.OriginalName != "my pic.jpg" {
			t.Errorf("gotUpload.OriginalName = %q, want: %q", gotUpload.OriginalName, "my pic.jpg")
		}
		if !strings.HasSuffix(gotUpload.Name, "_my_pic.jpg") {
			t.Errorf("gotUpload.Name = %q, want a timestamped _my_pic.jpg", gotUpload.Name)
		}
		if gotUpload.Size != int64(len(content)) {
			t.Errorf("gotUpload.Size = %d, want: %d", gotUpload.Size, len(content))
		}
		if gotUpload.Path != filepath.Join(dir, gotUpload.Name) {
			t.Errorf("gotUpload.Path = %q, want it under %q", gotUpload.Path, dir)
		}

		saved, err := os.ReadFile(gotUpload.Path)
		if err != nil {
			t.Fatalf("os.ReadFile() error = %v", err)
		}
		if string(saved) != content {
			t.Errorf("saved content = %q, want: %q", saved, content)
		}
	})

	t.Run("request without a file passes through", func(t *testing.T) {
		t.Parallel()

		body, contentType := multipartBody(t, `{"name":"Soup"}`, "image", "", "")

		called := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			if upload := middleware.UploadFromContext(r.Context()); upload != nil {
				t.Errorf("upload = %+v, want: nil", upload)
			}
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/createRecipe", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		middleware.SaveUpload("image", t.TempDir(), maxBytes)(handler).ServeHTTP(rec, req)

		if !called {
			t.Error("next handler was not called")
		}
	})

	t.Run("oversize form is rejected", func(t *testing.T) {
		t.Parallel()

		big := strings.Repeat("x", 2048)
		body, contentType := multipartBody(t, `{"name":"Soup"}`, "image", "big.bin", big)

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("next handler must not run on an oversize form")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/createRecipe", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		middleware.SaveUpload("image", t.TempDir(), 512)(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("rec.Code = %d, want: %d", rec.Code, http.StatusRequestEntityTooLarge)
		}
	})

	t.Run("non-multipart body is rejected", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("next handler must not run on a bad form")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/createRecipe", strings.NewReader("not a form"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		middleware.SaveUpload("image", t.TempDir(), maxBytes)(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("rec.Code = %d, want: %d", rec.Code, http.StatusBadRequest)
		}
	})
}
