package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jpbalagtas/kusinakit/internal/pkg/message"
	"github.com/jpbalagtas/kusinakit/internal/pkg/web"
)

// UploadedFile describes a file the upload middleware has written to
// local disk before the handler runs. The local copy is temporary; the
// consumer deletes it once the bytes are durably stored.
type UploadedFile struct {
	Path         string
	Name         string
	OriginalName string
	Size         int64
}

type uploadCtxKey int

const uploadKey uploadCtxKey = iota

func NewContextWithUpload(baseCtx context.Context, upload *UploadedFile) context.Context {
	return context.WithValue(baseCtx, uploadKey, upload)
}

// UploadFromContext returns the parsed upload, or nil when the request
// carried no file.
func UploadFromContext(ctx context.Context) *UploadedFile {
	upload, ok := ctx.Value(uploadKey).(*UploadedFile)
	if !ok {
		return nil
	}
	return upload
}

// SaveUpload parses a multipart form capped at maxBytes, writes the file
// sent under field to dir as "<unix-ms>_<original name>" and attaches an
// UploadedFile to the request context. A request without a file under
// field passes through untouched.
func SaveUpload(field, dir string, maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			if err := r.ParseMultipartForm(maxBytes); err != nil {
				var maxBytesErr *http.MaxBytesError
				if errors.As(err, &maxBytesErr) {
					web.Fail(w, http.StatusRequestEntityTooLarge, err, message.UploadTooLarge, nil)
					return
				}
				web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
				return
			}

			file, header, err := r.FormFile(field)
			if errors.Is(err, http.ErrMissingFile) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
				return
			}
			defer file.Close()

			upload, err := writeUpload(file, header.Filename, dir)
			if err != nil {
				web.Fail(w, http.StatusInternalServerError, err, message.SomethingWrong, nil)
				return
			}
			slog.Info("Upload saved.", "path", upload.Path, "size", upload.Size)

			ctx := NewContextWithUpload(r.Context(), upload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUpload(src io.Reader, originalName, dir string) (*UploadedFile, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeFilename(originalName))
	path := filepath.Join(dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("create upload file %s: %w", path, err)
	}

	size, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write upload file %s: %w", path, err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close upload file %s: %w", path, err)
	}

	return &UploadedFile{
		Path:         path,
		Name:         name,
		OriginalName: originalName,
		Size:         size,
	}, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, " ", "_")
}
