package recipe

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/jpbalagtas/kusinakit/internal/middleware"
	"github.com/jpbalagtas/kusinakit/internal/pkg/message"
	"github.com/jpbalagtas/kusinakit/internal/pkg/web"
	"github.com/jpbalagtas/kusinakit/internal/store"
)

type Service interface {
	Create(ctx context.Context, details CreateRequest, upload *UploadInput) (*Created, error)
	List(ctx context.Context) ([]Recipe, error)
	Update(ctx context.Context, id string, params UpdateRequest) (*Recipe, error)
	Delete(ctx context.Context, id string) error
	OpenImage(ctx context.Context, id string) (io.ReadCloser, error)
}

// ImagePath reconstructs the retrieval URL path of a stored image from
// its file id.
func ImagePath(id string) string {
	return "/api/v1/images/" + id
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	details, err := web.ParamsFromContext[CreateRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	var upload *UploadInput
	if parsed := middleware.UploadFromContext(r.Context()); parsed != nil {
		upload = &UploadInput{
			Path:         parsed.Path,
			Name:         parsed.Name,
			OriginalName: parsed.OriginalName,
			Size:         parsed.Size,
		}
	}

	created, err := h.svc.Create(r.Context(), details, upload)
	if err != nil {
		failFromError(w, err)
		return
	}

	msg := message.RecipeCreated
	web.OK(w, http.StatusCreated, &msg, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.List(r.Context())
	if err != nil {
		failFromError(w, err)
		return
	}

	web.OK(w, http.StatusOK, nil, &recipes)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	params, err := web.ParamsFromContext[UpdateRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	updated, err := h.svc.Update(r.Context(), r.PathValue("id"), params)
	if err != nil {
		failFromError(w, err)
		return
	}

	msg := message.RecipeUpdated
	web.OK(w, http.StatusOK, &msg, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		failFromError(w, err)
		return
	}

	msg := message.RecipeDeleted
	web.OK(w, http.StatusOK, &msg, &DeleteResponse{DeletedID: id})
}

func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	file, err := h.svc.OpenImage(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Fail(w, http.StatusNotFound, err, message.ImageNotFound, nil)
			return
		}
		failFromError(w, err)
		return
	}
	defer file.Close()

	// Sniff the content type from the leading bytes.
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	head = head[:n]

	w.Header().Set(web.HeaderContentType, http.DetectContentType(head))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(head); err != nil {
		return
	}
	io.Copy(w, file) //nolint:errcheck //The status line is already sent.
}

// failFromError maps a store error kind to an HTTP status code and a
// client-facing message.
func failFromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		web.Fail(w, http.StatusNotFound, err, message.RecipeNotFound, nil)
	case errors.Is(err, store.ErrUnavailable):
		web.Fail(w, http.StatusServiceUnavailable, err, message.StoreDown, nil)
	case errors.Is(err, store.ErrInvalid):
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
	default:
		web.Fail(w, http.StatusInternalServerError, err, message.SomethingWrong, nil)
	}
}
