package recipe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jpbalagtas/kusinakit/internal/config"
	"github.com/jpbalagtas/kusinakit/internal/store"
)

// wildcardPerm grants unrestricted read/write on stored files. The
// permission lists are opaque to the file store adapters; this is the
// only policy the API hands out.
var wildcardPerm = []string{"*"}

// service orchestrates the two store adapters. It is the sole writer of
// createdAt and the only component that calls both adapters.
type service struct {
	records    store.RecordStore
	files      store.FileStore
	collection string
	opTimeout  time.Duration
	now        func() time.Time
}

var _ Service = &service{}

func NewService(records store.RecordStore, files store.FileStore, cfg *config.StoreOptions) *service {
	return &service{
		records:    records,
		files:      files,
		collection: cfg.Collection,
		opTimeout:  cfg.OpTimeout.Duration,
		now:        time.Now,
	}
}

// Create stores the uploaded image first, then the record referencing
// it. There is no transaction across the two steps: when the record
// store fails after a successful upload the stored file is removed on a
// best-effort basis. The local temp copy of the upload is deleted on
// every exit path.
func (s *service) Create(ctx context.Context, details CreateRequest, upload *UploadInput) (*Created, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var image *Image
	if upload != nil {
		defer func() {
			if err := os.Remove(upload.Path); err != nil {
				slog.Warn("failed to remove temp upload", "path", upload.Path, "reason", err)
			}
		}()

		src, err := os.Open(upload.Path)
		if err != nil {
			return nil, fmt.Errorf("open uploaded file %s: %w", upload.Path, err)
		}

		fileID, err := s.files.Store(ctx, upload.Name, src, wildcardPerm, wildcardPerm)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("store image %s: %w", upload.Name, err)
		}

		image = &Image{
			ID:   fileID,
			Name: upload.Name,
			Size: upload.Size,
			URL:  ImagePath(fileID),
		}
	}

	fields := store.Fields{
		"name":        details.Name,
		"ingredients": details.Ingredients,
		"recipe":      details.Directions,
		"createdAt":   store.FormatTime(s.now()),
	}
	if image != nil {
		fields["imageRef"] = image.ID
	}

	record, err := s.records.Create(ctx, s.collection, fields)
	if err != nil {
		if image != nil {
			if removeErr := s.files.Remove(ctx, image.ID); removeErr != nil {
				slog.Warn("failed to remove orphaned image", "id", image.ID, "reason", removeErr)
			}
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	return &Created{Data: fromRecord(*record), Image: image}, nil
}

// List returns the whole collection, newest first. Ordering is
// delegated to the record store backend.
func (s *service) List(ctx context.Context) ([]Recipe, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	records, err := s.records.List(ctx, s.collection, store.DefaultListOptions())
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	recipes := make([]Recipe, 0, len(records))
	for _, record := range records {
		recipes = append(recipes, fromRecord(record))
	}
	return recipes, nil
}

// Update merges the fields set in params into the stored record.
// Repeating an identical call leaves the record unchanged.
func (s *service) Update(ctx context.Context, id string, params UpdateRequest) (*Recipe, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	fields := store.Fields{}
	if params.Name != nil {
		fields["name"] = *params.Name
	}
	if params.Ingredients != nil {
		fields["ingredients"] = *params.Ingredients
	}
	if params.Directions != nil {
		fields["recipe"] = *params.Directions
	}

	record, err := s.records.Update(ctx, s.collection, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update recipe %s: %w", id, err)
	}

	updated := fromRecord(*record)
	return &updated, nil
}

// Delete removes the record only; a referenced stored image is kept, in
// line with the original contract.
func (s *service) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.records.Delete(ctx, s.collection, id); err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	return nil
}

// OpenImage streams a stored recipe image.
func (s *service) OpenImage(ctx context.Context, id string) (io.ReadCloser, error) {
	file, err := s.files.Open(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", id, err)
	}
	return file, nil
}

func (s *service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func fromRecord(record store.Record) Recipe {
	return Recipe{
		ID:          record.ID,
		Name:        fieldString(record.Fields, "name"),
		Ingredients: fieldString(record.Fields, "ingredients"),
		Directions:  fieldString(record.Fields, "recipe"),
		CreatedAt:   fieldString(record.Fields, "createdAt"),
		ImageRef:    fieldString(record.Fields, "imageRef"),
	}
}

func fieldString(fields store.Fields, key string) string {
	val, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return val
}
