package recipe_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jpbalagtas/kusinakit/internal/config"
	timex "github.com/jpbalagtas/kusinakit/internal/pkg/time"
	"github.com/jpbalagtas/kusinakit/internal/recipe"
	"github.com/jpbalagtas/kusinakit/internal/store"
)

const testCollection = "recipes"

func testStoreOptions() *config.StoreOptions {
	return &config.StoreOptions{
		Collection: testCollection,
		OpTimeout:  timex.Duration{Duration: 5 * time.Second},
	}
}

func TestService_Create_WithoutImage(t *testing.T) {
	t.Parallel()

	details := recipe.CreateRequest{
		Name:        "Soup",
		Ingredients: "Water,Salt",
		Directions:  "Boil",
	}

	var gotFields store.Fields
	records := &store.StubRecordStore{
		CreateFunc: func(_ context.Context, collection string, fields store.Fields) (*store.Record, error) {
			if collection != testCollection {
				t.Errorf("collection = %q, want: %q", collection, testCollection)
			}
			gotFields = fields
			return &store.Record{ID: "rec-1", Fields: fields}, nil
		},
	}
	files := &store.StubFileStore{
		StoreFunc: func(_ context.Context, _ string, _ io.Reader, _, _ []string) (string, error) {
			t.Error("file store must not be called without an upload")
			return "", nil
		},
	}

	svc := recipe.NewService(records, files, testStoreOptions())

	before := time.Now()
	created, err := svc.Create(context.Background(), details, nil)
	if err != nil {
		t.Fatalf("svc.Create() error = %v", err)
	}

	want := recipe.Recipe{
		ID:          "rec-1",
		Name:        "Soup",
		Ingredients: "Water,Salt",
		Directions:  "Boil",
		CreatedAt:   created.Data.CreatedAt,
	}
	if !reflect.DeepEqual(created.Data, want) {
		t.Errorf("created.Data = %+v, want: %+v", created.Data, want)
	}
	if created.Image != nil {
		t.Errorf("created.Image = %+v, want: nil", created.Image)
	}
	if _, ok := gotFields["imageRef"]; ok {
		t.Error("fields must not carry imageRef without an upload")
	}

	createdAt, err := time.Parse(store.TimeLayout, created.Data.CreatedAt)
	if err != nil {
		t.Fatalf("time.Parse(%q) error = %v", created.Data.CreatedAt, err)
	}
	if createdAt.Before(before.UTC().Truncate(time.Second)) || createdAt.After(time.Now().UTC()) {
		t.Errorf("createdAt = %v, want between %v and now", createdAt, before)
	}
}

func TestService_Create_WithImage(t *testing.T) {
	t.Parallel()

	content := []byte("fake image bytes")
	uploadPath := filepath.Join(t.TempDir(), "1700000000000_pic.jpg")
	if err := os.WriteFile(uploadPath, content, 0o640); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	upload := &recipe.UploadInput{
		Path:         uploadPath,
		Name:         "1700000000000_pic.jpg",
		OriginalName: "pic.jpg",
		Size:         int64(len(content)),
	}

	files := &store.StubFileStore{
		StoreFunc: func(_ context.Context, name string, src io.Reader, read, write []string) (string, error) {
			got, err := io.ReadAll(src)
			if err != nil {
				t.Fatalf("io.ReadAll() error = %v", err)
			}
			if !bytes.Equal(got, content) {
				t.Errorf("stored bytes = %q, want: %q", got, content)
			}
			if name != upload.Name {
				t.Errorf("stored name = %q, want: %q", name, upload.Name)
			}
			wantPerm := []string{"*"}
			if !reflect.DeepEqual(read, wantPerm) || !reflect.DeepEqual(write, wantPerm) {
				t.Errorf("permissions = %v/%v, want: %v/%v", read, write, wantPerm, wantPerm)
			}
			return "file-1", nil
		},
	}
	records := &store.StubRecordStore{
		CreateFunc: func(_ context.Context, _ string, fields store.Fields) (*store.Record, error) {
			if fields["imageRef"] != "file-1" {
				t.Errorf(`fields["imageRef"] = %v, want: "file-1"`, fields["imageRef"])
			}
			return &store.Record{ID: "rec-2", Fields: fields}, nil
		},
	}

	svc := recipe.NewService(records, files, testStoreOptions())

	created, err := svc.Create(context.Background(), recipe.CreateRequest{
		Name:        "Soup",
		Ingredients: "Water,Salt",
		Directions:  "Boil",
	}, upload)
	if err != nil {
		t.Fatalf("svc.Create() error = %v", err)
	}

	wantImage := &recipe.Image{
		ID:   "file-1",
		Name: upload.Name,
		Size: upload.Size,
		URL:  "/api/v1/images/file-1",
	}
	if !reflect.DeepEqual(created.Image, wantImage) {
		t.Errorf("created.Image = %+v, want: %+v", created.Image, wantImage)
	}
	if created.Data.ImageRef != "file-1" {
		t.Errorf("created.Data.ImageRef = %q, want: %q", created.Data.ImageRef, "file-1")
	}

	if _, err := os.Stat(uploadPath); !os.IsNotExist(err) {
		t.Errorf("temp upload %s still exists after create", uploadPath)
	}
}

func TestService_Create_FileStoreFails(t *testing.T) {
	t.Parallel()

	uploadPath := filepath.Join(t.TempDir(), "1_pic.png")
	if err := os.WriteFile(uploadPath, []byte("png"), 0o640); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	files := &store.StubFileStore{
		StoreFunc: func(_ context.Context, _ string, _ io.Reader, _, _ []string) (string, error) {
			return "", store.ErrUnavailable
		},
	}
	records := &store.StubRecordStore{
		CreateFunc: func(_ context.Context, _ string, _ store.Fields) (*store.Record, error) {
			t.Error("record store must not be called when the file store fails")
			return nil, nil
		},
	}

	svc := recipe.NewService(records, files, testStoreOptions())

	_, err := svc.Create(context.Background(), recipe.CreateRequest{
		Name:        "Soup",
		Ingredients: "Water",
		Directions:  "Boil",
	}, &recipe.UploadInput{Path: uploadPath, Name: "1_pic.png"})
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("svc.Create() error = %v, want: %v", err, store.ErrUnavailable)
	}

	if _, err := os.Stat(uploadPath); !os.IsNotExist(err) {
		t.Errorf("temp upload %s still exists after failed create", uploadPath)
	}
}

func TestService_Create_RecordStoreFails_RemovesStoredImage(t *testing.T) {
	t.Parallel()

	uploadPath := filepath.Join(t.TempDir(), "2_pic.png")
	if err := os.WriteFile(uploadPath, []byte("png"), 0o640); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	removed := ""
	files := &store.StubFileStore{
		StoreFunc: func(_ context.Context, _ string, _ io.Reader, _, _ []string) (string, error) {
			return "file-9", nil
		},
		RemoveFunc: func(_ context.Context, id string) error {
			removed = id
			return nil
		},
	}
	records := &store.StubRecordStore{
		CreateFunc: func(_ context.Context, _ string, _ store.Fields) (*store.Record, error) {
			return nil, store.ErrUnavailable
		},
	}

	svc := recipe.NewService(records, files, testStoreOptions())

	_, err := svc.Create(context.Background(), recipe.CreateRequest{
		Name:        "Soup",
		Ingredients: "Water",
		Directions:  "Boil",
	}, &recipe.UploadInput{Path: uploadPath, Name: "2_pic.png"})
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("svc.Create() error = %v, want: %v", err, store.ErrUnavailable)
	}

	if removed != "file-9" {
		t.Errorf("removed file id = %q, want: %q", removed, "file-9")
	}
}

func TestService_List(t *testing.T) {
	t.Parallel()

	var gotOpts store.ListOptions
	records := &store.StubRecordStore{
		ListFunc: func(_ context.Context, _ string, opts store.ListOptions) ([]store.Record, error) {
			gotOpts = opts
			return []store.Record{
				{ID: "3", Fields: store.Fields{"name": "Tinola", "createdAt": "2026-03-03T00:00:00.000000000Z"}},
				{ID: "2", Fields: store.Fields{"name": "Sinigang", "createdAt": "2026-02-02T00:00:00.000000000Z"}},
				{ID: "1", Fields: store.Fields{"name": "Adobo", "createdAt": "2026-01-01T00:00:00.000000000Z"}},
			}, nil
		},
	}

	svc := recipe.NewService(records, &store.StubFileStore{}, testStoreOptions())

	recipes, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("svc.List() error = %v", err)
	}

	wantOpts := store.ListOptions{SortField: store.SortByCreatedAt, Direction: store.Descending}
	if gotOpts != wantOpts {
		t.Errorf("list options = %+v, want: %+v", gotOpts, wantOpts)
	}

	wantIDs := []string{"3", "2", "1"}
	if len(recipes) != len(wantIDs) {
		t.Fatalf("len(recipes) = %d, want: %d", len(recipes), len(wantIDs))
	}
	for i, id := range wantIDs {
		if recipes[i].ID != id {
			t.Errorf("recipes[%d].ID = %q, want: %q", i, recipes[i].ID, id)
		}
	}
}

func TestService_Update_PartialFields(t *testing.T) {
	t.Parallel()

	name := "Bulalo"
	var gotFields store.Fields
	records := &store.StubRecordStore{
		UpdateFunc: func(_ context.Context, _, id string, fields store.Fields) (*store.Record, error) {
			if id != "rec-1" {
				t.Errorf("id = %q, want: %q", id, "rec-1")
			}
			gotFields = fields
			return &store.Record{ID: id, Fields: store.Fields{
				"name":        name,
				"ingredients": "Beef,Corn",
				"recipe":      "Simmer",
				"createdAt":   "2026-01-01T00:00:00.000000000Z",
			}}, nil
		},
	}

	svc := recipe.NewService(records, &store.StubFileStore{}, testStoreOptions())

	updated, err := svc.Update(context.Background(), "rec-1", recipe.UpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("svc.Update() error = %v", err)
	}

	wantFields := store.Fields{"name": name}
	if !reflect.DeepEqual(gotFields, wantFields) {
		t.Errorf("update fields = %+v, want: %+v", gotFields, wantFields)
	}

	want := recipe.Recipe{
		ID:          "rec-1",
		Name:        "Bulalo",
		Ingredients: "Beef,Corn",
		Directions:  "Simmer",
		CreatedAt:   "2026-01-01T00:00:00.000000000Z",
	}
	if !reflect.DeepEqual(*updated, want) {
		t.Errorf("updated = %+v, want: %+v", *updated, want)
	}
}

func TestService_Update_Idempotent(t *testing.T) {
	t.Parallel()

	stored := store.Fields{
		"name":        "Adobo",
		"ingredients": "Chicken,Soy,Vinegar",
		"recipe":      "Braise",
		"createdAt":   "2026-01-01T00:00:00.000000000Z",
	}
	records := &store.StubRecordStore{
		UpdateFunc: func(_ context.Context, _, id string, fields store.Fields) (*store.Record, error) {
			merged := store.Fields{}
			for key, val := range stored {
				merged[key] = val
			}
			for key, val := range fields {
				merged[key] = val
			}
			stored = merged
			return &store.Record{ID: id, Fields: merged}, nil
		},
	}

	svc := recipe.NewService(records, &store.StubFileStore{}, testStoreOptions())

	name := "Pork Adobo"
	params := recipe.UpdateRequest{Name: &name}
	first, err := svc.Update(context.Background(), "rec-1", params)
	if err != nil {
		t.Fatalf("first svc.Update() error = %v", err)
	}
	second, err := svc.Update(context.Background(), "rec-1", params)
	if err != nil {
		t.Fatalf("second svc.Update() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated update drifted: first = %+v, second = %+v", first, second)
	}
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"success", nil, nil},
		{"missing record", store.ErrNotFound, store.ErrNotFound},
		{"backend down", store.ErrUnavailable, store.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := &store.StubRecordStore{
				DeleteFunc: func(_ context.Context, collection, id string) error {
					if collection != testCollection || id != "rec-1" {
						t.Errorf("delete args = %q/%q, want: %q/%q", collection, id, testCollection, "rec-1")
					}
					return tt.err
				},
			}

			svc := recipe.NewService(records, &store.StubFileStore{}, testStoreOptions())

			err := svc.Delete(context.Background(), "rec-1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("svc.Delete() error = %v, want: %v", err, tt.wantErr)
			}
		})
	}
}
