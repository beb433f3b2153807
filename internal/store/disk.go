package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var _ FileStore = &DiskFileStore{}

// DiskFileStore keeps uploaded binaries in a local directory, one file
// per id. It backs deployments that run the Postgres record store and
// have no GridFS bucket. Permission lists are accepted for contract
// compatibility; a local directory has nothing to forward them to.
type DiskFileStore struct {
	dir string
}

func NewDiskFileStore(dir string) (*DiskFileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create file store dir %s: %w", dir, err)
	}
	return &DiskFileStore{dir: dir}, nil
}

func (s *DiskFileStore) Store(ctx context.Context, name string, src io.Reader, _, _ []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// The original extension is kept so stored files stay sniffable.
	id := uuid.NewString() + strings.ToLower(filepath.Ext(name))
	path := filepath.Join(s.dir, id)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrUnavailable, path, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: write %s: %v", ErrInvalid, path, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: close %s: %v", ErrUnavailable, path, err)
	}
	return id, nil
}

func (s *DiskFileStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := checkFileID(id); err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.dir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no file with id %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: open file %s: %v", ErrUnavailable, id, err)
	}
	return file, nil
}

func (s *DiskFileStore) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := checkFileID(id); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: no file with id %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: remove file %s: %v", ErrUnavailable, id, err)
	}
	return nil
}

// checkFileID rejects ids that could escape the store directory.
func checkFileID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: invalid file id %q", ErrInvalid, id)
	}
	return nil
}
