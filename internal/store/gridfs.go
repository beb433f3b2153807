package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ FileStore = &GridFSFileStore{}

// GridFSFileStore keeps uploaded binaries in a GridFS bucket next to the
// record collections. The ObjectID hex of an uploaded file is its file id.
// Permission lists are recorded verbatim as file metadata.
type GridFSFileStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSFileStore(db *mongo.Database, bucketName string) (*GridFSFileStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("new gridfs bucket %s: %w", bucketName, err)
	}
	return &GridFSFileStore{bucket: bucket}, nil
}

func (s *GridFSFileStore) Store(ctx context.Context, name string, src io.Reader, read, write []string) (string, error) {
	if dl, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(dl); err != nil {
			return "", fmt.Errorf("%w: set upload deadline: %v", ErrUnavailable, err)
		}
	}

	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{"read": read, "write": write})
	objID, err := s.bucket.UploadFromStream(name, src, uploadOpts)
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", ErrUnavailable, name, err)
	}
	return objID.Hex(), nil
}

func (s *GridFSFileStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: no file with id %s", ErrNotFound, id)
	}

	if dl, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(dl); err != nil {
			return nil, fmt.Errorf("%w: set download deadline: %v", ErrUnavailable, err)
		}
	}

	stream, err := s.bucket.OpenDownloadStream(objID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: no file with id %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: open download stream %s: %v", ErrUnavailable, id, err)
	}
	return stream, nil
}

func (s *GridFSFileStore) Remove(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: no file with id %s", ErrNotFound, id)
	}

	if dl, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(dl); err != nil {
			return fmt.Errorf("%w: set delete deadline: %v", ErrUnavailable, err)
		}
	}

	if err := s.bucket.Delete(objID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("%w: no file with id %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: delete file %s: %v", ErrUnavailable, id, err)
	}
	return nil
}
