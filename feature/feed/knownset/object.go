package knownset

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"feed-sync/core/storage"
	"feed-sync/feature/feed/models"

	"github.com/minio/minio-go/v7"
)

// ObjectStore persists the known set as a single JSON object in an S3/MinIO
// bucket. A missing object or bucket is the empty set, so a fresh deployment
// needs no bootstrap step.
type ObjectStore struct {
	client storage.Client
	bucket string
	object string
}

// NewObjectStore creates an object-backed store.
func NewObjectStore(client storage.Client, bucket, object string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, object: object}
}

// Load fetches and decodes the object.
func (s *ObjectStore) Load(ctx context.Context) (*models.KnownSet, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		if isMissing(err) {
			return models.NewKnownSet(), nil
		}
		return nil, fmt.Errorf("%w: fetching %s/%s: %v", ErrUnavailable, s.bucket, s.object, err)
	}
	defer obj.Close()

	// MinIO surfaces most object errors lazily, on first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isMissing(err) {
			return models.NewKnownSet(), nil
		}
		return nil, fmt.Errorf("%w: reading %s/%s: %v", ErrUnavailable, s.bucket, s.object, err)
	}

	return decodeDocument(data)
}

// Save encodes the set and uploads it in a single PutObject call, which is
// atomic on the object-store side: readers see either the old document or
// the new one, never a partial write.
func (s *ObjectStore) Save(ctx context.Context, set *models.KnownSet) error {
	data, err := encodeDocument(set)
	if err != nil {
		return err
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%w: checking bucket %s: %v", ErrUnavailable, s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: creating bucket %s: %v", ErrUnavailable, s.bucket, err)
		}
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("%w: uploading %s/%s: %v", ErrUnavailable, s.bucket, s.object, err)
	}
	return nil
}

func isMissing(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
