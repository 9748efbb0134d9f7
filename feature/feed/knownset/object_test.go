package knownset_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"feed-sync/core/storage/mocks"
	"feed-sync/feature/feed/knownset"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBucket = "feeds"
	testObject = "state/known_skus.json"
)

func TestObjectStore_Load(t *testing.T) {
	t.Run("Present", func(t *testing.T) {
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		body := io.NopCloser(bytes.NewReader([]byte(`{
			"skus": {
				"TB-100": {"seen": true, "discontinued": false, "last_price": "12.5"},
				"TB-300": {"seen": true, "discontinued": true}
			},
			"updated": "2026-08-01T00:00:00Z"
		}`)))
		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).Return(body, nil)

		set, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.Equal(t, 1, set.ActiveCount())
		require.NotNil(t, set.Entries["TB-100"].LastPrice)
		assert.Equal(t, "12.5", set.Entries["TB-100"].LastPrice.String())
		client.AssertExpectations(t)
	})

	t.Run("MissingObjectIsEmptySet", func(t *testing.T) {
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

		set, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("MissingBucketIsEmptySet", func(t *testing.T) {
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchBucket"})

		set, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("TransportErrorIsUnavailable", func(t *testing.T) {
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
			Return(nil, errors.New("connection refused"))

		set, err := store.Load(context.Background())
		assert.Nil(t, set)
		assert.ErrorIs(t, err, knownset.ErrUnavailable)
	})

	t.Run("LazyMissingOnRead", func(t *testing.T) {
		// MinIO reports NoSuchKey on the first Read, not on GetObject.
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
			Return(io.NopCloser(&failingReader{err: minio.ErrorResponse{Code: "NoSuchKey"}}), nil)

		set, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("CorruptObject", func(t *testing.T) {
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("{not json"))), nil)

		set, err := store.Load(context.Background())
		assert.Nil(t, set)
		assert.ErrorIs(t, err, knownset.ErrCorrupt)
	})
}

func TestObjectStore_Save(t *testing.T) {
	t.Run("UploadsDocument", func(t *testing.T) {
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
		client.On("PutObject", mock.Anything, testBucket, testObject, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)

		require.NoError(t, store.Save(context.Background(), sampleSet()))
		client.AssertExpectations(t)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CreatesBucketWhenAbsent", func(t *testing.T) {
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		client.On("BucketExists", mock.Anything, testBucket).Return(false, nil)
		client.On("MakeBucket", mock.Anything, testBucket, mock.Anything).Return(nil)
		client.On("PutObject", mock.Anything, testBucket, testObject, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)

		require.NoError(t, store.Save(context.Background(), sampleSet()))
		client.AssertExpectations(t)
	})

	t.Run("UploadFailureIsUnavailable", func(t *testing.T) {
		client := new(mocks.Client)
		store := knownset.NewObjectStore(client, testBucket, testObject)

		client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
		client.On("PutObject", mock.Anything, testBucket, testObject, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("upload failed"))

		err := store.Save(context.Background(), sampleSet())
		assert.ErrorIs(t, err, knownset.ErrUnavailable)
	})
}

type failingReader struct {
	err error
}

func (r *failingReader) Read(p []byte) (int, error) {
	return 0, r.err
}
