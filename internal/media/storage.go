package media

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

type PutInput struct {
	Filename    string
	ContentType string
}

type PutResult struct {
	Key string
	URL string
}

// Storage is an object store for uploaded product images.
type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

// StorageUploader uploads straight into a Storage backend.
type StorageUploader struct {
	store Storage
}

func NewStorageUploader(store Storage) *StorageUploader {
	return &StorageUploader{store: store}
}

func (u *StorageUploader) Upload(ctx context.Context, asset Asset) (string, error) {
	if err := CheckImage(asset); err != nil {
		return "", err
	}
	res, err := u.store.Put(ctx, asset.Body, PutInput{
		Filename:    asset.Filename,
		ContentType: asset.ContentType,
	})
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif", ".avif":
		return ext
	default:
		return ""
	}
}
