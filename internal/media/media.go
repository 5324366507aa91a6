package media

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrNotImage   = errors.New("not_an_image")
	ErrEmptyAsset = errors.New("empty_asset")
	ErrUpload     = errors.New("upload_failed")
)

// Asset is a single binary file picked by the user.
type Asset struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Uploader stores an asset and returns its durable public URL.
type Uploader interface {
	Upload(ctx context.Context, asset Asset) (string, error)
}

// CheckImage accepts only image/* assets.
func CheckImage(asset Asset) error {
	if asset.Body == nil || strings.TrimSpace(asset.Filename) == "" {
		return ErrEmptyAsset
	}
	if !strings.HasPrefix(strings.ToLower(asset.ContentType), "image/") {
		return ErrNotImage
	}
	return nil
}
