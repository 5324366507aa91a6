package media

import (
	"context"
	"fmt"

	"github.com/smallbiznis/mystore/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("media",
	fx.Provide(NewStorage),
	fx.Provide(NewUploader),
)

// NewStorage builds the configured object store.
func NewStorage(cfg config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return NewLocal(cfg.Storage.LocalDir, cfg.Storage.LocalURLPrefix), nil
	case "s3":
		if cfg.Storage.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
		return NewS3(context.Background(), S3Config{
			Region:        cfg.Storage.S3Region,
			Bucket:        cfg.Storage.S3Bucket,
			Prefix:        cfg.Storage.S3Prefix,
			PublicBaseURL: cfg.Storage.S3PublicURL,
			Endpoint:      cfg.Storage.S3Endpoint,

			AccessKeyID:     cfg.Storage.S3AccessKeyID,
			SecretAccessKey: cfg.Storage.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// NewUploader uses the remote endpoint when UPLOAD_API_URL is set and the
// local storage backend otherwise.
func NewUploader(cfg config.Config, store Storage, log *zap.Logger) Uploader {
	if cfg.Catalog.UploadURL != "" {
		log.Named("media").Info("using remote image upload endpoint", zap.String("endpoint", cfg.Catalog.UploadURL))
		return NewHTTPUploader(cfg.Catalog.UploadURL, cfg.Catalog.Timeout)
	}
	log.Named("media").Info("using storage backed image upload", zap.Stringer("storage", storeName{store}))
	return NewStorageUploader(store)
}

type storeName struct{ s Storage }

func (n storeName) String() string {
	if st, ok := n.s.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", n.s)
}
