package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPUploader posts assets to a remote image hosting endpoint that
// answers {"url": "..."}.
type HTTPUploader struct {
	client   *resty.Client
	endpoint string
}

type uploadResponse struct {
	URL  string `json:"url"`
	Data *struct {
		URL string `json:"url"`
	} `json:"data,omitempty"`
}

func NewHTTPUploader(endpoint string, timeout time.Duration) *HTTPUploader {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPUploader{client: client, endpoint: endpoint}
}

func (u *HTTPUploader) Upload(ctx context.Context, asset Asset) (string, error) {
	if err := CheckImage(asset); err != nil {
		return "", err
	}

	var out uploadResponse
	resp, err := u.client.R().
		SetContext(ctx).
		SetMultipartField("file", asset.Filename, asset.ContentType, asset.Body).
		SetResult(&out).
		Post(u.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode())
	}

	url := strings.TrimSpace(out.URL)
	if url == "" && out.Data != nil {
		url = strings.TrimSpace(out.Data.URL)
	}
	if url == "" {
		return "", fmt.Errorf("%w: response carried no url", ErrUpload)
	}
	return url, nil
}
