package media

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngAsset(name string) Asset {
	return Asset{Filename: name, ContentType: "image/png", Body: bytes.NewReader([]byte("\x89PNG fake"))}
}

func TestCheckImage(t *testing.T) {
	assert.NoError(t, CheckImage(pngAsset("a.png")))
	assert.ErrorIs(t, CheckImage(Asset{Filename: "a.txt", ContentType: "text/plain", Body: strings.NewReader("x")}), ErrNotImage)
	assert.ErrorIs(t, CheckImage(Asset{ContentType: "image/png"}), ErrEmptyAsset)
}

func TestLocalStorageUploader(t *testing.T) {
	dir := t.TempDir()
	uploader := NewStorageUploader(NewLocal(dir, "http://localhost:8080/uploads/"))

	url, err := uploader.Upload(context.Background(), pngAsset("Shirt.PNG"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))

	require.NoError(t, NewLocal(dir, "").Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDropsUnknownExtension(t *testing.T) {
	res, err := NewLocal(t.TempDir(), "/u").Put(context.Background(), strings.NewReader("x"), PutInput{Filename: "evil.sh"})
	require.NoError(t, err)
	assert.NotContains(t, res.Key, ".")
}

func TestStorageUploaderRejectsNonImage(t *testing.T) {
	uploader := NewStorageUploader(NewLocal(t.TempDir(), "/u"))
	_, err := uploader.Upload(context.Background(), Asset{Filename: "a.pdf", ContentType: "application/pdf", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestHTTPUploader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(file)
		assert.Equal(t, "shirt.png", header.Filename)
		assert.Equal(t, "\x89PNG fake", string(body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/shirt.png"})
	}))
	defer srv.Close()

	url, err := NewHTTPUploader(srv.URL+"/upload", time.Second).Upload(context.Background(), pngAsset("shirt.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/shirt.png", url)
}

func TestHTTPUploaderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPUploader(srv.URL, time.Second).Upload(context.Background(), pngAsset("shirt.png"))
	assert.ErrorIs(t, err, ErrUpload)
}

func TestHTTPUploaderMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewHTTPUploader(srv.URL, time.Second).Upload(context.Background(), pngAsset("shirt.png"))
	assert.ErrorIs(t, err, ErrUpload)
}
