package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL("https://cdn.example.com/", "b", "us-east-1"))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicBaseURL("", "b", "eu-west-1"))
}

func TestImageStore_PutAgainstS3CompatibleEndpoint(t *testing.T) {
	var (
		mu          sync.Mutex
		gotPath     string
		gotType     string
		gotBody     []byte
		gotAuthHead string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAuthHead = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := New(context.Background(), Config{
		Bucket:    "images",
		Region:    "us-east-1",
		AccessKey: "minio",
		SecretKey: "minio123",
		Endpoint:  srv.URL,
		PublicURL: "https://cdn.example.com",
	})
	require.NoError(t, err)

	payload := []byte("\x89PNG fake")
	url, err := store.Put(context.Background(), "247localfinest/a.png", bytes.NewReader(payload), int64(len(payload)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/247localfinest/a.png", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/images/247localfinest/a.png", gotPath, "path-style addressing")
	assert.Equal(t, "image/png", gotType)
	assert.Contains(t, gotAuthHead, "minio/")
	assert.Contains(t, string(gotBody), "PNG fake")
}
