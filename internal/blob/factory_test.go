package blob

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	appcfg "github.com/fdg312/fitbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobStoreMissingRequiredReturnsError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	store, err := NewBlobStore(context.Background(), appcfg.S3Config{
		Endpoint: "https://storage.example",
	}, log)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, buf.String(), "s3_config_incomplete")
}

func TestNewS3StoreRequiresFields(t *testing.T) {
	_, err := NewS3Store(context.Background(), appcfg.S3Config{Bucket: "bucket", AccessKeyID: "key", SecretAccessKey: "secret"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_ENDPOINT")
}

// bucketServer is a minimal path-style S3 endpoint for one bucket.
type bucketServer struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *bucketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/fitbot/")
	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[key] = data
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := b.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3StoreAgainstBucket(t *testing.T) {
	srv := httptest.NewServer(&bucketServer{objects: map[string][]byte{}})
	defer srv.Close()

	store, err := NewBlobStore(context.Background(), appcfg.S3Config{
		Endpoint:        srv.URL,
		Bucket:          "fitbot",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.GetObject(ctx, "slots/meals.json")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := store.PutObject(ctx, "slots/meals.json", []byte(`[]`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	data, err := store.GetObject(ctx, "slots/meals.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}
