package reliability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>journal</Name>
  <Prefix>journal-backup-</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>journal-backup-2024-03-11-090100-aaaa.db</Key><Size>4096</Size></Contents>
  <Contents><Key>journal-backup-2024-03-12-090100-bbbb.db</Key><Size>8192</Size></Contents>
</ListBucketResult>`

func TestS3Store_ListAndDelete(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "journal-backup-", r.URL.Query().Get("prefix"))
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(listResponse))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	store, err := NewS3Store(context.Background(), S3Config{
		Bucket:          "journal",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	}, zerolog.Nop())
	require.NoError(t, err)

	objects, err := store.List(context.Background(), "journal-backup-")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "journal-backup-2024-03-11-090100-aaaa.db", objects[0].Key)
	assert.Equal(t, int64(8192), objects[1].SizeBytes)

	require.NoError(t, store.Delete(context.Background(), "journal-backup-2024-03-11-090100-aaaa.db"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, requests, 2)
	assert.True(t, strings.HasPrefix(requests[0], "GET /journal"))
	assert.True(t, strings.HasPrefix(requests[1], "DELETE /journal/journal-backup-"))
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"}, zerolog.Nop())
	assert.Error(t, err)
}
