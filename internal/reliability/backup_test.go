package reliability

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	testutil "github.com/aristath/tradejournal/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Upload(_ context.Context, key string, body io.Reader, _ int64) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ObjectInfo
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, ObjectInfo{Key: k, SizeBytes: int64(len(v))})
		}
	}
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newBackupService(t *testing.T, keep int, store ObjectStore) (*BackupService, string) {
	t.Helper()
	db, cleanup := testutil.NewTestDB(t)
	t.Cleanup(cleanup)

	userID := testutil.InsertUser(t, db.Conn(), "alice")
	testutil.InsertAccount(t, db.Conn(), userID, "Main", 1234.5)

	dir := filepath.Join(t.TempDir(), "backups")
	svc := NewBackupService(db, dir, keep, store, zerolog.Nop())

	clock := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, dir
}

func TestBackupService_SnapshotIsVerifiedAndReadable(t *testing.T) {
	svc, dir := newBackupService(t, 3, nil)

	var gotErr error
	var gotSize int64
	svc.OnResult(func(err error, size int64) { gotErr, gotSize = err, size })

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(result.Path))
	assert.Equal(t, "journal-backup-2024-03-11-090100.db", filepath.Base(result.Path))
	assert.True(t, strings.HasPrefix(result.Checksum, "sha256:"))
	assert.Positive(t, result.SizeBytes)
	assert.Empty(t, result.RemoteKey)

	assert.NoError(t, gotErr)
	assert.Equal(t, result.SizeBytes, gotSize)

	// The snapshot carries the data
	require.NoError(t, verifySnapshot(context.Background(), result.Path))
	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("SQLite format 3")))
}

func TestBackupService_RotatesLocalAndRemote(t *testing.T) {
	store := newMemoryStore()
	svc, dir := newBackupService(t, 2, store)

	// Unrelated files are left alone
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0644))

	var last *BackupResult
	for i := 0; i < 4; i++ {
		result, err := svc.Run(context.Background())
		require.NoError(t, err)
		last = result
	}

	names, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"journal-backup-2024-03-11-090400.db",
		"journal-backup-2024-03-11-090300.db",
	}, names)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.Equal(t, 1, last.Pruned)

	keys := store.keys()
	require.Len(t, keys, 2)
	assert.True(t, strings.HasPrefix(keys[0], "journal-backup-2024-03-11-090300-"))
	assert.Equal(t, last.RemoteKey, keys[1])
}

func TestBackupService_UploadFailure(t *testing.T) {
	store := newMemoryStore()
	store.uploadErr = errors.New("bucket gone")
	svc, _ := newBackupService(t, 2, store)

	var gotErr error
	svc.OnResult(func(err error, _ int64) { gotErr = err })

	result, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.uploadErr)
	assert.ErrorIs(t, gotErr, store.uploadErr)

	// The local snapshot is still kept
	require.NotNil(t, result)
	assert.FileExists(t, result.Path)
}

func TestBackupService_ListMissingDir(t *testing.T) {
	svc := NewBackupService(nil, filepath.Join(t.TempDir(), "none"), 0, nil, zerolog.Nop())
	names, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Equal(t, 1, svc.keep)
}
