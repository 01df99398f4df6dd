// Package reliability provides database snapshots, verification and off-site upload.
package reliability

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aristath/tradejournal/internal/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	snapshotPrefix  = "journal-backup-"
	snapshotSuffix  = ".db"
	timestampLayout = "2006-01-02-150405"
)

// ObjectInfo describes a stored backup object
type ObjectInfo struct {
	Key       string
	SizeBytes int64
}

// ObjectStore is remote storage for backup snapshots
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// BackupResult describes a completed backup
type BackupResult struct {
	Path      string        `json:"path"`
	SizeBytes int64         `json:"size_bytes"`
	Checksum  string        `json:"checksum"`
	RemoteKey string        `json:"remote_key,omitempty"`
	Pruned    int           `json:"pruned"`
	Duration  time.Duration `json:"duration"`
}

// BackupService snapshots the journal database
type BackupService struct {
	db       *database.DB
	dir      string
	keep     int
	store    ObjectStore
	onResult func(err error, sizeBytes int64)
	now      func() time.Time
	log      zerolog.Logger
}

// NewBackupService creates a backup service writing snapshots to dir and
// keeping the newest keep of them. store may be nil to disable upload.
func NewBackupService(db *database.DB, dir string, keep int, store ObjectStore, log zerolog.Logger) *BackupService {
	if keep <= 0 {
		keep = 1
	}
	return &BackupService{
		db:    db,
		dir:   dir,
		keep:  keep,
		store: store,
		now:   time.Now,
		log:   log.With().Str("service", "backup").Logger(),
	}
}

// OnResult registers a callback invoked after every run
func (s *BackupService) OnResult(fn func(err error, sizeBytes int64)) {
	s.onResult = fn
}

// Run creates a verified snapshot, rotates old ones and uploads the new one
func (s *BackupService) Run(ctx context.Context) (*BackupResult, error) {
	result, err := s.run(ctx)
	if s.onResult != nil {
		var size int64
		if result != nil {
			size = result.SizeBytes
		}
		s.onResult(err, size)
	}
	return result, err
}

func (s *BackupService) run(ctx context.Context) (*BackupResult, error) {
	s.log.Info().Msg("Starting backup")
	startTime := time.Now()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := s.now().UTC().Format(timestampLayout)
	path := filepath.Join(s.dir, snapshotPrefix+timestamp+snapshotSuffix)
	if err := s.db.VacuumInto(ctx, path); err != nil {
		return nil, fmt.Errorf("failed to snapshot database: %w", err)
	}

	if err := verifySnapshot(ctx, path); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	checksum, err := calculateChecksum(path)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum: %w", err)
	}

	result := &BackupResult{
		Path:      path,
		SizeBytes: info.Size(),
		Checksum:  checksum,
	}

	pruned, err := s.rotateLocal()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to rotate local snapshots")
	}
	result.Pruned = pruned

	if s.store != nil {
		key := fmt.Sprintf("%s%s-%s%s", snapshotPrefix, timestamp, uuid.NewString()[:8], snapshotSuffix)
		if err := s.upload(ctx, key, path, info.Size()); err != nil {
			return result, fmt.Errorf("failed to upload snapshot: %w", err)
		}
		result.RemoteKey = key

		if err := s.rotateRemote(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Failed to rotate remote snapshots")
		}
	}

	result.Duration = time.Since(startTime)
	s.log.Info().
		Dur("duration_ms", result.Duration).
		Str("path", path).
		Int64("size_bytes", result.SizeBytes).
		Str("remote_key", result.RemoteKey).
		Msg("Backup completed")

	return result, nil
}

// List returns local snapshots, newest first
func (s *BackupService) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !isSnapshotName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	// Timestamped names sort chronologically
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (s *BackupService) rotateLocal() (int, error) {
	names, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(names) <= s.keep {
		return 0, nil
	}

	deleted := 0
	for _, name := range names[s.keep:] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.log.Error().Err(err).Str("filename", name).Msg("Failed to delete old snapshot")
			continue
		}
		s.log.Debug().Str("filename", name).Msg("Deleted old snapshot")
		deleted++
	}
	return deleted, nil
}

func (s *BackupService) upload(ctx context.Context, key, path string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.store.Upload(ctx, key, f, size)
}

func (s *BackupService) rotateRemote(ctx context.Context) error {
	objects, err := s.store.List(ctx, snapshotPrefix)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		if isSnapshotName(o.Key) {
			keys = append(keys, o.Key)
		}
	}
	if len(keys) <= s.keep {
		return nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	for _, key := range keys[s.keep:] {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("Failed to delete remote snapshot")
			continue
		}
		s.log.Info().Str("key", key).Msg("Deleted remote snapshot")
	}
	return nil
}

// verifySnapshot opens a snapshot and runs an integrity check on it
func verifySnapshot(ctx context.Context, path string) error {
	snap, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer snap.Close()

	var result string
	if err := snap.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("snapshot integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("snapshot integrity check failed: %s", result)
	}
	return nil
}

func isSnapshotName(name string) bool {
	return strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, snapshotSuffix)
}

// calculateChecksum calculates SHA256 checksum of a file
func calculateChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}
