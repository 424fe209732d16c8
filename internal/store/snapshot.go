package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kapu/voicebot-go/internal/constants"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/util"
	"github.com/kapu/voicebot-go/pkg/errors"
	"go.uber.org/zap"
)

// Mirror is a secondary copy of the snapshot, typically Redis.
type Mirror interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Store loads and saves the configuration snapshot.
type Store interface {
	Load(ctx context.Context) *domain.Configuration
	Save(ctx context.Context, cfg *domain.Configuration) error
}

// FileStore keeps the configuration as a single JSON file.
type FileStore struct {
	path      string
	mirror    Mirror
	mirrorKey string
	breaker   *util.CircuitBreaker
	logger    *zap.Logger
}

type FileStoreOption func(*FileStore)

// WithMirror copies every saved snapshot to mirror under key, and restores
// from it when the file is missing or unreadable.
func WithMirror(mirror Mirror, key string) FileStoreOption {
	return func(s *FileStore) {
		s.mirror = mirror
		s.mirrorKey = key
	}
}

func NewFileStore(path string, logger *zap.Logger, opts ...FileStoreOption) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FileStore{path: path, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.mirror != nil {
		s.breaker = util.NewCircuitBreaker("snapshot-mirror",
			constants.RedisConfig.MirrorFailureThreshold, constants.RedisConfig.MirrorResetTimeout, logger)
	}
	return s
}

func (s *FileStore) Path() string {
	return s.path
}

// Load never fails: an absent or malformed file yields an empty configuration.
// A malformed file is preserved next to the original as <path>.corrupt first.
func (s *FileStore) Load(ctx context.Context) *domain.Configuration {
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		s.logger.Info("No configuration snapshot found, starting empty", zap.String("path", s.path))
		return s.fromMirrorOrEmpty(ctx)
	case err != nil:
		s.logger.Warn("Failed to read configuration snapshot, starting empty",
			zap.String("path", s.path),
			zap.Error(errors.NewStorageError("read failed", "load", s.path, err)),
		)
		return s.fromMirrorOrEmpty(ctx)
	}

	cfg, err := decode(data)
	if err != nil {
		s.preserveCorrupt(data)
		s.logger.Warn("Configuration snapshot is malformed, starting empty",
			zap.String("path", s.path),
			zap.Error(errors.NewStorageError("decode failed", "load", s.path, err)),
		)
		return s.fromMirrorOrEmpty(ctx)
	}

	s.logger.Info("Configuration snapshot loaded",
		zap.String("path", s.path),
		zap.Int("temporary_channels", len(cfg.TemporaryChannels)),
	)
	return cfg
}

// Save writes the full snapshot to a temporary file and renames it over the
// previous one.
func (s *FileStore) Save(ctx context.Context, cfg *domain.Configuration) error {
	if cfg == nil {
		return errors.NewStorageError("nil configuration", "save", s.path, nil)
	}
	snapshot := cfg.Clone()
	snapshot.Normalize()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.NewStorageError("encode failed", "save", s.path, err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return errors.NewStorageError("write failed", "save", s.path, err)
	}

	s.mirrorSnapshot(ctx, snapshot)
	return nil
}

// mirrorSnapshot copies snapshot to the mirror. Failures are logged only, and
// the mirror is skipped entirely while its circuit is open.
func (s *FileStore) mirrorSnapshot(ctx context.Context, snapshot *domain.Configuration) {
	if s.mirror == nil {
		return
	}
	if !s.breaker.CanExecute() {
		s.logger.Debug("Snapshot mirror circuit open, skipping", zap.String("key", s.mirrorKey))
		return
	}

	mirrorCtx, cancel := context.WithTimeout(ctx, constants.RedisConfig.OpTimeout)
	defer cancel()
	if err := s.mirror.Set(mirrorCtx, s.mirrorKey, snapshot, 0); err != nil {
		s.breaker.RecordFailure()
		s.logger.Warn("Failed to mirror configuration snapshot", zap.String("key", s.mirrorKey), zap.Error(err))
		return
	}
	s.breaker.RecordSuccess()
}

func (s *FileStore) fromMirrorOrEmpty(ctx context.Context) *domain.Configuration {
	if s.mirror == nil {
		return domain.NewConfiguration()
	}

	mirrorCtx, cancel := context.WithTimeout(ctx, constants.RedisConfig.OpTimeout)
	defer cancel()

	var cfg domain.Configuration
	found, err := s.mirror.Get(mirrorCtx, s.mirrorKey, &cfg)
	if err != nil {
		s.logger.Warn("Failed to read mirrored snapshot", zap.String("key", s.mirrorKey), zap.Error(err))
		return domain.NewConfiguration()
	}
	if !found {
		return domain.NewConfiguration()
	}

	cfg.Normalize()
	s.logger.Info("Configuration restored from mirror", zap.String("key", s.mirrorKey))
	return &cfg
}

func (s *FileStore) preserveCorrupt(data []byte) {
	backup := s.path + ".corrupt"
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		s.logger.Warn("Failed to preserve malformed snapshot", zap.String("path", backup), zap.Error(err))
	}
}

func decode(data []byte) (*domain.Configuration, error) {
	var cfg domain.Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temporary snapshot: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temporary snapshot: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temporary snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temporary snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming snapshot into place: %w", err)
	}
	return nil
}
