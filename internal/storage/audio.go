// Package storage manages the shared directory of rendered audio artifacts.
// Every writer uses a globally-unique filename, so concurrent synthesis
// calls cannot collide; the cleanup sweep is the only deleter.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acme/voice-call-gateway/internal/config"
	"github.com/acme/voice-call-gateway/internal/domain"
	apperrors "github.com/acme/voice-call-gateway/pkg/errors"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

// AudioStore writes and sweeps audio artifacts under a single directory.
type AudioStore struct {
	dir        string
	publicPath string
	log        *logger.Logger
}

// NewAudioStore ensures the artifact directory exists.
func NewAudioStore(cfg config.AudioConfig, log *logger.Logger) (*AudioStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create audio dir: %v", apperrors.ErrStorage, err)
	}
	return &AudioStore{
		dir:        cfg.Dir,
		publicPath: strings.TrimSuffix(cfg.PublicPath, "/"),
		log:        log.Named("storage"),
	}, nil
}

// Dir returns the artifact directory path.
func (s *AudioStore) Dir() string {
	return s.dir
}

// Write stores the audio bytes under a fresh unique name and returns the
// artifact reference. Never overwrites an existing file.
func (s *AudioStore) Write(data []byte) (*domain.AudioArtifact, error) {
	now := time.Now()
	filename := fmt.Sprintf("speech_%d_%s.mp3", now.UnixNano(), uuid.NewString()[:8])
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write audio file: %v", apperrors.ErrStorage, err)
	}

	return &domain.AudioArtifact{
		Filename:  filename,
		URL:       s.publicPath + "/" + filename,
		Path:      path,
		CreatedAt: now,
	}, nil
}

// Cleanup deletes every artifact whose last-modified time is older than
// maxAge. Per-file failures are logged and skipped; a concurrent reader
// losing a file mid-request is expected and treated as a miss upstream.
func (s *AudioStore) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("%w: read audio dir: %v", apperrors.ErrStorage, err)
	}

	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.log.Warn("stat audio file failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.log.Warn("delete audio file failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		deleted++
	}

	s.log.Info("audio cleanup finished",
		zap.Int("deleted", deleted),
		zap.Duration("max_age", maxAge))
	return deleted, nil
}
