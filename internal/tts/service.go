// Package tts adapts the ElevenLabs speech synthesis API. Its failure mode
// is always to degrade to a placeholder artifact: provider problems never
// surface as errors to callers, only storage problems do.
package tts

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acme/voice-call-gateway/internal/config"
	"github.com/acme/voice-call-gateway/internal/domain"
	"github.com/acme/voice-call-gateway/internal/storage"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

// Service is the speech synthesis adapter.
type Service struct {
	cfg    config.TTSConfig
	client *Client
	store  *storage.AudioStore
	log    *logger.Logger
}

// NewService builds the synthesis adapter.
func NewService(cfg config.TTSConfig, store *storage.AudioStore, log *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: NewClient(cfg),
		store:  store,
		log:    log.Named("tts"),
	}
}

// Configured reports whether a provider credential is present.
func (s *Service) Configured() bool {
	return s.cfg.APIKey != ""
}

// DefaultSettings returns the config-driven voice settings.
func (s *Service) DefaultSettings() domain.VoiceSettings {
	return domain.VoiceSettings{
		Stability:       s.cfg.Stability,
		SimilarityBoost: s.cfg.SimilarityBoost,
	}
}

// Synthesize renders text to an audio artifact. Provider failures of any
// kind fall back to the deterministic stub; the only hard error is a failed
// artifact write.
func (s *Service) Synthesize(ctx context.Context, text, voiceID string, settings *domain.VoiceSettings) (*domain.AudioArtifact, error) {
	effective := s.DefaultSettings()
	if settings != nil {
		effective = *settings
	}

	if s.Configured() && !strings.HasPrefix(voiceID, "mock-") {
		audio, err := s.client.Synthesize(ctx, text, voiceID, effective)
		if err == nil {
			s.log.Info("synthesized speech",
				zap.String("voice_id", voiceID),
				zap.Int("bytes", len(audio)))
			return s.store.Write(audio)
		}
		s.log.Warn("provider synthesis failed, writing stub artifact",
			zap.String("voice_id", voiceID),
			zap.Error(err))
	} else {
		s.log.Info("synthesis running in stub mode", zap.String("voice_id", voiceID))
	}

	return s.store.Write(stubAudio())
}

// ListVoices returns the provider catalog, degrading to the built-in mock
// catalog on any failure.
func (s *Service) ListVoices(ctx context.Context) []domain.Voice {
	if !s.Configured() {
		return domain.MockVoices()
	}

	voices, err := s.client.Voices(ctx)
	if err != nil || len(voices) == 0 {
		s.log.Warn("voice catalog lookup failed, serving mock catalog", zap.Error(err))
		return domain.MockVoices()
	}
	return voices
}

// Cleanup sweeps artifacts older than the threshold.
func (s *Service) Cleanup(maxAge time.Duration) (int, error) {
	return s.store.Cleanup(maxAge)
}
