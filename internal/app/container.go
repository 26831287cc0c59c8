package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/acme/voice-call-gateway/internal/config"
	callsvc "github.com/acme/voice-call-gateway/internal/service/call"
	"github.com/acme/voice-call-gateway/internal/storage"
	"github.com/acme/voice-call-gateway/internal/telemetry"
	"github.com/acme/voice-call-gateway/internal/telephony"
	"github.com/acme/voice-call-gateway/internal/telephony/exotel"
	"github.com/acme/voice-call-gateway/internal/telephony/twilio"
	"github.com/acme/voice-call-gateway/internal/tts"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

// Container wires together shared infrastructure dependencies.
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	AudioStore *storage.AudioStore

	telemetryShutdown func(context.Context) error

	// lazily initialised components
	components struct {
		once      sync.Once
		services  *services
		providers *providers
	}
}

type services struct {
	TTS  *tts.Service
	Call *callsvc.Service
}

type providers struct {
	Primary   telephony.Primary
	Secondary telephony.Secondary
}

// Build constructs a container for the given configuration path.
func Build(ctx context.Context, configPath string) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	lg, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewAudioStore(cfg.Audio, lg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap audio store: %w", err)
	}

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Version)
	if err != nil {
		return nil, fmt.Errorf("bootstrap telemetry: %w", err)
	}

	return &Container{
		Config:            cfg,
		Logger:            lg,
		AudioStore:        store,
		telemetryShutdown: shutdown,
	}, nil
}

func (c *Container) initComponents() {
	c.components.once.Do(func() {
		provs := &providers{
			Primary:   twilio.NewProvider(c.Config.Twilio, c.Logger),
			Secondary: exotel.NewProvider(c.Config.Exotel, c.Logger),
		}

		svcs := &services{
			TTS:  tts.NewService(c.Config.TTS, c.AudioStore, c.Logger),
			Call: callsvc.NewService(provs.Primary, provs.Secondary, c.Logger),
		}

		c.components.providers = provs
		c.components.services = svcs
	})
}

// Services exposes initialized services.
func (c *Container) Services() *services {
	c.initComponents()
	return c.components.services
}

// Providers exposes the telephony adapters.
func (c *Container) Providers() *providers {
	c.initComponents()
	return c.components.providers
}

// Close releases all held resources.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.telemetryShutdown != nil {
		if err := c.telemetryShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
