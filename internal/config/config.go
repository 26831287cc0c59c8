package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the full configuration surface for the application.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Audio     AudioConfig     `mapstructure:"audio"`
	TTS       TTSConfig       `mapstructure:"tts"`
	Twilio    TwilioConfig    `mapstructure:"twilio"`
	Exotel    ExotelConfig    `mapstructure:"exotel"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	FrontendOrigin string        `mapstructure:"frontend_origin"`
}

// AudioConfig describes the shared audio artifact store.
type AudioConfig struct {
	Dir             string `mapstructure:"dir"`
	PublicPath      string `mapstructure:"public_path"`
	CleanupMaxHours int    `mapstructure:"cleanup_max_hours"`
	MaxTextLength   int    `mapstructure:"max_text_length"`
}

// TTSConfig holds the ElevenLabs integration settings. An empty APIKey puts
// the synthesis adapter into stub mode.
type TTSConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	ModelID         string        `mapstructure:"model_id"`
	Stability       float64       `mapstructure:"stability"`
	SimilarityBoost float64       `mapstructure:"similarity_boost"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// TwilioConfig holds the primary telephony provider settings. Missing
// credentials put the adapter into simulation mode.
type TwilioConfig struct {
	AccountSID     string        `mapstructure:"account_sid"`
	AuthToken      string        `mapstructure:"auth_token"`
	FromNumber     string        `mapstructure:"from_number"`
	WebhookBaseURL string        `mapstructure:"webhook_base_url"`
	BaseURL        string        `mapstructure:"base_url"`
	RingTimeout    time.Duration `mapstructure:"ring_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Configured reports whether real call placement is possible.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// ExotelConfig holds the secondary telephony provider settings. All three
// credential fields must be present for real placement.
type ExotelConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	APIToken       string        `mapstructure:"api_token"`
	AccountSID     string        `mapstructure:"account_sid"`
	BaseURL        string        `mapstructure:"base_url"`
	VirtualNumber  string        `mapstructure:"virtual_number"`
	WebhookBaseURL string        `mapstructure:"webhook_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Configured reports whether real call placement is possible.
func (c ExotelConfig) Configured() bool {
	return c.APIKey != "" && c.APIToken != "" && c.AccountSID != ""
}

type TelemetryConfig struct {
	Endpoint       string  `mapstructure:"endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
}

// Load reads configuration from an optional file plus environment variables.
// Credentials normally arrive through the environment; their absence toggles
// simulation mode rather than failing startup.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("VOICEGW")
	v.SetEnvKeyReplacer(NewEnvReplacer())

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: stat config file: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "voice-call-gateway")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "0.1.0")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", time.Minute)
	v.SetDefault("http.frontend_origin", "*")

	v.SetDefault("audio.dir", "audio")
	v.SetDefault("audio.public_path", "/audio")
	v.SetDefault("audio.cleanup_max_hours", 24)
	v.SetDefault("audio.max_text_length", 5000)

	// Credential keys need explicit defaults so env-only overrides are
	// visible to Unmarshal.
	v.SetDefault("tts.api_key", "")
	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("twilio.from_number", "")
	v.SetDefault("twilio.webhook_base_url", "")
	v.SetDefault("exotel.api_key", "")
	v.SetDefault("exotel.api_token", "")
	v.SetDefault("exotel.account_sid", "")
	v.SetDefault("exotel.virtual_number", "")
	v.SetDefault("exotel.webhook_base_url", "")

	v.SetDefault("tts.base_url", "https://api.elevenlabs.io/v1")
	v.SetDefault("tts.model_id", "eleven_monolingual_v1")
	v.SetDefault("tts.stability", 0.5)
	v.SetDefault("tts.similarity_boost", 0.75)
	v.SetDefault("tts.request_timeout", 30*time.Second)

	v.SetDefault("twilio.base_url", "https://api.twilio.com/2010-04-01")
	v.SetDefault("twilio.ring_timeout", 30*time.Second)
	v.SetDefault("twilio.request_timeout", 30*time.Second)

	v.SetDefault("exotel.base_url", "https://api.exotel.com/v1/Accounts")
	v.SetDefault("exotel.request_timeout", 30*time.Second)

	v.SetDefault("telemetry.service_name", "voice-call-gateway")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.tracing_enabled", false)
}

// NewEnvReplacer standardizes environment variable names.
func NewEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}
