package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/acme/voice-call-gateway/internal/config"
	"github.com/acme/voice-call-gateway/internal/domain"
	apperrors "github.com/acme/voice-call-gateway/pkg/errors"
)

// Client is a minimal ElevenLabs API client.
type Client struct {
	apiKey     string
	baseURL    string
	modelID    string
	httpClient *http.Client
}

// NewClient builds an ElevenLabs client from config.
func NewClient(cfg config.TTSConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		modelID: cfg.ModelID,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

type synthesizeRequest struct {
	Text          string               `json:"text"`
	ModelID       string               `json:"model_id"`
	VoiceSettings domain.VoiceSettings `json:"voice_settings"`
}

// Synthesize renders text through the provider and returns the MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string, settings domain.VoiceSettings) ([]byte, error) {
	payload, err := json.Marshal(synthesizeRequest{
		Text:          text,
		ModelID:       c.modelID,
		VoiceSettings: settings,
	})
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: synthesize request: %v", apperrors.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: synthesize status %d: %s", apperrors.ErrProvider, resp.StatusCode, body)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio body: %v", apperrors.ErrProvider, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio body", apperrors.ErrProvider)
	}
	return audio, nil
}

type voicesResponse struct {
	Voices []struct {
		VoiceID     string `json:"voice_id"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
		PreviewURL  string `json:"preview_url"`
	} `json:"voices"`
}

// Voices fetches the provider voice catalog.
func (c *Client) Voices(ctx context.Context) ([]domain.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: voices request: %v", apperrors.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: voices status %d", apperrors.ErrProvider, resp.StatusCode)
	}

	var decoded voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode voices: %v", apperrors.ErrProvider, err)
	}

	voices := make([]domain.Voice, 0, len(decoded.Voices))
	for _, v := range decoded.Voices {
		voices = append(voices, domain.Voice{
			ID:          v.VoiceID,
			Name:        v.Name,
			Category:    v.Category,
			Description: v.Description,
			PreviewURL:  v.PreviewURL,
		})
	}
	return voices, nil
}
