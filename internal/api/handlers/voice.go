package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/acme/voice-call-gateway/internal/domain"
)

type generateSpeechRequest struct {
	Text          string                `json:"text"`
	VoiceID       string                `json:"voice_id"`
	VoiceSettings *domain.VoiceSettings `json:"voice_settings"`
}

func (h *HandlerSet) listVoices(ctx *fiber.Ctx) error {
	voices := h.tts.ListVoices(ctx.Context())

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"voices":  voices,
		"count":   len(voices),
	})
}

func (h *HandlerSet) generateSpeech(ctx *fiber.Ctx) error {
	var req generateSpeechRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.validateText(req.Text); err != nil {
		return err
	}

	artifact, err := h.tts.Synthesize(ctx.Context(), req.Text, req.VoiceID, req.VoiceSettings)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"success":   true,
		"audio_url": artifact.URL,
		"filename":  artifact.Filename,
	})
}

type testSpeechRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
}

func (h *HandlerSet) testSpeech(ctx *fiber.Ctx) error {
	var req testSpeechRequest
	// Body is optional for the smoke test.
	_ = ctx.BodyParser(&req)

	if req.Text == "" {
		req.Text = "This is a test of the speech synthesis service."
	}
	if req.VoiceID == "" {
		req.VoiceID = "mock-voice-1"
	}

	artifact, err := h.tts.Synthesize(ctx.Context(), req.Text, req.VoiceID, nil)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"test":    true,
		"result": fiber.Map{
			"audio_url": artifact.URL,
			"filename":  artifact.Filename,
		},
		"request": fiber.Map{
			"text":     req.Text,
			"voice_id": req.VoiceID,
		},
	})
}

func (h *HandlerSet) cleanupAudio(ctx *fiber.Ctx) error {
	hours := ctx.QueryInt("hours", h.container.Config.Audio.CleanupMaxHours)
	if hours < 0 {
		return fiber.NewError(http.StatusBadRequest, "hours must not be negative")
	}

	deleted, err := h.tts.Cleanup(time.Duration(hours) * time.Hour)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("deleted %d audio file(s) older than %d hour(s)", deleted, hours),
	})
}

func (h *HandlerSet) validateText(text string) error {
	if text == "" {
		return fiber.NewError(http.StatusBadRequest, "text is required")
	}
	if max := h.container.Config.Audio.MaxTextLength; len(text) > max {
		return fiber.NewError(http.StatusBadRequest, fmt.Sprintf("text exceeds %d characters", max))
	}
	return nil
}
