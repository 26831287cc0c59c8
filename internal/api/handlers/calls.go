package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/acme/voice-call-gateway/internal/callflow"
	callsvc "github.com/acme/voice-call-gateway/internal/service/call"
)

type placeCallRequest struct {
	ToNumber string `json:"to_number"`
	AudioURL string `json:"audio_url"`
	CallerID string `json:"caller_id"`
}

func (h *HandlerSet) placeCall(ctx *fiber.Ctx) error {
	var req placeCallRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if req.ToNumber == "" {
		return fiber.NewError(http.StatusBadRequest, "to_number is required")
	}
	if req.AudioURL == "" {
		return fiber.NewError(http.StatusBadRequest, "audio_url is required")
	}

	result, err := h.calls.PlaceCall(ctx.Context(), callsvc.PlaceCallInput{
		ToNumber: req.ToNumber,
		AudioURL: req.AudioURL,
		CallerID: req.CallerID,
	})
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"success":    result.Success,
		"call_id":    result.CallID,
		"message":    result.Message,
		"provider":   result.Provider,
		"simulation": result.Simulation,
	})
}

func (h *HandlerSet) callStatus(ctx *fiber.Ctx) error {
	callID := ctx.Params("callId")

	status, err := h.calls.GetStatus(ctx.Context(), callID)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"success":     true,
		"call_status": status,
	})
}

// callFlowDocument serves the secondary provider's callback document.
func (h *HandlerSet) callFlowDocument(ctx *fiber.Ctx) error {
	audio := h.absoluteAudioURL(ctx, ctx.Query("audio"))

	ctx.Set(fiber.HeaderContentType, "application/xml")
	return ctx.Status(http.StatusOK).SendString(callflow.Exotel(audio))
}

// twimlDocument serves the primary provider's callback document.
func (h *HandlerSet) twimlDocument(ctx *fiber.Ctx) error {
	audio := h.absoluteAudioURL(ctx, ctx.Query("audio"))

	ctx.Set(fiber.HeaderContentType, "application/xml")
	return ctx.Status(http.StatusOK).SendString(callflow.TwiMLPlay(audio))
}

// absoluteAudioURL turns a relative artifact path into a URL the telephony
// provider can fetch.
func (h *HandlerSet) absoluteAudioURL(ctx *fiber.Ctx, audio string) string {
	if audio == "" || !strings.HasPrefix(audio, "/") {
		return audio
	}
	return ctx.BaseURL() + audio
}

type completeCallRequest struct {
	Text     string `json:"text"`
	VoiceID  string `json:"voice_id"`
	ToNumber string `json:"to_number"`
	CallerID string `json:"caller_id"`
}

// completeCall is the one-shot operation: synthesize speech, then place the
// call with both the literal text and the rendered artifact available to
// whichever provider ends up handling it.
func (h *HandlerSet) completeCall(ctx *fiber.Ctx) error {
	var req completeCallRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validateText(req.Text); err != nil {
		return err
	}
	if req.ToNumber == "" {
		return fiber.NewError(http.StatusBadRequest, "to_number is required")
	}

	artifact, err := h.tts.Synthesize(ctx.Context(), req.Text, req.VoiceID, nil)
	if err != nil {
		return translateError(err)
	}

	result, err := h.calls.PlaceCall(ctx.Context(), callsvc.PlaceCallInput{
		ToNumber: req.ToNumber,
		Text:     req.Text,
		AudioURL: artifact.URL,
		CallerID: req.CallerID,
	})
	if err != nil {
		return translateError(err)
	}

	status, err := h.calls.GetStatus(ctx.Context(), result.CallID)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"success":     true,
		"call_id":     result.CallID,
		"audio_url":   artifact.URL,
		"message":     result.Message,
		"provider":    result.Provider,
		"simulation":  result.Simulation,
		"call_status": status,
	})
}

func (h *HandlerSet) verifyAccount(ctx *fiber.Ctx) error {
	verified, message := h.calls.VerifyAccount(ctx.Context())

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"success":          true,
		"account_verified": verified,
		"message":          message,
	})
}

// statusWebhook receives fire-and-forget provider status callbacks. Always
// answers 200 so the provider does not retry.
func (h *HandlerSet) statusWebhook(ctx *fiber.Ctx) error {
	h.container.Logger.Info("provider status callback",
		zap.String("call_sid", ctx.FormValue("CallSid")),
		zap.String("status", ctx.FormValue("CallStatus")),
		zap.String("from", ctx.FormValue("From")),
		zap.String("to", ctx.FormValue("To")),
		zap.String("duration", ctx.FormValue("Duration")))

	return ctx.Status(http.StatusOK).SendString("OK")
}
