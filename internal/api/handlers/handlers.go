package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/acme/voice-call-gateway/internal/app"
	callsvc "github.com/acme/voice-call-gateway/internal/service/call"
	"github.com/acme/voice-call-gateway/internal/tts"
)

// HandlerSet bundles all HTTP handlers.
type HandlerSet struct {
	container *app.Container
	tts       *tts.Service
	calls     *callsvc.Service
}

// NewHandlerSet creates a new handler bundle.
func NewHandlerSet(container *app.Container) *HandlerSet {
	services := container.Services()
	return &HandlerSet{
		container: container,
		tts:       services.TTS,
		calls:     services.Call,
	}
}

// Register wires all routes onto the fiber app.
func (h *HandlerSet) Register(app *fiber.App) {
	app.Get("/health", h.health)
	app.Get("/healthz", h.health)

	api := app.Group("/api")

	voice := api.Group("/voice")
	voice.Get("/voices", h.listVoices)
	voice.Post("/generate", h.generateSpeech)
	voice.Post("/test", h.testSpeech)
	voice.Get("/cleanup", h.cleanupAudio)

	call := api.Group("/call")
	call.Post("/place", h.placeCall)
	call.Get("/status/:callId", h.callStatus)
	call.Get("/flow", h.callFlowDocument)
	call.Get("/twiml", h.twimlDocument)
	call.Post("/complete", h.completeCall)
	call.Get("/verify", h.verifyAccount)
	call.Post("/webhook/status", h.statusWebhook)
}

// ErrorHandler provides centralized error responses.
func (h *HandlerSet) ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	if fiberErr, ok := err.(*fiber.Error); ok {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusInternalServerError {
		h.container.Logger.Error("request failed",
			zap.String("path", ctx.Path()),
			zap.Error(err))
	}

	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func (h *HandlerSet) health(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "ok",
		"message":   "voice call gateway is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
