// Package call holds the placement orchestrator: it tries the primary
// text-driven provider, falls back to the secondary audio-driven provider,
// and routes status lookups by call identifier shape alone, so the service
// stays stateless across restarts.
package call

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/acme/voice-call-gateway/internal/domain"
	"github.com/acme/voice-call-gateway/internal/telephony"
	apperrors "github.com/acme/voice-call-gateway/pkg/errors"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

// Service coordinates call placement across the telephony adapters.
type Service struct {
	primary   telephony.Primary
	secondary telephony.Secondary
	log       *logger.Logger
}

// NewService builds the orchestrator.
func NewService(primary telephony.Primary, secondary telephony.Secondary, log *logger.Logger) *Service {
	return &Service{
		primary:   primary,
		secondary: secondary,
		log:       log.Named("orchestrator"),
	}
}

// PlaceCallInput encapsulates the arguments for placing a call. Either Text
// or AudioURL must be present.
type PlaceCallInput struct {
	ToNumber string
	Text     string
	AudioURL string
	CallerID string
}

// PlaceCall attempts the primary adapter first and falls back to the
// secondary on a reported failure. The first adapter to report success
// wins; a double failure surfaces as one aggregated result.
func (s *Service) PlaceCall(ctx context.Context, input PlaceCallInput) (domain.CallResult, error) {
	if input.ToNumber == "" {
		return domain.CallResult{}, fmt.Errorf("%w: destination number is required", apperrors.ErrValidation)
	}
	if input.Text == "" && input.AudioURL == "" {
		return domain.CallResult{}, fmt.Errorf("%w: either text or audio_url is required", apperrors.ErrValidation)
	}

	var primaryResult domain.CallResult
	if input.Text != "" {
		primaryResult = s.primary.PlaceCallWithText(ctx, input.Text, input.ToNumber, input.CallerID)
	} else {
		primaryResult = s.primary.PlaceCall(ctx, input.ToNumber, input.AudioURL, input.CallerID)
	}
	if primaryResult.Success {
		s.log.Info("placement succeeded",
			zap.String("provider", string(primaryResult.Provider)),
			zap.String("call_id", primaryResult.CallID),
			zap.Bool("simulation", primaryResult.Simulation))
		return primaryResult, nil
	}

	s.log.Warn("primary placement failed, trying secondary",
		zap.String("to", input.ToNumber),
		zap.String("error", primaryResult.Error))

	secondaryResult := s.secondary.PlaceCall(ctx, input.ToNumber, input.AudioURL, input.CallerID)
	if secondaryResult.Success {
		s.log.Info("placement succeeded via fallback",
			zap.String("provider", string(secondaryResult.Provider)),
			zap.String("call_id", secondaryResult.CallID),
			zap.Bool("simulation", secondaryResult.Simulation))
		return secondaryResult, nil
	}

	return domain.CallResult{
		Success: false,
		Message: "call placement failed on both providers",
		Error:   fmt.Sprintf("primary: %s; secondary: %s", primaryResult.Error, secondaryResult.Error),
	}, fmt.Errorf("%w: all telephony providers failed", apperrors.ErrUnavailable)
}

// GetStatus routes a status lookup to whichever adapter owns the call
// identifier, attributed purely from the identifier shape.
func (s *Service) GetStatus(ctx context.Context, callID string) (*domain.CallStatus, error) {
	if callID == "" {
		return nil, fmt.Errorf("%w: call id is required", apperrors.ErrValidation)
	}

	switch domain.ProviderForCallID(callID) {
	case domain.ProviderTwilio:
		return s.primary.GetStatus(ctx, callID)
	default:
		return s.secondary.GetStatus(ctx, callID)
	}
}

// VerifyAccount checks the secondary provider's credentials.
func (s *Service) VerifyAccount(ctx context.Context) (bool, string) {
	return s.secondary.VerifyAccount(ctx)
}
