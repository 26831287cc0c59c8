// Package twilio is the primary telephony adapter: it originates calls that
// speak literal text via inline TwiML, and runs a fully simulated state
// machine whenever credentials are missing or the provider misbehaves.
package twilio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acme/voice-call-gateway/internal/callflow"
	"github.com/acme/voice-call-gateway/internal/config"
	"github.com/acme/voice-call-gateway/internal/domain"
	apperrors "github.com/acme/voice-call-gateway/pkg/errors"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

// Simulated lifecycle thresholds, measured from the creation timestamp
// embedded in the call identifier.
const (
	simRingingAfter    = 2 * time.Second
	simInProgressAfter = 6 * time.Second
	simCompletedAfter  = 8 * time.Second
)

// Provider is the primary (text-driven) telephony adapter.
type Provider struct {
	cfg    config.TwilioConfig
	client *Client
	log    *logger.Logger
}

// NewProvider builds the adapter. Missing credentials are not an error;
// they switch every placement into simulation mode.
func NewProvider(cfg config.TwilioConfig, log *logger.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		client: NewClient(cfg),
		log:    log.Named("twilio"),
	}
}

// PlaceCallWithText originates a call that reads the given text to the
// callee. Placement never returns a hard failure: any real-path error falls
// back to a simulated call marked with Simulation true.
func (p *Provider) PlaceCallWithText(ctx context.Context, text, toNumber, callerID string) domain.CallResult {
	return p.place(ctx, callflow.TwiMLSay(text), toNumber, callerID)
}

// PlaceCall originates a call that plays a pre-rendered audio URL instead
// of speaking text. Relative artifact URLs are absolutized against the
// webhook base so the provider can fetch them.
func (p *Provider) PlaceCall(ctx context.Context, toNumber, audioURL, callerID string) domain.CallResult {
	return p.place(ctx, callflow.TwiMLPlay(p.absoluteAudioURL(audioURL)), toNumber, callerID)
}

func (p *Provider) place(ctx context.Context, twiml, toNumber, callerID string) domain.CallResult {
	if !p.cfg.Configured() {
		p.log.Info("credentials missing, simulating call", zap.String("to", toNumber))
		return p.simulate(toNumber)
	}

	from := p.cfg.FromNumber
	if callerID != "" {
		from = callerID
	}
	normalized := NormalizeNumber(toNumber)

	call, err := p.client.MakeCall(ctx, MakeCallParams{
		To:      normalized,
		From:    from,
		Twiml:   twiml,
		Timeout: int(p.cfg.RingTimeout.Seconds()),
		Record:  false,
	})
	if err != nil {
		p.log.Warn("real placement failed, falling back to simulation",
			zap.String("to", normalized),
			zap.Error(err))
		return p.simulate(toNumber)
	}

	p.log.Info("call placed",
		zap.String("call_sid", call.SID),
		zap.String("to", normalized),
		zap.String("status", call.Status))
	return domain.CallResult{
		Success:  true,
		CallID:   call.SID,
		Message:  fmt.Sprintf("Call placed to %s", normalized),
		Provider: domain.ProviderTwilio,
	}
}

func (p *Provider) absoluteAudioURL(audioURL string) string {
	if audioURL == "" || strings.HasPrefix(audioURL, "http://") || strings.HasPrefix(audioURL, "https://") {
		return audioURL
	}
	return strings.TrimSuffix(p.cfg.WebhookBaseURL, "/") + audioURL
}

func (p *Provider) simulate(toNumber string) domain.CallResult {
	callID := domain.NewSimTwilioCallID(time.Now())
	go p.narrate(callID, toNumber)

	return domain.CallResult{
		Success:    true,
		CallID:     callID,
		Message:    fmt.Sprintf("Simulated call placed to %s", toNumber),
		Provider:   domain.ProviderTwilio,
		Simulation: true,
	}
}

// narrate logs the four-stage simulated progression. Log-only: status
// queries derive state from the identifier, never from this goroutine.
func (p *Provider) narrate(callID, toNumber string) {
	stages := []struct {
		after time.Duration
		state domain.CallState
	}{
		{0, domain.CallStateQueued},
		{simRingingAfter, domain.CallStateRinging},
		{simInProgressAfter, domain.CallStateInProgress},
		{simCompletedAfter, domain.CallStateCompleted},
	}

	start := time.Now()
	for _, stage := range stages {
		time.Sleep(stage.after - time.Since(start))
		p.log.Info("simulated call progressed",
			zap.String("call_id", callID),
			zap.String("to", toNumber),
			zap.String("status", string(stage.state)))
	}
}

// GetStatus resolves the current status of a call this adapter owns.
func (p *Provider) GetStatus(ctx context.Context, callID string) (*domain.CallStatus, error) {
	if domain.IsSimCallID(callID) {
		created, ok := domain.SimCallCreatedAt(callID)
		if !ok {
			return nil, fmt.Errorf("%w: call %s", apperrors.ErrNotFound, callID)
		}
		return SimStatusAt(callID, created, time.Now()), nil
	}

	if !p.cfg.Configured() {
		return nil, fmt.Errorf("%w: call %s", apperrors.ErrNotFound, callID)
	}

	call, err := p.client.GetCall(ctx, callID)
	if err != nil {
		return nil, err
	}

	status := &domain.CallStatus{
		CallID:    call.SID,
		Status:    domain.CallState(call.Status),
		Direction: call.Direction,
	}
	if seconds, ok := call.DurationSeconds(); ok {
		status.Duration = &seconds
	}
	if start, err := time.Parse(time.RFC1123Z, call.StartTime); err == nil {
		status.StartTime = &start
	}
	if end, err := time.Parse(time.RFC1123Z, call.EndTime); err == nil {
		status.EndTime = &end
	}
	return status, nil
}

// SimStatusAt derives a simulated call's status purely from elapsed time.
// Duration is only set once the call has completed.
func SimStatusAt(callID string, created, now time.Time) *domain.CallStatus {
	elapsed := now.Sub(created)

	status := &domain.CallStatus{
		CallID:     callID,
		Direction:  "outbound-api",
		Simulation: true,
	}

	switch {
	case elapsed < simRingingAfter:
		status.Status = domain.CallStateQueued
	case elapsed < simInProgressAfter:
		status.Status = domain.CallStateRinging
	case elapsed < simCompletedAfter:
		status.Status = domain.CallStateInProgress
	default:
		status.Status = domain.CallStateCompleted
		duration := int(elapsed.Seconds())
		status.Duration = &duration
	}
	return status
}
