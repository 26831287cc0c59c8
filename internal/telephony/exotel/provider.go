// Package exotel is the secondary telephony adapter: it originates calls
// that play a pre-rendered audio URL through a callback-fetched call-flow
// document, with a simulated state machine when unconfigured.
package exotel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acme/voice-call-gateway/internal/config"
	"github.com/acme/voice-call-gateway/internal/domain"
	apperrors "github.com/acme/voice-call-gateway/pkg/errors"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

const defaultCountryCode = "+91"

// Simulated lifecycle thresholds, measured from the creation timestamp
// embedded in the call identifier.
const (
	simRingingAfter    = 1 * time.Second
	simAnsweredAfter   = 3 * time.Second
	simInProgressAfter = 5 * time.Second
	simCompletedAfter  = 15 * time.Second
)

// Provider is the secondary (audio-driven) telephony adapter.
type Provider struct {
	cfg    config.ExotelConfig
	client *Client
	log    *logger.Logger
}

// NewProvider builds the adapter. Missing credentials switch every
// placement into simulation mode.
func NewProvider(cfg config.ExotelConfig, log *logger.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		client: NewClient(cfg),
		log:    log.Named("exotel"),
	}
}

// FormatNumber strips formatting characters and prefixes the default
// country code onto bare domestic numbers. Idempotent for numbers already
// in international format.
func FormatNumber(number string) string {
	trimmed := strings.TrimSpace(number)
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 10 {
		return defaultCountryCode + d
	}
	return "+" + d
}

// validNumber checks the 10-15 digit range, ignoring formatting characters.
func validNumber(number string) bool {
	count := 0
	for _, r := range number {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count >= 10 && count <= 15
}

// PlaceCall dials out and plays the rendered audio URL. Placement never
// returns a hard failure: validation problems and provider errors both
// degrade to a simulated call.
func (p *Provider) PlaceCall(ctx context.Context, toNumber, audioURL, callerID string) domain.CallResult {
	if !p.cfg.Configured() {
		p.log.Info("credentials missing, simulating call", zap.String("to", toNumber))
		return p.simulate(toNumber)
	}

	if !validNumber(toNumber) {
		p.log.Warn("destination number outside 10-15 digit range, simulating call",
			zap.String("to", toNumber))
		return p.simulate(toNumber)
	}

	caller := p.cfg.VirtualNumber
	if callerID != "" {
		caller = callerID
	}
	flowURL := fmt.Sprintf("%s/api/call/flow?audio=%s",
		strings.TrimSuffix(p.cfg.WebhookBaseURL, "/"),
		url.QueryEscape(audioURL))

	call, err := p.client.ConnectCall(ctx, ConnectCallParams{
		From:     FormatNumber(toNumber),
		CallerID: caller,
		FlowURL:  flowURL,
	})
	if err != nil {
		p.log.Warn("real placement failed, falling back to simulation",
			zap.String("to", toNumber),
			zap.Error(err))
		return p.simulate(toNumber)
	}

	p.log.Info("call placed",
		zap.String("call_sid", call.Sid),
		zap.String("to", call.To),
		zap.String("status", call.Status))
	return domain.CallResult{
		Success:  true,
		CallID:   call.Sid,
		Message:  fmt.Sprintf("Call placed to %s", FormatNumber(toNumber)),
		Provider: domain.ProviderExotel,
	}
}

func (p *Provider) simulate(toNumber string) domain.CallResult {
	callID := domain.NewSimCallID(time.Now())
	go p.narrate(callID, toNumber)

	return domain.CallResult{
		Success:    true,
		CallID:     callID,
		Message:    fmt.Sprintf("Simulated call placed to %s", toNumber),
		Provider:   domain.ProviderExotel,
		Simulation: true,
	}
}

// narrate logs the simulated progression at +1s, +3s, +5s and +15s.
// Log-only: status queries derive state from the identifier alone.
func (p *Provider) narrate(callID, toNumber string) {
	stages := []struct {
		after time.Duration
		state domain.CallState
	}{
		{simRingingAfter, domain.CallStateRinging},
		{simAnsweredAfter, domain.CallStateAnswered},
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
		CallID:    call.Sid,
		Status:    domain.CallState(strings.ToLower(call.Status)),
		Direction: call.Direction,
	}
	if call.Duration != "" {
		var seconds int
		if _, err := fmt.Sscanf(call.Duration, "%d", &seconds); err == nil {
			status.Duration = &seconds
		}
	}
	return status, nil
}

// VerifyAccount performs a lightweight authenticated read against the
// provider. Failures report simulation mode rather than raising.
func (p *Provider) VerifyAccount(ctx context.Context) (bool, string) {
	if !p.cfg.Configured() {
		return false, "Exotel credentials not configured, running in simulation mode"
	}

	if err := p.client.VerifyAccount(ctx); err != nil {
		p.log.Warn("account verification failed", zap.Error(err))
		return false, "Exotel account verification failed, running in simulation mode"
	}
	return true, "Exotel account verified"
}

// SimStatusAt derives a simulated call's status purely from elapsed time.
// Once completed, duration and the start/end timestamps are pinned to the
// fixed +5s answer and +15s hangup offsets.
func SimStatusAt(callID string, created, now time.Time) *domain.CallStatus {
	elapsed := now.Sub(created)

	status := &domain.CallStatus{
		CallID:     callID,
		Direction:  "outbound",
		Simulation: true,
	}

	switch {
	case elapsed < simRingingAfter:
		status.Status = domain.CallStateInitiated
	case elapsed < simAnsweredAfter:
		status.Status = domain.CallStateRinging
	case elapsed < simInProgressAfter:
		status.Status = domain.CallStateAnswered
	case elapsed < simCompletedAfter:
		status.Status = domain.CallStateInProgress
		start := created.Add(simInProgressAfter)
		status.StartTime = &start
	default:
		status.Status = domain.CallStateCompleted
		duration := int((elapsed - simInProgressAfter).Seconds())
		status.Duration = &duration
		start := created.Add(simInProgressAfter)
		end := created.Add(simCompletedAfter)
		status.StartTime = &start
		status.EndTime = &end
	}
	return status
}
