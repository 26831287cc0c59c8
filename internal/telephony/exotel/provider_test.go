package exotel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/acme/voice-call-gateway/internal/config"
	"github.com/acme/voice-call-gateway/internal/domain"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

func newTestProvider(t *testing.T, cfg config.ExotelConfig) *Provider {
	t.Helper()

	lg, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewProvider(cfg, lg)
}

func TestPlaceCallSimulatesWithoutCredentials(t *testing.T) {
	p := newTestProvider(t, config.ExotelConfig{})

	result := p.PlaceCall(context.Background(), "9876543210", "/audio/x.mp3", "")

	if !result.Success || !result.Simulation {
		t.Fatalf("expected simulated success, got %+v", result)
	}
	if !strings.HasPrefix(result.CallID, "sim_") || strings.HasPrefix(result.CallID, "sim_twilio_") {
		t.Errorf("unexpected call id %q", result.CallID)
	}
	if result.Provider != domain.ProviderExotel {
		t.Errorf("provider = %q, want exotel", result.Provider)
	}
}

func TestPlaceCallDegradesOnInvalidNumber(t *testing.T) {
	p := newTestProvider(t, config.ExotelConfig{
		APIKey:     "key",
		APIToken:   "token",
		AccountSID: "acme",
		BaseURL:    "http://127.0.0.1:1/v1/Accounts",
	})

	// 5 digits is outside the 10-15 range; the adapter degrades instead of
	// returning a validation failure.
	result := p.PlaceCall(context.Background(), "12345", "/audio/x.mp3", "")

	if !result.Success || !result.Simulation {
		t.Fatalf("expected simulated success for malformed number, got %+v", result)
	}
}

func TestPlaceCallSimulatesOnProviderError(t *testing.T) {
	p := newTestProvider(t, config.ExotelConfig{
		APIKey:     "key",
		APIToken:   "token",
		AccountSID: "acme",
		BaseURL:    "http://127.0.0.1:1/v1/Accounts",
	})

	result := p.PlaceCall(context.Background(), "9876543210", "/audio/x.mp3", "")

	if !result.Success || !result.Simulation {
		t.Fatalf("expected simulated success after provider error, got %+v", result)
	}
}

func TestSimStatusProgression(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	callID := domain.NewSimCallID(created)

	cases := []struct {
		elapsed time.Duration
		want    domain.CallState
	}{
		{0, domain.CallStateInitiated},
		{1 * time.Second, domain.CallStateRinging},
		{3 * time.Second, domain.CallStateAnswered},
		{5 * time.Second, domain.CallStateInProgress},
		{14 * time.Second, domain.CallStateInProgress},
		{15 * time.Second, domain.CallStateCompleted},
		{60 * time.Second, domain.CallStateCompleted},
	}

	for _, tc := range cases {
		status := SimStatusAt(callID, created, created.Add(tc.elapsed))
		if status.Status != tc.want {
			t.Errorf("elapsed %v: status = %q, want %q", tc.elapsed, status.Status, tc.want)
		}
	}
}

func TestSimStatusCompletedTimestamps(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	callID := domain.NewSimCallID(created)

	status := SimStatusAt(callID, created, created.Add(20*time.Second))

	if status.Duration == nil || *status.Duration != 15 {
		t.Fatalf("duration = %v, want 15 (elapsed minus answer offset)", status.Duration)
	}
	if status.StartTime == nil || !status.StartTime.Equal(created.Add(5*time.Second)) {
		t.Errorf("start time = %v, want creation+5s", status.StartTime)
	}
	if status.EndTime == nil || !status.EndTime.Equal(created.Add(15*time.Second)) {
		t.Errorf("end time = %v, want creation+15s", status.EndTime)
	}
}

func TestVerifyAccountUnconfigured(t *testing.T) {
	p := newTestProvider(t, config.ExotelConfig{})

	valid, message := p.VerifyAccount(context.Background())
	if valid {
		t.Error("expected invalid account without credentials")
	}
	if !strings.Contains(message, "simulation mode") {
		t.Errorf("message %q should mention simulation mode", message)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"98765-43210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"+15550100000", "+15550100000"},
	}

	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	for _, n := range []string{"9876543210", "+919876543210"} {
		once := FormatNumber(n)
		if twice := FormatNumber(once); twice != once {
			t.Errorf("FormatNumber not idempotent: %q -> %q -> %q", n, once, twice)
		}
	}
}
