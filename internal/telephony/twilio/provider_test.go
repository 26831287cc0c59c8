package twilio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/acme/voice-call-gateway/internal/config"
	"github.com/acme/voice-call-gateway/internal/domain"
	apperrors "github.com/acme/voice-call-gateway/pkg/errors"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

func newTestProvider(t *testing.T, cfg config.TwilioConfig) *Provider {
	t.Helper()

	lg, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewProvider(cfg, lg)
}

func TestPlaceCallWithTextSimulatesWithoutCredentials(t *testing.T) {
	p := newTestProvider(t, config.TwilioConfig{})

	result := p.PlaceCallWithText(context.Background(), "Hello World", "9876543210", "")

	if !result.Success {
		t.Fatal("expected success in simulation mode")
	}
	if !result.Simulation {
		t.Error("expected simulation flag")
	}
	if !strings.HasPrefix(result.CallID, "sim_twilio_") {
		t.Errorf("unexpected call id %q", result.CallID)
	}
	if result.Provider != domain.ProviderTwilio {
		t.Errorf("provider = %q, want twilio", result.Provider)
	}
}

func TestPlaceCallWithTextSimulatesOnProviderError(t *testing.T) {
	p := newTestProvider(t, config.TwilioConfig{
		AccountSID: "AC00000000000000000000000000000000",
		AuthToken:  "token",
		FromNumber: "+15550100000",
		BaseURL:    "http://127.0.0.1:1",
	})

	result := p.PlaceCallWithText(context.Background(), "Hello", "9876543210", "")

	if !result.Success || !result.Simulation {
		t.Fatalf("expected simulated success after provider error, got %+v", result)
	}
}

func TestSimStatusProgression(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	callID := domain.NewSimTwilioCallID(created)

	cases := []struct {
		elapsed      time.Duration
		want         domain.CallState
		wantDuration bool
	}{
		{0, domain.CallStateQueued, false},
		{1900 * time.Millisecond, domain.CallStateQueued, false},
		{2 * time.Second, domain.CallStateRinging, false},
		{5 * time.Second, domain.CallStateRinging, false},
		{6 * time.Second, domain.CallStateInProgress, false},
		{7900 * time.Millisecond, domain.CallStateInProgress, false},
		{8 * time.Second, domain.CallStateCompleted, true},
		{30 * time.Second, domain.CallStateCompleted, true},
	}

	for _, tc := range cases {
		status := SimStatusAt(callID, created, created.Add(tc.elapsed))
		if status.Status != tc.want {
			t.Errorf("elapsed %v: status = %q, want %q", tc.elapsed, status.Status, tc.want)
		}
		if tc.wantDuration != (status.Duration != nil) {
			t.Errorf("elapsed %v: duration set = %v, want %v", tc.elapsed, status.Duration != nil, tc.wantDuration)
		}
		if !status.Simulation {
			t.Errorf("elapsed %v: missing simulation flag", tc.elapsed)
		}
	}
}

func TestSimStatusMonotonic(t *testing.T) {
	order := map[domain.CallState]int{
		domain.CallStateQueued:     0,
		domain.CallStateRinging:    1,
		domain.CallStateInProgress: 2,
		domain.CallStateCompleted:  3,
	}

	created := time.Now()
	callID := domain.NewSimTwilioCallID(created)
	prev := -1
	for elapsed := time.Duration(0); elapsed <= 12*time.Second; elapsed += 250 * time.Millisecond {
		status := SimStatusAt(callID, created, created.Add(elapsed))
		rank, ok := order[status.Status]
		if !ok {
			t.Fatalf("unexpected state %q at %v", status.Status, elapsed)
		}
		if rank < prev {
			t.Fatalf("status regressed at %v: %q", elapsed, status.Status)
		}
		prev = rank
	}
	if prev != order[domain.CallStateCompleted] {
		t.Fatal("progression never reached completed")
	}
}

func TestGetStatusSimulated(t *testing.T) {
	p := newTestProvider(t, config.TwilioConfig{})
	callID := domain.NewSimTwilioCallID(time.Now())

	status, err := p.GetStatus(context.Background(), callID)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Status != domain.CallStateQueued {
		t.Errorf("fresh simulated call status = %q, want queued", status.Status)
	}
}

func TestGetStatusUnknownID(t *testing.T) {
	p := newTestProvider(t, config.TwilioConfig{})

	for _, id := range []string{"sim_twilio_notanumber_x", "CA123"} {
		if _, err := p.GetStatus(context.Background(), id); !apperrors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("GetStatus(%q) error = %v, want not found", id, err)
		}
	}
}

func TestNormalizeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"98765 43210", "+919876543210"},
		{"09876543210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"+15550100000", "+15550100000"},
		{"12345", "+9112345"},
	}

	for _, tc := range cases {
		if got := NormalizeNumber(tc.in); got != tc.want {
			t.Errorf("NormalizeNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeNumberIdempotent(t *testing.T) {
	for _, n := range []string{"9876543210", "09876543210", "+447911123456"} {
		once := NormalizeNumber(n)
		if twice := NormalizeNumber(once); twice != once {
			t.Errorf("NormalizeNumber not idempotent: %q -> %q -> %q", n, once, twice)
		}
	}
}
