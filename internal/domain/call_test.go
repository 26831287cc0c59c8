package domain

import (
	"strings"
	"testing"
	"time"
)

func TestProviderForCallID(t *testing.T) {
	cases := []struct {
		id   string
		want Provider
	}{
		{"CA1234567890abcdef", ProviderTwilio},
		{"sim_twilio_1700000000000_ab12cd34", ProviderTwilio},
		{"sim_1700000000000_ab12cd34", ProviderExotel},
		{"9f1c2a3b4d5e", ProviderExotel},
	}

	for _, tc := range cases {
		if got := ProviderForCallID(tc.id); got != tc.want {
			t.Errorf("ProviderForCallID(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestSimCallCreatedAt(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{NewSimTwilioCallID(created), NewSimCallID(created)} {
		got, ok := SimCallCreatedAt(id)
		if !ok {
			t.Fatalf("SimCallCreatedAt(%q) not parseable", id)
		}
		if !got.Equal(created) {
			t.Errorf("SimCallCreatedAt(%q) = %v, want %v", id, got, created)
		}
	}
}

func TestSimCallCreatedAtRejectsMalformed(t *testing.T) {
	for _, id := range []string{"CA123", "sim_", "sim_abc_def", "sim_twilio_", ""} {
		if _, ok := SimCallCreatedAt(id); ok {
			t.Errorf("SimCallCreatedAt(%q) unexpectedly parseable", id)
		}
	}
}

func TestSimCallIDShapes(t *testing.T) {
	now := time.Now()
	if id := NewSimTwilioCallID(now); !strings.HasPrefix(id, "sim_twilio_") {
		t.Errorf("unexpected twilio sim id %q", id)
	}
	twilioID := NewSimTwilioCallID(now)
	exotelID := NewSimCallID(now)
	if !IsSimCallID(twilioID) || !IsSimCallID(exotelID) {
		t.Errorf("sim ids not recognized: %q %q", twilioID, exotelID)
	}
	if IsSimCallID("CA123") {
		t.Error("real SID recognized as simulated")
	}
}
