package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provider identifies which telephony integration owns a call.
type Provider string

const (
	ProviderTwilio Provider = "twilio"
	ProviderExotel Provider = "exotel"
)

// CallState enumerates lifecycle stages for an outbound call.
type CallState string

const (
	CallStateQueued     CallState = "queued"
	CallStateInitiated  CallState = "initiated"
	CallStateRinging    CallState = "ringing"
	CallStateAnswered   CallState = "answered"
	CallStateInProgress CallState = "in-progress"
	CallStateCompleted  CallState = "completed"
	CallStateFailed     CallState = "failed"
	CallStateBusy       CallState = "busy"
	CallStateNoAnswer   CallState = "no-answer"
	CallStateCanceled   CallState = "canceled"
)

// CallResult is the normalized outcome of a placement attempt. Immutable
// once produced.
type CallResult struct {
	Success    bool     `json:"success"`
	CallID     string   `json:"call_id,omitempty"`
	Message    string   `json:"message"`
	Provider   Provider `json:"provider,omitempty"`
	Simulation bool     `json:"simulation,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// CallStatus is recomputed on every status query. For simulated calls it is
// derived entirely from the timestamp embedded in the call identifier.
type CallStatus struct {
	CallID     string     `json:"call_id"`
	Status     CallState  `json:"status"`
	Duration   *int       `json:"duration,omitempty"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Direction  string     `json:"direction,omitempty"`
	Simulation bool       `json:"simulation,omitempty"`
}

// AudioArtifact references a rendered audio file on shared storage. Written
// once by the synthesis adapter, read many times via its URL.
type AudioArtifact struct {
	Filename  string    `json:"filename"`
	URL       string    `json:"audio_url"`
	Path      string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// Simulated call identifier prefixes. The identifier is the only persisted
// state for a simulated call: it embeds the creation timestamp in unix
// milliseconds, so status lookups stay stateless across restarts.
const (
	simTwilioPrefix = "sim_twilio_"
	simPrefix       = "sim_"
)

// NewSimTwilioCallID mints a simulated identifier for the primary provider.
func NewSimTwilioCallID(now time.Time) string {
	return fmt.Sprintf("%s%d_%s", simTwilioPrefix, now.UnixMilli(), uuid.NewString()[:8])
}

// NewSimCallID mints a simulated identifier for the secondary provider.
func NewSimCallID(now time.Time) string {
	return fmt.Sprintf("%s%d_%s", simPrefix, now.UnixMilli(), uuid.NewString()[:8])
}

// IsSimCallID reports whether the identifier belongs to a simulated call.
func IsSimCallID(id string) bool {
	return strings.HasPrefix(id, simPrefix)
}

// ProviderForCallID routes a call identifier to its owning adapter. Twilio
// call SIDs start with "CA"; simulated Twilio ids carry the sim_twilio_
// prefix. Everything else belongs to the secondary provider, whose adapter
// rejects shapes it does not recognize.
func ProviderForCallID(id string) Provider {
	if strings.HasPrefix(id, "CA") || strings.HasPrefix(id, simTwilioPrefix) {
		return ProviderTwilio
	}
	return ProviderExotel
}

// SimCallCreatedAt extracts the creation timestamp embedded in a simulated
// call identifier. The second return is false when the identifier does not
// carry a parseable timestamp.
func SimCallCreatedAt(id string) (time.Time, bool) {
	rest := ""
	switch {
	case strings.HasPrefix(id, simTwilioPrefix):
		rest = strings.TrimPrefix(id, simTwilioPrefix)
	case strings.HasPrefix(id, simPrefix):
		rest = strings.TrimPrefix(id, simPrefix)
	default:
		return time.Time{}, false
	}

	ts, _, found := strings.Cut(rest, "_")
	if !found {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
