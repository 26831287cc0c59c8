package telephony

import (
	"context"

	"github.com/acme/voice-call-gateway/internal/domain"
)

// Primary abstracts the text-driven telephony provider. It can speak
// literal text through the provider's own synthesis or play a pre-rendered
// audio URL.
type Primary interface {
	PlaceCallWithText(ctx context.Context, text, toNumber, callerID string) domain.CallResult
	PlaceCall(ctx context.Context, toNumber, audioURL, callerID string) domain.CallResult
	GetStatus(ctx context.Context, callID string) (*domain.CallStatus, error)
}

// Secondary abstracts the audio-driven fallback provider, which plays a
// pre-rendered audio URL via a callback-fetched call-flow document.
type Secondary interface {
	PlaceCall(ctx context.Context, toNumber, audioURL, callerID string) domain.CallResult
	GetStatus(ctx context.Context, callID string) (*domain.CallStatus, error)
	VerifyAccount(ctx context.Context) (bool, string)
}
