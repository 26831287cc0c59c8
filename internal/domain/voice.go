package domain

// Voice describes a selectable synthesis voice, sourced from the TTS
// provider or from the built-in mock catalog.
type Voice struct {
	ID          string `json:"voice_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// VoiceSettings tunes provider-side synthesis behaviour.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// MockVoices is the fixed catalog served whenever the TTS provider is
// unconfigured or unreachable.
func MockVoices() []Voice {
	return []Voice{
		{ID: "mock-voice-1", Name: "Aria", Category: "premade", Description: "Calm female voice"},
		{ID: "mock-voice-2", Name: "Ravi", Category: "premade", Description: "Warm male voice"},
		{ID: "mock-voice-3", Name: "Nova", Category: "premade", Description: "Bright narration voice"},
		{ID: "mock-voice-4", Name: "Kabir", Category: "premade", Description: "Deep announcement voice"},
	}
}
