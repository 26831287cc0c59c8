package tts

// stubAudio returns a deterministic placeholder MP3: a short run of silent
// MPEG-1 Layer III frames (44.1 kHz, 128 kbps). Served whenever the real
// provider is unavailable so the call flow still has something to play.
func stubAudio() []byte {
	const frameSize = 417
	frame := make([]byte, frameSize)
	frame[0] = 0xFF
	frame[1] = 0xFB
	frame[2] = 0x90
	frame[3] = 0x64

	out := make([]byte, 0, frameSize*8)
	for i := 0; i < 8; i++ {
		out = append(out, frame...)
	}
	return out
}
