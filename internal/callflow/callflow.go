// Package callflow renders the XML documents the telephony providers fetch
// to learn what to say or play on an answered call. Both variants share the
// same structure: greet, pause, play-or-say, farewell.
package callflow

import (
	"fmt"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

// Sanitize strips characters unsafe for the call-flow markup from
// user-supplied text and collapses runs of whitespace to single spaces.
func Sanitize(text string) string {
	replacer := strings.NewReplacer("<", "", ">", "", "&", "")
	cleaned := replacer.Replace(text)
	return strings.Join(strings.Fields(cleaned), " ")
}

// escapeURL makes an audio URL safe to embed as XML character data.
func escapeURL(u string) string {
	u = strings.ReplaceAll(u, "&", "&amp;")
	u = strings.ReplaceAll(u, "<", "")
	return strings.ReplaceAll(u, ">", "")
}

// TwiMLPlay renders the primary provider document that plays a pre-rendered
// audio URL. An empty URL yields a spoken diagnostic instead of silence.
func TwiMLPlay(audioURL string) string {
	if audioURL == "" {
		return fmt.Sprintf("%s\n<Response><Say>We are sorry, the audio for this call could not be found. Goodbye.</Say></Response>", xmlHeader)
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("\n<Response>")
	b.WriteString("<Say>Hello! You have a new voice message.</Say>")
	b.WriteString(`<Pause length="1"/>`)
	b.WriteString("<Play>" + escapeURL(audioURL) + "</Play>")
	b.WriteString("<Say>This message was delivered by the voice call gateway. Goodbye.</Say>")
	b.WriteString("</Response>")
	return b.String()
}

// TwiMLSay renders the inline primary provider document that speaks literal
// text through the provider's own synthesis.
func TwiMLSay(text string) string {
	cleaned := Sanitize(text)
	if cleaned == "" {
		return fmt.Sprintf("%s\n<Response><Say>We are sorry, there was no message to read. Goodbye.</Say></Response>", xmlHeader)
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("\n<Response>")
	b.WriteString("<Say>Hello! You have a new voice message.</Say>")
	b.WriteString(`<Pause length="1"/>`)
	b.WriteString("<Say>" + cleaned + "</Say>")
	b.WriteString("<Say>This message was delivered by the voice call gateway. Goodbye.</Say>")
	b.WriteString("</Response>")
	return b.String()
}

// Exotel renders the secondary provider document. Same structural contract
// as TwiML, different tag vocabulary.
func Exotel(audioURL string) string {
	if audioURL == "" {
		return fmt.Sprintf("%s\n<Response><Speak>We are sorry, the audio for this call could not be found. Goodbye.</Speak></Response>", xmlHeader)
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("\n<Response>")
	b.WriteString("<Speak>Hello! You have a new voice message.</Speak>")
	b.WriteString(`<Wait length="1"/>`)
	b.WriteString("<PlayAudio>" + escapeURL(audioURL) + "</PlayAudio>")
	b.WriteString("<Speak>This message was delivered by the voice call gateway. Goodbye.</Speak>")
	b.WriteString("</Response>")
	return b.String()
}
