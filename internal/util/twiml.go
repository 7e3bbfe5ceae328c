package util

import "strings"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML special characters for TwiML bodies.
func EscapeXML(unsafe string) string {
	return xmlEscaper.Replace(unsafe)
}

// TwiML wraps a plain-text message in the provider's reply envelope.
// The webhook contract expects exactly one <Message> element per response.
func TwiML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		"<Response><Message>" + EscapeXML(text) + "</Message></Response>"
}
