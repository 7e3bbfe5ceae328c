package util

import "regexp"

var nonPhoneChars = regexp.MustCompile(`[^+0-9]`)

// NormalizePhone strips everything except digits and '+' from a raw sender
// identifier. Twilio delivers "whatsapp:+5521999999999"; the channel scheme
// and any formatting are removed. Returns "" when nothing usable remains.
func NormalizePhone(raw string) string {
	return nonPhoneChars.ReplaceAllString(raw, "")
}
