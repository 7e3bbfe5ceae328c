package util

import (
	"sync"
	"time"
)

var (
	spOnce sync.Once
	spLoc  *time.Location
)

// SaoPaulo returns the America/Sao_Paulo location. Falls back to a fixed
// UTC-3 zone when the tz database is unavailable (minimal containers).
func SaoPaulo() *time.Location {
	spOnce.Do(func() {
		loc, err := time.LoadLocation("America/Sao_Paulo")
		if err != nil {
			loc = time.FixedZone("-03", -3*60*60)
		}
		spLoc = loc
	})
	return spLoc
}

// FormatTime renders a timestamp for chat display in local venue time,
// "02/01 15:04" with the date or "15:04" without.
func FormatTime(t time.Time, includeDate bool) string {
	local := t.In(SaoPaulo())
	if includeDate {
		return local.Format("02/01 15:04")
	}
	return local.Format("15:04")
}

// FormatFull renders a full date-time, used in supervisor notifications.
func FormatFull(t time.Time) string {
	return t.In(SaoPaulo()).Format("02/01/2006 15:04:05")
}
