package syncer

import (
	"regexp"
	"strings"
)

// OpeningHours is the uniform daily schedule derived from the feed's
// free-text openingHours field. The feed carries no per-weekday schedules.
type OpeningHours struct {
	SameEveryDay bool
	Open         string
	Close        string
}

var hoursRe = regexp.MustCompile(`^(\d{1,2}[.:]\d{2})\s*-\s*(\d{1,2}[.:]\d{2})$`)

// ParseOpeningHours splits a single "HH:MM-HH:MM" token (colon or dot
// separator) into open/close times. Any other non-empty text passes through
// verbatim as the open value; empty input yields an all-empty schedule.
func ParseOpeningHours(raw string) OpeningHours {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return OpeningHours{SameEveryDay: true}
	}

	if m := hoursRe.FindStringSubmatch(raw); m != nil {
		return OpeningHours{
			SameEveryDay: true,
			Open:         strings.Replace(m[1], ".", ":", 1),
			Close:        strings.Replace(m[2], ".", ":", 1),
		}
	}

	return OpeningHours{SameEveryDay: true, Open: raw}
}
