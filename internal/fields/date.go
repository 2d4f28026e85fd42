package fields

import (
	"strings"
	"time"
)

// httpDateLayouts accept the IMF-fixdate form, with or without a zero-padded day.
var httpDateLayouts = []string{
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// Date parses the response Date header as UTC. Only GMT and UTC zone
// designators are accepted; anything else is treated as unparseable.
func Date(response string) *time.Time {
	raw := strings.TrimSpace(firstHeader(datePattern, response))
	if raw == "" {
		return nil
	}
	t, ok := ParseHTTPDate(raw)
	if !ok {
		return nil
	}
	return &t
}

// ParseHTTPDate parses s (e.g. "Sun, 10 Mar 2024 11:50:00 GMT") into a UTC instant.
func ParseHTTPDate(s string) (time.Time, bool) {
	for _, layout := range httpDateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		if zone, _ := t.Zone(); zone != "GMT" && zone != "UTC" {
			return time.Time{}, false
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
	}
	return time.Time{}, false
}
