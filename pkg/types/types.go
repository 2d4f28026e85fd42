// Package types provides shared types for authmap.
// These types are used across multiple packages and are designed for external consumption.
package types

import "time"

// RawPair is one request/response/notes triple lifted out of an exported
// proxy history blob. Header lines inside Request and Response are still
// separated by the literal four-character escape sequence `\r\n`.
type RawPair struct {
	Request  string
	Response string
	Notes    string
}

// NameValue is an ordered name/value pair (hidden form fields, credential parameters).
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CookieFlags holds the security attributes of a Set-Cookie header that
// carried a session identifier. Absent attributes encode as null.
type CookieFlags struct {
	HttpOnly bool    `json:"HttpOnly"`
	Secure   bool    `json:"Secure"`
	SameSite *string `json:"SameSite" jsonschema:"nullable"`
	MaxAge   *int    `json:"Max-Age" jsonschema:"nullable"`
	Domain   *string `json:"Domain" jsonschema:"nullable"`
	Path     *string `json:"Path" jsonschema:"nullable"`
}

// AuthEvent is one classified HTTP transaction in the authentication flow report.
type AuthEvent struct {
	// At is the instant the event is keyed and sorted on. It is never zero in an emitted event.
	At time.Time `json:"-"`

	Timestamp      string                 `json:"timestamp"` // ISO-8601, +00:00 offset
	Time           string                 `json:"time"`      // HH:MM:SS (UTC)
	Date           string                 `json:"date"`      // YYYY-MM-DD (UTC)
	Host           string                 `json:"host"`
	Method         string                 `json:"method"`
	Path           string                 `json:"path"`
	Status         string                 `json:"status"` // "?" when the status line is unparseable
	Category       Category               `json:"category"`
	Location       string                 `json:"location"`
	SetCookiesRaw  []string               `json:"set_cookies_raw"`
	SessionIDsSet  map[string]string      `json:"session_ids_set"`
	SessionIDsSent map[string]string      `json:"session_ids_sent"`
	CookieFlags    map[string]CookieFlags `json:"cookie_flags"`
	HiddenFields   []NameValue            `json:"hidden_fields"`
	CredParams     []NameValue            `json:"cred_params"`
}

// Stamp sets At and the derived Timestamp, Time and Date fields from t (converted to UTC).
func (e *AuthEvent) Stamp(t time.Time) {
	t = t.UTC()
	e.At = t
	e.Timestamp = FormatTimestamp(t)
	e.Time = t.Format("15:04:05")
	e.Date = t.Format("2006-01-02")
}

// FormatTimestamp renders t as ISO-8601 with an explicit +00:00 offset.
// Fractional seconds are written as microseconds and only when non-zero.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format("2006-01-02T15:04:05.000000-07:00")
	}
	return t.Format("2006-01-02T15:04:05-07:00")
}
