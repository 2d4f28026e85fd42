// Package fields derives structured fields from raw, still-escaped HTTP
// request/response text.
//
// Header lines are delimited by the literal escape sequence `\r\n` (four
// characters), not by real CRLFs, because the text was escaped twice on its
// way into the export. All matching is regex based and permissive: anything
// that does not match simply yields a default.
package fields

import (
	"regexp"
	"strings"
	"time"

	"github.com/usestring/authmap/pkg/types"
)

// CRLF is the escaped line delimiter inside request/response text.
const CRLF = `\r\n`

// BlankLine separates headers from body.
const BlankLine = CRLF + CRLF

// Defaults for fields that could not be matched.
const (
	UnknownStatus = "?"
	UnknownHost   = "unknown"
)

var (
	requestLinePattern = regexp.MustCompile(`^(\w+)\s+(\S+)\s+HTTP`)
	statusLinePattern  = regexp.MustCompile(`^HTTP/[\d.]+ (\d+)`)
	hostPattern        = headerPattern("Host")
	locationPattern    = headerPattern("Location")
	setCookiePattern   = headerPattern("Set-Cookie")
	cookiePattern      = headerPattern("Cookie")
	datePattern        = headerPattern("Date")
)

// headerPattern matches `Name: value\r\n` anywhere in the text, capturing value.
func headerPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(name) + `:\s*(.+?)` + regexp.QuoteMeta(CRLF))
}

// Fields are the values derived from one RawPair.
type Fields struct {
	Method   string
	Path     string
	Status   string
	Host     string
	Location string

	SetCookies []string // raw Set-Cookie values in appearance order
	CookieSent string   // raw Cookie header value sent by the client
	Body       string   // request body, still escaped

	HiddenFields []types.NameValue
	CredParams   []types.NameValue // password values already masked

	SessionIDsSet  map[string]string
	SessionIDsSent map[string]string
	CookieFlags    map[string]types.CookieFlags

	// Date is the response Date header, nil when missing or unparseable.
	Date *time.Time
}

// Parse derives Fields from pair. It returns false when the request does not
// open with a `METHOD PATH HTTP` line; such pairs produce no event.
func Parse(pair types.RawPair) (*Fields, bool) {
	method, path, ok := RequestLine(pair.Request)
	if !ok {
		return nil, false
	}

	f := &Fields{
		Method:     method,
		Path:       path,
		Status:     Status(pair.Response),
		Host:       UnknownHost,
		Location:   strings.TrimSpace(firstHeader(locationPattern, pair.Response)),
		SetCookies: allHeaders(setCookiePattern, pair.Response),
		CookieSent: firstHeader(cookiePattern, pair.Request),
		Body:       Body(pair.Request),
		Date:       Date(pair.Response),
	}
	if host := firstHeader(hostPattern, pair.Request); host != "" {
		f.Host = strings.TrimSpace(host)
	}

	f.HiddenFields = HiddenFields(pair.Response)
	f.CredParams = CredParams(f.Body)

	f.SessionIDsSent = SessionIDs(f.CookieSent)
	f.SessionIDsSet = make(map[string]string)
	f.CookieFlags = make(map[string]types.CookieFlags)
	for _, sc := range f.SetCookies {
		for name, value := range SessionIDs(sc) {
			if _, seen := f.SessionIDsSet[name]; seen {
				continue
			}
			f.SessionIDsSet[name] = value
			f.CookieFlags[name] = Flags(sc)
		}
	}

	return f, true
}

// RequestLine extracts method and path from the opening request line.
func RequestLine(request string) (method, path string, ok bool) {
	m := requestLinePattern.FindStringSubmatch(request)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Status extracts the status code from the opening response line, or UnknownStatus.
func Status(response string) string {
	m := statusLinePattern.FindStringSubmatch(response)
	if m == nil {
		return UnknownStatus
	}
	return m[1]
}

// Body returns everything after the first escaped blank line, or "".
func Body(request string) string {
	_, body, found := strings.Cut(request, BlankLine)
	if !found {
		return ""
	}
	return body
}

func firstHeader(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func allHeaders(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
