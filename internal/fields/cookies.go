package fields

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/usestring/authmap/pkg/types"
)

// sessionCookie is a well-known framework session cookie and the shape of its value.
type sessionCookie struct {
	name    string
	pattern *regexp.Regexp
}

var sessionCookies = []sessionCookie{
	{name: "PHPSESSID", pattern: regexp.MustCompile(`PHPSESSID=([a-f0-9]+)`)},
	{name: "JSESSIONID", pattern: regexp.MustCompile(`JSESSIONID=([A-Fa-f0-9]+)`)},
	{name: "ASP.NET_SessionId", pattern: regexp.MustCompile(`ASP\.NET_SessionId=([^\s;]+)`)},
	{name: "connect.sid", pattern: regexp.MustCompile(`connect\.sid=([^\s;]+)`)},
}

var (
	sameSitePattern = regexp.MustCompile(`SameSite=(\w+)`)
	maxAgePattern   = regexp.MustCompile(`Max-Age=(\d+)`)
	domainPattern   = regexp.MustCompile(`[Dd]omain=([^;\s]+)`)
	cookiePathRe    = regexp.MustCompile(`[Pp]ath=([^;\s]+)`)
)

// SessionIDs returns the known session identifiers found in a Cookie or
// Set-Cookie value. The map is never nil.
func SessionIDs(cookie string) map[string]string {
	ids := make(map[string]string)
	for _, sc := range sessionCookies {
		if m := sc.pattern.FindStringSubmatch(cookie); m != nil {
			ids[sc.name] = m[1]
		}
	}
	return ids
}

// Flags extracts security attributes from one Set-Cookie value.
func Flags(setCookie string) types.CookieFlags {
	flags := types.CookieFlags{
		HttpOnly: strings.Contains(setCookie, "HttpOnly"),
		Secure:   strings.Contains(setCookie, "Secure"),
		SameSite: submatch(sameSitePattern, setCookie),
		Domain:   submatch(domainPattern, setCookie),
		Path:     submatch(cookiePathRe, setCookie),
	}
	if raw := submatch(maxAgePattern, setCookie); raw != nil {
		if n, err := strconv.Atoi(*raw); err == nil {
			flags.MaxAge = &n
		}
	}
	return flags
}

func submatch(re *regexp.Regexp, s string) *string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	return &m[1]
}
