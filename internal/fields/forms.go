package fields

import (
	"regexp"
	"strings"

	"github.com/usestring/authmap/pkg/types"
)

// Mask replaces password values in CredParams.
const Mask = "****"

// hiddenFieldPattern is a permissive scan for hidden inputs. It assumes name
// precedes value within the tag and does not cross real line breaks.
var hiddenFieldPattern = regexp.MustCompile(`type=['"]hidden['"].*?name=['"](\w+)['"].*?value=['"]([^'"]+)['"]`)

// credParamPattern matches authentication-related body parameters. Values end
// at '&' or at a backslash (the start of an escaped CRLF).
var credParamPattern = regexp.MustCompile(`(?i)(username|password|passwd|email|user|Login|user_token|csrf_token|authenticity_token|access_token|refresh_token|grant_type|code|state)=([^&\\]+)`)

// HiddenFields returns hidden input name/value pairs found in response HTML.
func HiddenFields(response string) []types.NameValue {
	matches := hiddenFieldPattern.FindAllStringSubmatch(response, -1)
	out := make([]types.NameValue, 0, len(matches))
	for _, m := range matches {
		out = append(out, types.NameValue{Name: m[1], Value: m[2]})
	}
	return out
}

// CredParams returns credential-looking key=value pairs from a request body.
// Password values are replaced with Mask.
func CredParams(body string) []types.NameValue {
	matches := credParamPattern.FindAllStringSubmatch(body, -1)
	out := make([]types.NameValue, 0, len(matches))
	for _, m := range matches {
		name, value := m[1], m[2]
		if isSecret(name) {
			value = Mask
		}
		out = append(out, types.NameValue{Name: name, Value: value})
	}
	return out
}

func isSecret(name string) bool {
	switch strings.ToLower(name) {
	case "password", "passwd":
		return true
	}
	return false
}
