// Package classify assigns authentication-flow categories to parsed HTTP transactions.
package classify

import (
	"regexp"
	"strings"

	"github.com/usestring/authmap/pkg/types"
)

// Input is the subset of a transaction the rules look at.
type Input struct {
	Method   string
	Path     string
	Status   string
	Location string
	Body     string
}

// Rule pairs a category with its predicate.
type Rule struct {
	Category types.Category
	Match    func(in Input, path string) bool // path is lowercased
}

// defaultDocuments are paths that typically bounce an anonymous visitor to a login page.
var defaultDocuments = map[string]bool{
	"/":             true,
	"/index.php":    true,
	"/index.html":   true,
	"/default.aspx": true,
}

var redirectStatuses = map[string]bool{
	"301": true, "302": true, "303": true, "307": true, "308": true,
}

var (
	credentialKeywords = regexp.MustCompile(`(?i)(username|password|email|user|passwd|credential)`)
	mfaPattern         = regexp.MustCompile(`(mfa|2fa|otp|verify|challenge)`)
	callbackPattern    = regexp.MustCompile(`(callback|redirect_uri|authorize)`)
	assetPattern       = regexp.MustCompile(`\.(css|js|png|jpg|jpeg|gif|ico|svg|woff2?|ttf|eot)$`)
)

// Rules is the classification cascade. Order is significant: the first
// matching rule wins, and anything unmatched is CategoryOther.
var Rules = []Rule{
	{
		Category: types.CategoryLogout,
		Match: func(_ Input, p string) bool {
			return containsAny(p, "logout", "signout", "sign-out")
		},
	},
	{
		Category: types.CategoryInitialRedirect,
		Match: func(in Input, p string) bool {
			return in.Method == "GET" && defaultDocuments[p] && in.Status == "302" &&
				strings.Contains(strings.ToLower(in.Location), "login")
		},
	},
	{
		Category: types.CategoryLoginPage,
		Match: func(in Input, p string) bool {
			return in.Method == "GET" && strings.Contains(p, "login") && in.Status == "200"
		},
	},
	{
		Category: types.CategoryCredentialSubmission,
		Match: func(in Input, p string) bool {
			if in.Method != "POST" || !containsAny(p, "login", "auth", "token") {
				return false
			}
			return credentialKeywords.MatchString(in.Body) || strings.Contains(p, "login")
		},
	},
	{
		// Reached only when the credential rule saw an auth/token path without credentials.
		Category: types.CategoryTokenExchange,
		Match: func(in Input, p string) bool {
			return in.Method == "POST" && strings.Contains(p, "token")
		},
	},
	{
		Category: types.CategoryMFAChallenge,
		Match: func(in Input, p string) bool {
			return (in.Method == "GET" || in.Method == "POST") && mfaPattern.MatchString(p)
		},
	},
	{
		Category: types.CategoryOAuthCallback,
		Match: func(_ Input, p string) bool {
			return callbackPattern.MatchString(p)
		},
	},
	{
		Category: types.CategoryStaticAsset,
		Match: func(_ Input, p string) bool {
			return assetPattern.MatchString(p)
		},
	},
	{
		Category: types.CategoryPostAuthPage,
		Match: func(in Input, p string) bool {
			return in.Method == "GET" && in.Status == "200" && !strings.Contains(p, "login")
		},
	},
	{
		Category: types.CategoryRedirect,
		Match: func(in Input, _ string) bool {
			return redirectStatuses[in.Status]
		},
	},
}

// Classify returns the category of the first matching rule in Rules.
func Classify(in Input) types.Category {
	return ClassifyWith(Rules, in)
}

// ClassifyWith evaluates rules in order and returns the first match, or CategoryOther.
func ClassifyWith(rules []Rule, in Input) types.Category {
	p := strings.ToLower(in.Path)
	for _, r := range rules {
		if r.Match(in, p) {
			return r.Category
		}
	}
	return types.CategoryOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
