package types

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// Category is the authentication-flow category assigned to an AuthEvent.
type Category uint8

// Categories, in classifier precedence order.
const (
	CategoryLogout Category = iota
	CategoryInitialRedirect
	CategoryLoginPage
	CategoryCredentialSubmission
	CategoryTokenExchange
	CategoryMFAChallenge
	CategoryOAuthCallback
	CategoryStaticAsset
	CategoryPostAuthPage
	CategoryRedirect
	CategoryOther
)

var categoryNames = [...]string{
	CategoryLogout:               "Logout",
	CategoryInitialRedirect:      "Initial Visit / Redirect",
	CategoryLoginPage:            "Login Page Load",
	CategoryCredentialSubmission: "Credential Submission",
	CategoryTokenExchange:        "Token Exchange",
	CategoryMFAChallenge:         "MFA Challenge",
	CategoryOAuthCallback:        "OAuth/SSO Callback",
	CategoryStaticAsset:          "Static Asset",
	CategoryPostAuthPage:         "Post-Auth Page Load",
	CategoryRedirect:             "Redirect",
	CategoryOther:                "Other",
}

// AllCategories returns every category in precedence order.
func AllCategories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for c := range categoryNames {
		out = append(out, Category(c))
	}
	return out
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// ParseCategory maps a category label back to its Category.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return CategoryOther, fmt.Errorf("unknown category: %q", s)
}

// MarshalText encodes the category as its label.
func (c Category) MarshalText() ([]byte, error) {
	if int(c) >= len(categoryNames) {
		return nil, fmt.Errorf("invalid category: %d", uint8(c))
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText decodes a category label.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// JSONSchema describes Category as a string enumeration of its labels.
func (Category) JSONSchema() *jsonschema.Schema {
	enum := make([]any, 0, len(categoryNames))
	for _, name := range categoryNames {
		enum = append(enum, name)
	}
	return &jsonschema.Schema{
		Type: "string",
		Enum: enum,
	}
}
