package types

// ValidationResult contains the result of validating a JSON document against a schema.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
