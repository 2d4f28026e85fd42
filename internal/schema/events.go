// Package schema describes the authmap report format as JSON Schema and
// validates documents against it.
package schema

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	"github.com/usestring/authmap/pkg/types"
)

// Events returns the JSON Schema of the report: an array of AuthEvent objects.
func Events() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous: true,
	}
	s := r.Reflect([]types.AuthEvent{})
	s.Title = "authmap report"
	s.Description = "Authentication-flow events classified from proxy history, sorted by timestamp."
	return s
}

// EventsJSON renders Events as indented JSON.
func EventsJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Events(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling events schema: %w", err)
	}
	return data, nil
}

// NewEventsValidator compiles the report schema.
func NewEventsValidator() (*Validator, error) {
	data, err := EventsJSON()
	if err != nil {
		return nil, err
	}
	return NewValidator("authmap-events.json", data)
}
