// Package query provides JQ-based querying over decoded JSON documents.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/itchyny/gojq"
)

// ErrNoResult is returned by First when a program yields no value.
var ErrNoResult = errors.New("jq program produced no value")

// Program is a compiled JQ expression. It is safe to reuse across inputs.
type Program struct {
	expression string
	code       *gojq.Code
}

// Result contains the values produced by one run of a Program.
type Result struct {
	Values []any    `json:"values"`           // Extracted values, nulls skipped
	Errors []string `json:"errors,omitempty"` // Runtime errors, with hints
}

// Compile parses and compiles a JQ expression.
func Compile(expression string) (*Program, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	return &Program{expression: expression, code: code}, nil
}

// MustCompile is like Compile but panics on error. Use for package-level programs.
func MustCompile(expression string) *Program {
	p, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Program) String() string {
	return p.expression
}

// Run executes the program against an already-decoded value.
// The label prefixes runtime error messages.
func (p *Program) Run(label string, input any) *Result {
	result := &Result{
		Values: make([]any, 0),
	}

	iter := p.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			result.Errors = append(result.Errors, formatJQError(label, err))
			continue
		}

		// Skip nil values
		if v == nil {
			continue
		}

		result.Values = append(result.Values, v)
	}

	return result
}

// RunJSON decodes data and executes the program against it.
func (p *Program) RunJSON(label string, data []byte) (*Result, error) {
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("%s: invalid JSON: %w", label, err)
	}
	return p.Run(label, input), nil
}

// First returns the first non-null value the program yields for input.
func (p *Program) First(label string, input any) (any, error) {
	result := p.Run(label, input)
	if len(result.Values) > 0 {
		return result.Values[0], nil
	}
	if len(result.Errors) > 0 {
		return nil, errors.New(result.Errors[0])
	}
	return nil, ErrNoResult
}

// formatJQError creates a helpful error message for JQ execution errors.
//
// Runtime JQ errors (like "cannot iterate over: null") are plain errors
// without typed wrappers in gojq, so string matching is used for hints.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}
