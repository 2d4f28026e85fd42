// Package extract pulls raw request/response/notes triples out of exported
// proxy history files.
package extract

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-json"

	"github.com/usestring/authmap/internal/query"
	"github.com/usestring/authmap/pkg/types"
)

// ErrNoText is returned when the file's JSON envelope carries no text blob.
var ErrNoText = errors.New("no text blob in envelope")

// envelopeText selects the text blob: element 0 of an array, otherwise the
// object's text field, falling back to the whole document rendered as a string.
var envelopeText = query.MustCompile(`
	if type == "array" then .[0]?.text?
	elif type == "object" then (if has("text") then .text else tostring end)
	else empty
	end`)

// pairPattern matches each embedded record non-greedily. Fields keep their
// escape sequences (\r\n, \") exactly as they appear in the blob.
var pairPattern = regexp.MustCompile(`(?s)\{"request":"(.*?)","response":"(.*?)","notes":"(.*?)"\}`)

// File reads path and returns every RawPair embedded in it, in file order.
func File(path string) ([]types.RawPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := Text(path, data)
	if err != nil {
		return nil, err
	}

	return Pairs(text), nil
}

// Text decodes a JSON envelope and returns its text blob.
func Text(label string, data []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parsing %s: %w", label, err)
	}

	v, err := envelopeText.First(label, doc)
	if err != nil {
		if errors.Is(err, query.ErrNoResult) {
			return "", fmt.Errorf("%s: %w", label, ErrNoText)
		}
		return "", fmt.Errorf("%s: %w: %v", label, ErrNoText, err)
	}

	text, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: %w: text is %T", label, ErrNoText, v)
	}
	return text, nil
}

// Pairs finds every non-overlapping record in text.
func Pairs(text string) []types.RawPair {
	matches := pairPattern.FindAllStringSubmatch(text, -1)
	pairs := make([]types.RawPair, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, types.RawPair{
			Request:  m[1],
			Response: m[2],
			Notes:    m[3],
		})
	}
	return pairs
}
