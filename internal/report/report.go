// Package report writes the authentication-flow report: a JSON array on the
// primary stream and a human summary on the diagnostic stream.
package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/authmap/internal/schema"
	"github.com/usestring/authmap/pkg/types"
)

// NoItemsMarker is written to the diagnostic stream when no events survive.
const NoItemsMarker = "NO_ITEMS_FOUND"

// Reporter writes reports to an output and a diagnostic stream.
type Reporter struct {
	out       io.Writer
	diag      io.Writer
	printer   *message.Printer
	validator *schema.Validator
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithValidator validates the JSON array against v before it is written.
func WithValidator(v *schema.Validator) Option {
	return func(r *Reporter) {
		r.validator = v
	}
}

// New creates a Reporter writing JSON to out and diagnostics to diag.
func New(out, diag io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:     out,
		diag:    diag,
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cutoff announces the time window in effect.
func (r *Reporter) Cutoff(cutoff time.Time) {
	fmt.Fprintf(r.diag, "Cutoff: %s\n", types.FormatTimestamp(cutoff))
}

// Write emits the summary and the JSON array. Events must already be sorted.
func (r *Reporter) Write(events []types.AuthEvent) error {
	if len(events) == 0 {
		fmt.Fprintln(r.diag, NoItemsMarker)
		_, err := io.WriteString(r.out, "[]\n")
		return err
	}

	data, err := Encode(events)
	if err != nil {
		return err
	}

	if r.validator != nil {
		if result := r.validator.Validate(data); !result.Valid {
			return fmt.Errorf("report failed schema validation: %s", strings.Join(result.Errors, "; "))
		}
	}

	r.Summary(events)

	_, err = r.out.Write(data)
	return err
}

// Summary writes the date range, total, per-category counts and hosts.
func (r *Reporter) Summary(events []types.AuthEvent) {
	if len(events) == 0 {
		return
	}

	first, last := events[0], events[len(events)-1]
	fmt.Fprintf(r.diag, "Date range: %s %s - %s %s UTC\n", first.Date, first.Time, last.Date, last.Time)
	r.printer.Fprintf(r.diag, "Total items: %d\n", len(events))
	fmt.Fprintf(r.diag, "Categories: %s\n", r.categoryCounts(events))
	fmt.Fprintf(r.diag, "Hosts: %s\n", hostSet(events))
}

// Encode renders events as a 2-space indented JSON array with a trailing newline.
func Encode(events []types.AuthEvent) ([]byte, error) {
	if events == nil {
		events = []types.AuthEvent{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(events); err != nil {
		return nil, fmt.Errorf("encoding events: %w", err)
	}
	return buf.Bytes(), nil
}

// categoryCounts renders {"Category": n, ...} in order of first appearance.
func (r *Reporter) categoryCounts(events []types.AuthEvent) string {
	counts := make(map[types.Category]int)
	var order []types.Category
	for _, e := range events {
		if _, ok := counts[e.Category]; !ok {
			order = append(order, e.Category)
		}
		counts[e.Category]++
	}

	parts := make([]string, 0, len(order))
	for _, c := range order {
		parts = append(parts, r.printer.Sprintf("%s: %d", strconv.Quote(c.String()), counts[c]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// hostSet renders the distinct hosts, sorted.
func hostSet(events []types.AuthEvent) string {
	seen := make(map[string]bool)
	hosts := make([]string, 0)
	for _, e := range events {
		if !seen[e.Host] {
			seen[e.Host] = true
			hosts = append(hosts, strconv.Quote(e.Host))
		}
	}
	sort.Strings(hosts)
	return "{" + strings.Join(hosts, ", ") + "}"
}
