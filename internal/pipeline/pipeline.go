// Package pipeline drives extraction, parsing, classification, time
// filtering and deduplication over a batch of history files.
package pipeline

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/usestring/authmap/internal/classify"
	"github.com/usestring/authmap/internal/extract"
	"github.com/usestring/authmap/internal/fields"
	"github.com/usestring/authmap/pkg/types"
)

// Stats counts what happened to the records in one run.
type Stats struct {
	Files       int // files attempted
	FilesFailed int // files skipped after a read or parse failure
	Pairs       int // RawPairs extracted
	TooOld      int // dropped by the time window
	Malformed   int // dropped for a malformed request line
	Duplicates  int // dropped as duplicates
	Events      int // events emitted
}

// Pipeline processes history files into sorted, deduplicated AuthEvents.
type Pipeline struct {
	cutoff time.Time
	now    func() time.Time
	logger *slog.Logger
	stats  Stats
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used when a record has no usable Date header.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithLogger sets the logger for per-file warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline that drops events dated before cutoff.
func New(cutoff time.Time, opts ...Option) *Pipeline {
	p := &Pipeline{
		cutoff: cutoff,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stats returns the counters accumulated so far.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Run reads every file in order and returns the surviving events sorted by
// timestamp. A file that cannot be read or parsed is logged and skipped.
func (p *Pipeline) Run(paths []string) []types.AuthEvent {
	var pairs []types.RawPair
	for _, path := range paths {
		p.stats.Files++
		filePairs, err := extract.File(path)
		if err != nil {
			p.stats.FilesFailed++
			p.logger.Warn("failed to read input file", "path", path, "error", err)
			continue
		}
		p.logger.Debug("extracted records", "path", path, "count", len(filePairs))
		pairs = append(pairs, filePairs...)
	}

	events := p.Events(pairs)

	p.logger.Debug("pipeline finished",
		"files", p.stats.Files,
		"files_failed", p.stats.FilesFailed,
		"pairs", p.stats.Pairs,
		"too_old", p.stats.TooOld,
		"malformed", p.stats.Malformed,
		"duplicates", p.stats.Duplicates,
		"events", p.stats.Events,
	)

	return events
}

// Events converts pairs into AuthEvents. Pairs dated before the cutoff,
// pairs with a malformed request line and repeated method|path|timestamp
// keys are dropped; the first occurrence of a key is kept.
func (p *Pipeline) Events(pairs []types.RawPair) []types.AuthEvent {
	events := make([]types.AuthEvent, 0, len(pairs))
	seen := make(map[string]struct{})

	for _, pair := range pairs {
		p.stats.Pairs++

		f, ok := fields.Parse(pair)
		if !ok {
			p.stats.Malformed++
			p.logger.Debug("dropping record with malformed request line")
			continue
		}

		var at time.Time
		if f.Date != nil {
			if f.Date.Before(p.cutoff) {
				p.stats.TooOld++
				continue
			}
			at = *f.Date
		} else {
			at = p.now()
		}

		event := newEvent(f, at)

		key := DedupKey(event)
		if _, dup := seen[key]; dup {
			p.stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		events = append(events, event)
	}

	Sort(events)
	p.stats.Events += len(events)
	return events
}

// DedupKey identifies an event for deduplication: method|path|timestamp.
func DedupKey(e types.AuthEvent) string {
	return e.Method + "|" + e.Path + "|" + e.Timestamp
}

// Sort orders events by their ISO timestamp string, keeping input order for ties.
func Sort(events []types.AuthEvent) {
	slices.SortStableFunc(events, func(a, b types.AuthEvent) int {
		return strings.Compare(a.Timestamp, b.Timestamp)
	})
}

func newEvent(f *fields.Fields, at time.Time) types.AuthEvent {
	e := types.AuthEvent{
		Host:     f.Host,
		Method:   f.Method,
		Path:     f.Path,
		Status:   f.Status,
		Location: f.Location,
		Category: classify.Classify(classify.Input{
			Method:   f.Method,
			Path:     f.Path,
			Status:   f.Status,
			Location: f.Location,
			Body:     f.Body,
		}),
		SetCookiesRaw:  f.SetCookies,
		SessionIDsSet:  f.SessionIDsSet,
		SessionIDsSent: f.SessionIDsSent,
		CookieFlags:    f.CookieFlags,
		HiddenFields:   f.HiddenFields,
		CredParams:     f.CredParams,
	}
	e.Stamp(at)
	return e
}
