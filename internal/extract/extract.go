// Package extract walks a knowledge archive and streams every exact,
// validated record in packed form to an output sink.
package extract

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/edaxknowledge/internal/analysis"
	"github.com/freeeve/edaxknowledge/internal/archive"
)

// Policy selects how invariant violations are handled.
type Policy uint8

const (
	// PolicySkip logs the violating record and continues.
	PolicySkip Policy = iota
	// PolicyStrict stops the run at the first violation.
	PolicyStrict
)

// Errors returned by Run and ParsePolicy.
var (
	ErrInvariantViolation = errors.New("invariant violation")
	ErrUnknownPolicy      = errors.New("unknown policy")
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "skip"
}

// ParsePolicy maps "skip" or "strict" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "skip":
		return PolicySkip, nil
	case "strict":
		return PolicyStrict, nil
	}
	return PolicySkip, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// DefaultTotalEntries is the number of entries in the published knowledge archive.
const DefaultTotalEntries = 2587

// Config configures a Walker.
type Config struct {
	Limits           analysis.Limits // Zero value means analysis.DefaultLimits()
	Policy           Policy
	TotalEntries     int           // Expected entries for progress reporting, 0 if unknown
	ProgressInterval time.Duration // Minimum time between progress logs (default 10s)
	Logger           zerolog.Logger
}

// Stats counts what a run did.
type Stats struct {
	EntriesSeen      int64 // Regular entries encountered
	EntriesProcessed int64 // Entries whose lines were read
	EntriesRejected  int64 // Entries skipped for their name
	EntriesFailed    int64 // Entries abandoned on a read error
	NonRegular       int64 // Directories and other non-file members
	Lines            int64
	Malformed        int64
	Overflow         int64
	Invalid          int64 // Invariant violations skipped under PolicySkip
	Dropped          int64 // Valid records that are not exact results
	Written          int64
	WriteErrors      int64
}

// Walker processes one archive sequentially.
type Walker struct {
	cfg   Config
	log   zerolog.Logger
	out   io.Writer
	stats Stats

	start   time.Time
	lastLog time.Time
}

// NewWalker creates a Walker writing packed records to out, one Write call
// per record.
func NewWalker(cfg Config, out io.Writer) *Walker {
	if cfg.Limits == (analysis.Limits{}) {
		cfg.Limits = analysis.DefaultLimits()
	}
	if cfg.ProgressInterval == 0 {
		cfg.ProgressInterval = 10 * time.Second
	}
	return &Walker{
		cfg: cfg,
		log: cfg.Logger,
		out: out,
	}
}

// Stats returns the counters accumulated so far.
func (w *Walker) Stats() Stats { return w.stats }

// Run processes every entry of src in archive order. Per-entry and per-line
// failures are logged and counted. Each selected record is written to the
// sink on its own, so a failed write only loses that record. Run returns
// early on a source error, on context cancellation (checked before every
// entry and line), or on an invariant violation under PolicyStrict.
func (w *Walker) Run(ctx context.Context, src archive.Source) (Stats, error) {
	w.start = time.Now()
	w.lastLog = w.start

	w.log.Info().
		Str("policy", w.cfg.Policy.String()).
		Int("entries_total", w.cfg.TotalEntries).
		Msg("starting extract")

	for {
		if err := ctx.Err(); err != nil {
			w.log.Info().Msg("interrupted, stopping extract")
			return w.stats, err
		}

		entry, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return w.stats, err
		}

		if !entry.Regular {
			w.stats.NonRegular++
			w.log.Debug().Str("entry", entry.Name).Msg("skipping non-regular entry")
			continue
		}
		w.stats.EntriesSeen++

		if _, err := archive.ParseEntryName(entry.Name); err != nil {
			w.stats.EntriesRejected++
			w.log.Error().Err(err).Str("entry", entry.Name).Msg("bad entry name")
			continue
		}

		if err := w.processEntry(ctx, entry); err != nil {
			return w.stats, err
		}
		w.stats.EntriesProcessed++
		w.logProgress(false)
	}

	w.logProgress(true)
	return w.stats, nil
}

// processEntry streams the lines of one entry. Only context cancellation and
// strict-mode invariant violations are returned; everything else is logged.
func (w *Walker) processEntry(ctx context.Context, entry *archive.Entry) error {
	scanner := bufio.NewScanner(entry.Body)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			w.log.Info().Str("entry", entry.Name).Int("line_no", lineNo+1).Msg("interrupted, stopping extract")
			return err
		}
		lineNo++
		if err := w.processLine(entry.Name, lineNo, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		w.stats.EntriesFailed++
		w.log.Error().Err(err).Str("entry", entry.Name).Int("line_no", lineNo+1).Msg("read entry failed")
	}
	return nil
}

func (w *Walker) processLine(entryName string, lineNo int, line string) error {
	w.stats.Lines++

	rec, err := analysis.Parse(line)
	if err != nil {
		if errors.Is(err, analysis.ErrNumericOverflow) {
			w.stats.Overflow++
		} else {
			w.stats.Malformed++
		}
		w.log.Error().
			Err(errors.Unwrap(err)).
			Str("entry", entryName).
			Int("line_no", lineNo).
			Str("line", line).
			Msg("bad record")
		return nil
	}

	if err := analysis.Validate(rec, w.cfg.Limits); err != nil {
		if w.cfg.Policy == PolicyStrict {
			return fmt.Errorf("%w: %s line %d: %w", ErrInvariantViolation, entryName, lineNo, err)
		}
		w.stats.Invalid++
		w.log.Warn().
			Err(err).
			Str("entry", entryName).
			Int("line_no", lineNo).
			Str("line", line).
			Msg("record violates invariant, skipped")
		return nil
	}

	if !analysis.Select(rec, w.cfg.Limits) {
		w.stats.Dropped++
		return nil
	}

	buf := analysis.Encode(rec)
	if n, err := w.out.Write(buf[:]); err != nil || n != len(buf) {
		if err == nil {
			err = io.ErrShortWrite
		}
		w.stats.WriteErrors++
		w.log.Error().Err(err).Str("entry", entryName).Int("line_no", lineNo).Msg("write record failed")
		return nil
	}
	w.stats.Written++
	return nil
}

func (w *Walker) logProgress(final bool) {
	now := time.Now()
	if !final && now.Sub(w.lastLog) < w.cfg.ProgressInterval {
		return
	}
	w.lastLog = now

	elapsed := now.Sub(w.start)
	ev := w.log.Info()
	if final {
		ev = ev.
			Int64("entries_rejected", w.stats.EntriesRejected).
			Int64("entries_failed", w.stats.EntriesFailed).
			Int64("lines", w.stats.Lines).
			Int64("malformed", w.stats.Malformed).
			Int64("overflow", w.stats.Overflow).
			Int64("invalid", w.stats.Invalid).
			Int64("dropped", w.stats.Dropped).
			Int64("write_errors", w.stats.WriteErrors)
	}
	ev = ev.
		Int64("entries_done", w.stats.EntriesProcessed).
		Int("entries_total", w.cfg.TotalEntries).
		Int64("records_written", w.stats.Written).
		Dur("elapsed", elapsed)
	if secs := elapsed.Seconds(); secs > 0 {
		ev = ev.Float64("entries_per_sec", float64(w.stats.EntriesProcessed)/secs)
	}
	if final {
		ev.Msg("extract complete")
		return
	}
	ev.Msg("extract progress")
}
