package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-cycle/internal/config"
)

// SyncConfig describes where an iCalendar import reads from.
type SyncConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to the .ics file
	WebURL    string // HTTP(S) URL of the calendar
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Importer turns an external iCalendar source into period entries.
type Importer struct {
	Fetcher CalendarFetcher
	NewID   IDFunc
}

// Import acquires the configured stream and converts every VEVENT with a
// DTSTART into an entry. DTEND is treated as exclusive; a missing DTEND yields
// a single-day entry. Malformed events are skipped.
func (im *Importer) Import(ctx context.Context, cfg SyncConfig) ([]PeriodEntry, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgImportStarted)

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrICalParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := im.decode(ctx, reader)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, config.MsgImportDone, config.LogKeyImported, len(entries))
	return entries, nil
}

func (im *Importer) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	case config.SourceModeNone:
		return nil, errors.New(config.ErrSourceMissing)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

func (im *Importer) decode(ctx context.Context, r io.Reader) ([]PeriodEntry, error) {
	newID := im.NewID
	if newID == nil {
		newID = NewEntryID
	}

	decoder := ical.NewDecoder(r)
	var entries []PeriodEntry

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrICalParse, err)
		}

		for _, event := range cal.Events() {
			if isPredictedEvent(event) {
				continue
			}
			entry, err := eventToEntry(event, newID)
			if err != nil {
				slog.Warn(config.MsgSkippedEvent,
					config.LogKeyComponent, config.CompImporter,
					config.LogKeyError, err)
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// isPredictedEvent reports whether event is a forecast window from our own feed,
// so that re-importing an exported feed only brings back logged periods.
func isPredictedEvent(event ical.Event) bool {
	uid := event.Props.Get(config.PropUID)
	if uid == nil {
		return false
	}
	return strings.HasPrefix(uid.Value, config.PredUIDPrefix) &&
		strings.HasSuffix(uid.Value, config.UIDSeparator+config.ICalDomain)
}

// eventToEntry maps one all-day (or timed) event onto the calendar days it covers.
func eventToEntry(event ical.Event, newID IDFunc) (PeriodEntry, error) {
	startProp := event.Props.Get(config.PropDTStart)
	if startProp == nil {
		return PeriodEntry{}, errors.New(config.ErrDateParse)
	}
	start, err := startProp.DateTime(time.UTC)
	if err != nil {
		return PeriodEntry{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	first := DateOnly(start)
	last := first

	if endProp := event.Props.Get(config.PropDTEnd); endProp != nil {
		end, err := endProp.DateTime(time.UTC)
		if err != nil {
			return PeriodEntry{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
		}
		// DTEND is exclusive for all-day events; for timed events the day it
		// falls on is the last day unless it ends exactly at midnight.
		endDay := DateOnly(end)
		y, m, d := end.Date()
		if time.Date(y, m, d, 0, 0, 0, 0, end.Location()).Equal(end) {
			endDay = AddDays(endDay, -1)
		}
		if endDay.After(last) {
			last = endDay
		}
	}

	return NewEntry(newID(), first, last), nil
}
