package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/tartampluch/go-cycle/internal/engine"
	"github.com/tartampluch/go-cycle/internal/i18n"
	"github.com/zalando/go-keyring"
)

// EntryStore is the Storage collaborator. Load never fails (a failure is an
// empty history) and Save reports a logged failure as false.
type EntryStore interface {
	Load(ctx context.Context) []engine.PeriodEntry
	Save(ctx context.Context, entries []engine.PeriodEntry) bool
}

// FeedPublisher receives rebuilt payloads during serve.
type FeedPublisher interface {
	Update(data []byte)
	UpdateInsights(data []byte)
}

// App wires the collaborators every command needs.
type App struct {
	Store      EntryStore
	Clock      engine.Clock
	Translator *i18n.Translator
	Settings   config.Settings
	Fetcher    engine.CalendarFetcher
	NewID      engine.IDFunc

	closeStore func() error
}

// Close releases the storage handle, if any.
func (app *App) Close() error {
	if app.closeStore == nil {
		return nil
	}
	return app.closeStore()
}

// Today is the injected calendar day used by every time-relative computation.
func (app *App) Today() time.Time {
	return engine.Today(app.Clock)
}

func (app *App) newID() engine.IDFunc {
	if app.NewID != nil {
		return app.NewID
	}
	return engine.NewEntryID
}

// loadSyncConfig assembles the importer configuration from settings and the keyring.
func (app *App) loadSyncConfig() engine.SyncConfig {
	cfg := engine.SyncConfig{
		Mode:      app.Settings.SourceMode,
		LocalPath: app.Settings.LocalPath,
		WebURL:    app.Settings.SourceURL,
		WebUser:   app.Settings.Username,
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompCLI)
		}
	}
	return cfg
}

// importEntries pulls the configured source and merges it into the stored history.
// It returns the number of imported periods and whether the result was saved.
func (app *App) importEntries(ctx context.Context) (int, bool, error) {
	im := &engine.Importer{Fetcher: app.Fetcher, NewID: app.newID()}
	imported, err := im.Import(ctx, app.loadSyncConfig())
	if err != nil {
		slog.Error(config.MsgImportFailed,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyError, err)
		return 0, false, err
	}

	merged := engine.MergeEntries(app.Store.Load(ctx), imported, app.newID())
	return len(imported), app.Store.Save(ctx, merged), nil
}

// buildFeed renders the stored entries as iCalendar data.
func (app *App) buildFeed(ctx context.Context, entries []engine.PeriodEntry) ([]byte, error) {
	gen := &engine.FeedGenerator{
		Clock:         app.Clock,
		FormatSummary: app.summaryFormatter(),
	}
	ics, err := gen.Build(ctx, entries, app.Settings.ReminderTrigger())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFeedBuild, err)
	}
	return ics, nil
}

// performRefresh rebuilds the feed and insights and hands them to pub.
func (app *App) performRefresh(ctx context.Context, pub FeedPublisher, withImport bool) error {
	slog.Info(config.MsgRefreshReq,
		config.LogKeyComponent, config.CompWorker)

	if withImport {
		// An unreachable source must not stop the feed from being published.
		_, _, _ = app.importEntries(ctx)
	}

	entries := app.Store.Load(ctx)
	ics, err := app.buildFeed(ctx, entries)
	if err != nil {
		return err
	}

	insights, err := json.Marshal(engine.BuildInsights(entries, app.Today()))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrInsightsEncode, err)
	}

	pub.Update(ics)
	pub.UpdateInsights(insights)
	return nil
}

// Refresh rebuilds the published payloads, importing first when a source is configured.
func (app *App) Refresh(ctx context.Context, pub FeedPublisher) error {
	return app.performRefresh(ctx, pub, app.Settings.SourceMode != config.SourceModeNone)
}

// backgroundWorker refreshes the published payloads every refresh interval
// until ctx is cancelled.
func (app *App) backgroundWorker(ctx context.Context, pub FeedPublisher) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	refresh := func() {
		if err := app.Refresh(ctx, pub); err != nil {
			log.Error(config.MsgRefreshFailed, config.LogKeyError, err)
		}
	}
	refresh()

	interval := time.Duration(app.Settings.RefreshInterval) * time.Minute
	if interval <= 0 {
		interval = config.DefaultRefreshMin * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// summaryFormatter returns a closure that localizes feed event titles.
func (app *App) summaryFormatter() func(kind engine.EventKind, index int) string {
	return func(kind engine.EventKind, index int) string {
		if app.Translator == nil {
			return ""
		}
		var msg, key string
		if kind == engine.EventPredicted {
			key = config.TKeyEvtPredicted
			msg = app.Translator.MsgData(key, map[string]any{"Index": index})
		} else {
			key = config.TKeyEvtLogged
			msg = app.Translator.Msg(key)
		}
		if msg == key {
			// Missing translation: let the generator use its fallback.
			return ""
		}
		return msg
	}
}

// formatLongDate renders a date for humans using the locale's layout.
func (app *App) formatLongDate(t time.Time) string {
	layout := app.Translator.Msg(config.TKeyFormatDate)
	if layout == config.TKeyFormatDate {
		layout = config.DateFormat
	}
	return t.Format(layout)
}
