package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-cycle/internal/config"
)

// EventKind distinguishes logged periods from forecast windows in the feed.
type EventKind int

const (
	EventLogged EventKind = iota
	EventPredicted
)

// FeedGenerator renders the entry collection as an iCalendar feed.
type FeedGenerator struct {
	Clock Clock // Interface for time mocking; only stamps DTSTAMP.

	// FormatSummary allows the caller to inject localized event titles.
	// index is 1-based for predicted events and 0 for logged ones.
	FormatSummary func(kind EventKind, index int) string
}

// Build produces the ICS document: one all-day event per logged period and one
// per predicted window (next config.PredictionHorizon). reminderTrigger, when set,
// adds a DISPLAY alarm to predicted events.
func (g *FeedGenerator) Build(ctx context.Context, entries []PeriodEntry, reminderTrigger string) ([]byte, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		var buf bytes.Buffer
		// A valid empty VCALENDAR keeps subscribed clients from flagging the feed as broken.
		buf.WriteString(config.StubVCalendar)
		g.logSuccess(0, 0)
		return buf.Bytes(), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(g.now().UTC())

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		uid := fmt.Sprintf(config.FormatUID, e.ID, config.ICalDomain)
		event := newDayEvent(uid, g.summary(EventLogged, 0), e.StartDate, e.End())
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
	}

	periodLength := AveragePeriodLength(entries)
	predictions := PredictNextPeriods(entries, config.PredictionHorizon)
	for i, predStart := range predictions {
		summary := g.summary(EventPredicted, i+1)
		event := newDayEvent(predictedUID(predStart), summary, predStart, predStart.AddDate(0, 0, periodLength-1))
		event.Props.SetText(config.PropTransp, config.TranspTransparent)
		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(len(entries), len(predictions))
	slog.Debug("Feed built",
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func (g *FeedGenerator) now() time.Time {
	if g.Clock == nil {
		return RealClock{}.Now()
	}
	return g.Clock.Now()
}

func (g *FeedGenerator) summary(kind EventKind, index int) string {
	if g.FormatSummary != nil {
		if s := g.FormatSummary(kind, index); s != "" {
			return s
		}
	}
	if kind == EventPredicted {
		return fmt.Sprintf(config.FallbackSummaryPredicted, index)
	}
	return config.FallbackSummaryLogged
}

func (g *FeedGenerator) logSuccess(logged, predicted int) {
	slog.Info(config.MsgFeedSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyLogged, logged),
			slog.Int(config.LogKeyPredicted, predicted),
		),
	)
}

// newDayEvent builds an all-day event covering [first, last]. DTEND is exclusive.
func newDayEvent(uid, summary string, first, last time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropCategories, config.ICalCategory)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDate(DateOnly(first))
	event.Props.Set(dtStart)

	dtEnd := ical.NewProp(config.PropDTEnd)
	dtEnd.SetDate(AddDays(last, 1))
	event.Props.Set(dtEnd)

	return event
}

// predictedUID is stable for a given predicted start so that calendar clients
// update rather than duplicate a window across refreshes.
func predictedUID(start time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, config.UIDSalt, FormatDate(start))
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatPredUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
