// Package broadcast binds the daily broadcast triggers to the dispatcher.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"zonajp/internal/content"
	"zonajp/internal/dispatch"
	"zonajp/internal/domain"

	"github.com/robfig/cron/v3"
)

// Trigger is one scheduled broadcast: a cron spec, where it goes and what it says.
type Trigger struct {
	Name        string
	Spec        string
	Destination dispatch.Destination
	Text        string
}

// Sender is the part of the dispatcher the triggers need.
type Sender interface {
	Send(ctx context.Context, dest dispatch.Destination, text string, opts ...dispatch.Option) dispatch.Result
}

// DefaultTriggers returns the three daily broadcasts from cat:
// 09:00 pola to the topic, 12:00 promo and 19:00 bukti to the community.
func DefaultTriggers(cat *content.Catalog) []Trigger {
	b := cat.Broadcasts
	return []Trigger{
		{Name: "pola-harian", Spec: b.PolaHarian.Spec, Destination: dispatch.Topic, Text: b.PolaHarian.Text},
		{Name: "promo-siang", Spec: b.PromoSiang.Spec, Destination: dispatch.Community, Text: b.PromoSiang.Text},
		{Name: "bukti-cuan", Spec: b.BuktiCuan.Spec, Destination: dispatch.Community, Text: b.BuktiCuan.Text},
	}
}

// Register schedules every trigger on s. Each run makes exactly one
// dispatcher call under ctx and logs the result.
func Register(ctx context.Context, s domain.Scheduler, d Sender, triggers []Trigger, logger *slog.Logger) error {
	for _, t := range triggers {
		if err := s.Schedule(t.Name, t.Spec, job(ctx, d, t, logger)); err != nil {
			return err
		}
		logger.Info("broadcast scheduled", "trigger", t.Name, "spec", t.Spec, "destination", t.Destination)
	}
	return nil
}

func job(ctx context.Context, d Sender, t Trigger, logger *slog.Logger) func() {
	return func() {
		res := d.Send(ctx, t.Destination, t.Text)
		logResult(logger, t, res)
	}
}

func logResult(logger *slog.Logger, t Trigger, res dispatch.Result) {
	switch res.Status {
	case dispatch.StatusSent:
		logger.Info("broadcast sent", "trigger", t.Name, "destination", t.Destination)
	case dispatch.StatusSkipped:
		logger.Info("broadcast skipped: destination not configured", "trigger", t.Name, "destination", t.Destination)
	default:
		logger.Warn("broadcast failed", "trigger", t.Name, "destination", t.Destination, "err", res.Err)
	}
}

// Find returns the trigger called name.
func Find(triggers []Trigger, name string) (Trigger, bool) {
	for _, t := range triggers {
		if t.Name == name {
			return t, true
		}
	}
	return Trigger{}, false
}

// Fire runs the named trigger now, outside its schedule.
func Fire(ctx context.Context, d Sender, triggers []Trigger, name string, logger *slog.Logger) (dispatch.Result, error) {
	t, ok := Find(triggers, name)
	if !ok {
		return dispatch.Result{}, fmt.Errorf("unknown trigger %q", name)
	}
	res := d.Send(ctx, t.Destination, t.Text)
	logResult(logger, t, res)
	return res, nil
}

// Upcoming is the next fire time of a trigger.
type Upcoming struct {
	Trigger Trigger
	Next    time.Time
}

// Next computes the next fire time of each trigger after from, evaluated in
// loc, sorted by time.
func Next(triggers []Trigger, loc *time.Location, from time.Time) ([]Upcoming, error) {
	out := make([]Upcoming, 0, len(triggers))
	for _, t := range triggers {
		sched, err := cron.ParseStandard(t.Spec)
		if err != nil {
			return nil, fmt.Errorf("trigger %s: %w", t.Name, err)
		}
		out = append(out, Upcoming{Trigger: t, Next: sched.Next(from.In(loc))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Next.Before(out[j].Next) })
	return out, nil
}
