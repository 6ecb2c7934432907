package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/saiinfotech/catalog-be/internal/services"
)

// EventPruner removes audit events past their retention window on a cron
// schedule.
type EventPruner struct {
	eventSvc services.EventServiceProvider
	schedule cron.Schedule
	maxAge   time.Duration
	ticker   *time.Ticker
	done     chan bool
	nextRun  time.Time
}

// NewEventPruner creates a pruner from a standard 5-field cron expression and
// a retention window in days.
func NewEventPruner(eventSvc services.EventServiceProvider, cronExpr string, retentionDays int) (*EventPruner, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &EventPruner{
		eventSvc: eventSvc,
		schedule: schedule,
		maxAge:   time.Duration(retentionDays) * 24 * time.Hour,
		done:     make(chan bool),
		nextRun:  schedule.Next(time.Now()),
	}, nil
}

// Run starts the pruner's ticking loop.
func (p *EventPruner) Run() {
	log.Info().Time("next_run", p.nextRun).Msg("Starting event retention pruner...")
	p.ticker = time.NewTicker(1 * time.Minute)
	defer p.ticker.Stop()

	for {
		select {
		case <-p.done:
			log.Info().Msg("Stopping event retention pruner.")
			return
		case <-p.ticker.C:
			now := time.Now()
			if now.After(p.nextRun) {
				p.prune(now)
				p.nextRun = p.schedule.Next(now)
			}
		}
	}
}

// Stop halts the pruner.
func (p *EventPruner) Stop() {
	p.done <- true
}

func (p *EventPruner) prune(now time.Time) {
	cutoff := now.Add(-p.maxAge).UTC()
	deleted, err := p.eventSvc.PruneOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("EventPruner: Failed to prune old events")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Pruned old audit events")
	}
}
