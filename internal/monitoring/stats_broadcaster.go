package monitoring

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saiinfotech/catalog-be/internal/models"
	"github.com/saiinfotech/catalog-be/internal/services"
	"github.com/saiinfotech/catalog-be/internal/websocket"
)

// StatsBroadcaster periodically recomputes the aggregate stock counts and
// pushes them to connected dashboards when they change.
type StatsBroadcaster struct {
	productSvc services.ProductServiceProvider
	hub        *websocket.Hub
	ticker     *time.Ticker
	done       chan bool
	last       *models.ProductStats
}

// NewStatsBroadcaster creates a new StatsBroadcaster.
func NewStatsBroadcaster(productSvc services.ProductServiceProvider, hub *websocket.Hub) *StatsBroadcaster {
	return &StatsBroadcaster{
		productSvc: productSvc,
		hub:        hub,
		done:       make(chan bool),
	}
}

// Run starts the periodic updates.
func (sb *StatsBroadcaster) Run() {
	log.Info().Msg("Starting background stats broadcaster...")
	sb.ticker = time.NewTicker(15 * time.Second)
	defer sb.ticker.Stop()

	// Run once immediately on start
	sb.broadcastIfChanged()

	for {
		select {
		case <-sb.done:
			log.Info().Msg("Stopping background stats broadcaster.")
			return
		case <-sb.ticker.C:
			sb.broadcastIfChanged()
		}
	}
}

// Stop halts the periodic updates.
func (sb *StatsBroadcaster) Stop() {
	sb.done <- true
}

func (sb *StatsBroadcaster) broadcastIfChanged() {
	stats, err := sb.productSvc.GetProductStats()
	if err != nil {
		log.Error().Err(err).Msg("StatsBroadcaster: Failed to compute product stats")
		return
	}

	if sb.last != nil && *sb.last == stats {
		return
	}
	sb.last = &stats
	sb.hub.BroadcastStats(stats)
}
