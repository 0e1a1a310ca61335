package sink

import (
	"fmt"
	"time"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Pruner removes old images from a sink on a cron schedule.
type Pruner struct {
	cron   *cron.Cron
	sink   contract.ByteSink
	maxAge time.Duration
}

// NewPruner registers a prune job for schedule, which accepts five-field cron specs and
// descriptors such as "@hourly" or "@every 30m".
func NewPruner(sink contract.ByteSink, schedule string, maxAge time.Duration) (*Pruner, error) {
	p := &Pruner{cron: cron.New(), sink: sink, maxAge: maxAge}
	if _, err := p.cron.AddFunc(schedule, p.RunNow); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Start starts the scheduler in the background.
func (p *Pruner) Start() {
	p.cron.Start()
	log.Info().Dur("max_age", p.maxAge).Msg("image pruner started")
}

// Stop stops the scheduler and waits for a running prune to finish.
func (p *Pruner) Stop() {
	<-p.cron.Stop().Done()
	log.Info().Msg("image pruner stopped")
}

// RunNow prunes once.
func (p *Pruner) RunNow() {
	n, err := p.sink.Prune(p.maxAge)
	if err != nil {
		log.Error().Err(err).Int("removed", n).Msg("image prune failed")
		return
	}
	log.Debug().Int("removed", n).Msg("image prune finished")
}
