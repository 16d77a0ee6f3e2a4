// Package utils holds small helpers shared by the commands.
package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// SlowPhase is the duration above which a phase is logged as a warning.
const SlowPhase = 30 * time.Second

// Phases measures consecutive named steps of a run
type Phases struct {
	start     time.Time
	last      time.Time
	names     []string
	durations []time.Duration
	log       zerolog.Logger
}

// NewPhases starts measuring now
func NewPhases(log zerolog.Logger) *Phases {
	now := time.Now()
	return &Phases{start: now, last: now, log: log}
}

// Mark ends the current phase under name and starts the next one.
func (p *Phases) Mark(name string) time.Duration {
	now := time.Now()
	d := now.Sub(p.last)
	p.last = now
	p.names = append(p.names, name)
	p.durations = append(p.durations, d)

	p.log.Debug().Str("phase", name).Dur("duration", d).Msg("Phase completed")
	if d > SlowPhase {
		p.log.Warn().Str("phase", name).Dur("duration", d).Msg("Slow phase detected")
	}
	return d
}

// Get returns the duration recorded for name, zero if it was never marked
func (p *Phases) Get(name string) time.Duration {
	for i, n := range p.names {
		if n == name {
			return p.durations[i]
		}
	}
	return 0
}

// Total is the time since NewPhases
func (p *Phases) Total() time.Duration {
	return time.Since(p.start)
}

// Dict renders every marked phase plus the total as a log dictionary
func (p *Phases) Dict() *zerolog.Event {
	dict := zerolog.Dict()
	for i, name := range p.names {
		dict = dict.Dur(name, p.durations[i])
	}
	return dict.Dur("total", p.Total())
}
