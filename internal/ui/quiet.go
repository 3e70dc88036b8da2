package ui

import "github.com/treesum-dev/treesum/internal/stats"

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events {
		// Counters are written by the engine; presenters only read them.
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
