// Package ui renders build progress and summaries for the command line.
package ui

import (
	"io"

	"github.com/treesum-dev/treesum/internal/event"
	"github.com/treesum-dev/treesum/internal/stats"
)

// Event is the progress event consumed by presenters.
type Event = event.Event

// Re-export event types for convenience.
const (
	ScanStarted  = event.ScanStarted
	ScanComplete = event.ScanComplete
	FileHashed   = event.FileHashed
	FileFailed   = event.FileFailed
	FileSkipped  = event.FileSkipped
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer     io.Writer
	ErrWriter  io.Writer
	Stats      *stats.Collector
	Root       string
	IsTTY      bool
	Quiet      bool
	Verbose    bool
	NoProgress bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{stats: cfg.Stats}
	}
	return &plainPresenter{
		w:          cfg.Writer,
		errW:       cfg.ErrWriter,
		stats:      cfg.Stats,
		root:       cfg.Root,
		verbose:    cfg.Verbose,
		isTTY:      cfg.IsTTY,
		noProgress: cfg.NoProgress,
	}
}
