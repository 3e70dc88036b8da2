package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/treesum-dev/treesum/internal/stats"
)

// plainPresenter prints one line per hashed file when verbose, plus periodic
// progress. On a TTY the progress line is rewritten in place; otherwise a
// fresh line goes to stderr every few seconds.
type plainPresenter struct {
	w          io.Writer
	errW       io.Writer
	stats      *stats.Collector
	root       string
	verbose    bool
	isTTY      bool
	noProgress bool

	ticks       int
	progressive bool // a \r progress line is currently displayed
}

func (p *plainPresenter) Run(events <-chan Event) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearProgress()
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
			p.ticks++
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	if !p.verbose {
		return
	}
	p.clearProgress()
	switch ev.Type {
	case ScanComplete:
		fmt.Fprintf(p.errW, "scanned %s files (%s)\n",
			FormatCount(ev.Total), FormatBytes(ev.TotalSize))
	case FileHashed:
		fmt.Fprintf(p.w, "%s  %s\n", ev.Hash, ev.Path)
	case FileFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.errW, "failed: %s: %s\n", ev.Path, errMsg)
	case FileSkipped:
		fmt.Fprintf(p.errW, "skipped: %s\n", ev.Path)
	}
}

func (p *plainPresenter) printProgress() {
	if p.noProgress {
		return
	}
	// Non-TTY output gets a line every 5s instead of a rewrite every 1s.
	if !p.isTTY && p.ticks%5 != 0 {
		return
	}

	snap := p.stats.Snapshot()
	var line string
	if snap.BytesTotal > 0 {
		pct := float64(snap.BytesHashed) / float64(snap.BytesTotal) * 100
		line = fmt.Sprintf("hashing: %.0f%% %s/%s %s/%s files %s eta %s",
			pct,
			FormatBytes(snap.BytesHashed), FormatBytes(snap.BytesTotal),
			FormatCount(snap.FilesHashed), FormatCount(snap.FilesTotal),
			FormatRate(p.stats.RollingSpeed(10)),
			FormatETA(p.stats.ETA()),
		)
	} else {
		line = fmt.Sprintf("hashing: %s in %s files",
			FormatBytes(snap.BytesHashed), FormatCount(snap.FilesHashed))
	}

	if p.isTTY {
		fmt.Fprintf(p.errW, "\r\x1b[K%s", line)
		p.progressive = true
	} else {
		fmt.Fprintln(p.errW, line)
	}
}

// clearProgress erases an in-place progress line before other output.
func (p *plainPresenter) clearProgress() {
	if p.progressive {
		fmt.Fprint(p.errW, "\r\x1b[K")
		p.progressive = false
	}
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
