// Package engine builds manifests by walking a directory tree and hashing
// every regular file it contains.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/treesum-dev/treesum/internal/checksum"
	"github.com/treesum-dev/treesum/internal/event"
	"github.com/treesum-dev/treesum/internal/filter"
	"github.com/treesum-dev/treesum/internal/manifest"
	"github.com/treesum-dev/treesum/internal/stats"
)

// Config controls a manifest build.
type Config struct {
	Root      string
	Algorithm checksum.Algorithm
	Workers   int
	Filter    *filter.Chain
	Events    chan<- event.Event
	Stats     stats.Writer
}

// Result holds the outcome of a build. Files that could not be read are
// excluded from the manifest and recorded in Errors, so a partial read
// failure never goes unreported.
type Result struct {
	Manifest *manifest.Manifest
	Hashed   int64
	Failed   int64
	Errors   []FileError
}

// FileError records a file excluded from the manifest.
type FileError struct {
	RelPath string
	Err     error
}

// fileTask is one regular file queued for hashing.
type fileTask struct {
	absPath string
	relPath string
	size    int64
}

// Build walks cfg.Root, hashes every regular file, and returns the manifest.
// Symlinks are never followed; they and other non-regular entries are skipped
// uniformly. The manifest is identical regardless of worker count or hash
// completion order. Returns ErrNotFound (wrapped) when the root is missing
// or not a directory.
func Build(ctx context.Context, cfg Config) (Result, error) {
	root, err := validateRoot(cfg.Root)
	if err != nil {
		return Result{}, err
	}

	if cfg.Algorithm == "" {
		cfg.Algorithm = checksum.Default
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 8)
	}

	emit(cfg.Events, event.Event{Type: event.ScanStarted, Path: root})

	files, err := collectFiles(ctx, root, cfg)
	if err != nil {
		return Result{}, err
	}

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.size
	}
	cfg.Stats.SetTotals(int64(len(files)), totalBytes)
	emit(cfg.Events, event.Event{
		Type:      event.ScanComplete,
		Total:     int64(len(files)),
		TotalSize: totalBytes,
	})

	result := hashFiles(ctx, files, cfg, workers)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return result, nil
}

// collectFiles walks the tree and returns every regular file to hash.
// Unreadable directories are logged and skipped; the walk itself only fails
// on errors at the root.
func collectFiles(ctx context.Context, root string, cfg Config) ([]fileTask, error) {
	conf := fastwalk.Config{
		Follow: false, // symlinks are skipped, never followed
	}

	var mu sync.Mutex
	var files []fileTask

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			slog.Warn("scan error, skipping", "path", path, "error", err)
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			slog.Warn("relative path, skipping", "path", path, "error", relErr)
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if cfg.Filter != nil && !cfg.Filter.Match(relPath, true, 0) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			cfg.Stats.AddFilesSkipped(1)
			emit(cfg.Events, event.Event{Type: event.FileSkipped, Path: relPath})
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			slog.Warn("stat failed, skipping", "path", relPath, "error", infoErr)
			cfg.Stats.AddFilesSkipped(1)
			emit(cfg.Events, event.Event{Type: event.FileSkipped, Path: relPath, Error: infoErr})
			return nil
		}

		if cfg.Filter != nil && !cfg.Filter.Match(relPath, false, info.Size()) {
			cfg.Stats.AddFilesSkipped(1)
			emit(cfg.Events, event.Event{Type: event.FileSkipped, Path: relPath})
			return nil
		}

		mu.Lock()
		files = append(files, fileTask{absPath: path, relPath: relPath, size: info.Size()})
		mu.Unlock()
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	return files, nil
}

// hashFiles fans the collected files out to a worker pool and assembles the
// manifest. A file that cannot be read is logged, counted, and excluded.
func hashFiles(ctx context.Context, files []fileTask, cfg Config, workers int) Result {
	taskCh := make(chan fileTask, workers*2)

	var mu sync.Mutex
	m := manifest.New()
	result := Result{}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				select {
				case <-ctx.Done():
					return
				default:
				}

				digest, err := checksum.File(task.absPath, cfg.Algorithm)
				if err != nil {
					slog.Warn("unreadable file excluded from manifest",
						"path", task.relPath, "error", err)
					mu.Lock()
					result.Failed++
					result.Errors = append(result.Errors, FileError{RelPath: task.relPath, Err: err})
					mu.Unlock()
					cfg.Stats.AddFilesFailed(1)
					emit(cfg.Events, event.Event{
						Type:  event.FileFailed,
						Path:  task.relPath,
						Size:  task.size,
						Error: err,
					})
					continue
				}

				mu.Lock()
				addErr := m.Add(task.relPath, digest)
				if addErr == nil {
					result.Hashed++
				}
				mu.Unlock()
				cfg.Stats.AddFilesHashed(1)
				cfg.Stats.AddBytesHashed(task.size)
				emit(cfg.Events, event.Event{
					Type: event.FileHashed,
					Path: task.relPath,
					Size: task.size,
					Hash: digest,
				})
			}
		}()
	}

feed:
	for _, f := range files {
		select {
		case <-ctx.Done():
			break feed
		case taskCh <- f:
		}
	}
	close(taskCh)
	wg.Wait()

	result.Manifest = m
	return result
}

// validateRoot resolves the scan root to an absolute path and verifies it
// is an existing directory.
func validateRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("root %s: %w", root, manifest.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root %s is not a directory: %w", root, manifest.ErrNotFound)
	}
	return abs, nil
}

func emit(ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
