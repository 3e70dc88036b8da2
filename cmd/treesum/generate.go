package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/treesum-dev/treesum/internal/checksum"
	"github.com/treesum-dev/treesum/internal/config"
	"github.com/treesum-dev/treesum/internal/engine"
	"github.com/treesum-dev/treesum/internal/event"
	"github.com/treesum-dev/treesum/internal/filter"
	"github.com/treesum-dev/treesum/internal/manifest"
	"github.com/treesum-dev/treesum/internal/stats"
	"github.com/treesum-dev/treesum/internal/ui"
)

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "string" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

var (
	genWorkers    int
	genAlgorithm  string
	genVerbose    bool
	genQuiet      bool
	genNoProgress bool
	genFilterFile string
	genMinSize    string
	genMaxSize    string
	genLogFile    string
	genChain      = filter.NewChain()
)

var generateCmd = &cobra.Command{
	Use:   "generate <directory> <manifest>",
	Short: "Walk a directory tree and write a content-hash manifest",
	Long: `Walk a directory tree, hash every regular file, and write a manifest
listing each file's hash and root-relative path, one per line, sorted by path.

Symlinks are never followed. Files that cannot be read are reported and left
out of the manifest; generation still succeeds.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	generateCmd.Flags().
		IntVarP(&genWorkers, "workers", "n", 0, "number of hashing workers (default: min(NumCPU, 8))")
	generateCmd.Flags().
		StringVar(&genAlgorithm, "algorithm", "", "hash algorithm: blake3, md5, or sha256 (default: blake3)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "print each hashed file")
	generateCmd.Flags().BoolVarP(&genQuiet, "quiet", "q", false, "suppress all output except errors")
	generateCmd.Flags().BoolVar(&genNoProgress, "no-progress", false, "disable progress display")
	generateCmd.Flags().
		Var(&filterFlag{chain: genChain, include: false}, "exclude", "exclude files matching PATTERN (repeatable)")
	generateCmd.Flags().
		Var(&filterFlag{chain: genChain, include: true}, "include", "include files matching PATTERN (repeatable)")
	generateCmd.Flags().StringVar(&genFilterFile, "filter", "", "read filter rules from FILE")
	generateCmd.Flags().
		StringVar(&genMinSize, "min-size", "", "skip files smaller than SIZE (e.g. 1M, 100K)")
	generateCmd.Flags().
		StringVar(&genMaxSize, "max-size", "", "skip files larger than SIZE (e.g. 1G, 500M)")
	generateCmd.Flags().StringVar(&genLogFile, "log", "", "write structured JSON log to FILE")
}

//nolint:gocyclo,revive // cyclomatic: flag parsing + wiring is irreducible
func runGenerate(cmd *cobra.Command, args []string) error {
	root, outPath := args[0], args[1]

	// Load optional config file and apply defaults for flags not set on CLI.
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "error", err)
	}
	applyConfigDefaults(cmd, cfg.Defaults)

	algo := checksum.Default
	if genAlgorithm != "" {
		algo, err = checksum.ParseAlgorithm(genAlgorithm)
		if err != nil {
			return fmt.Errorf("invalid --algorithm: %w", err)
		}
	}

	// Configure logging.
	logLevel := slog.LevelWarn
	if genVerbose {
		logLevel = slog.LevelDebug
	} else if !genQuiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	var logHandler slog.Handler = textHandler
	if genLogFile != "" {
		lf, lfErr := os.Create(genLogFile)
		if lfErr != nil {
			return fmt.Errorf("open log file: %w", lfErr)
		}
		defer lf.Close()
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))

	// Load filter file if specified.
	if genFilterFile != "" {
		if err := genChain.LoadFile(genFilterFile); err != nil {
			return fmt.Errorf("load filter file: %w", err)
		}
	}

	// Parse size filters.
	if genMinSize != "" {
		n, err := filter.ParseSize(genMinSize)
		if err != nil {
			return fmt.Errorf("invalid --min-size: %w", err)
		}
		genChain.SetMinSize(n)
	}
	if genMaxSize != "" {
		n, err := filter.ParseSize(genMaxSize)
		if err != nil {
			return fmt.Errorf("invalid --max-size: %w", err)
		}
		genChain.SetMaxSize(n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine that writes
	// structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if genLogFile != "" {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				attrs := []slog.Attr{
					slog.String("type", ev.Type.String()),
					slog.String("path", ev.Path),
					slog.Int64("size", ev.Size),
				}
				if ev.Hash != "" {
					attrs = append(attrs, slog.String("hash", ev.Hash))
				}
				if ev.Error != nil {
					attrs = append(attrs, slog.String("error", ev.Error.Error()))
				}
				slog.LogAttrs(context.Background(), slog.LevelInfo, "treesum.event", attrs...)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:     os.Stdout,
		ErrWriter:  os.Stderr,
		Stats:      collector,
		Root:       root,
		IsTTY:      ui.IsTTY(os.Stderr.Fd()),
		Quiet:      genQuiet,
		Verbose:    genVerbose,
		NoProgress: genNoProgress,
	})

	engineCfg := engine.Config{
		Root:      root,
		Algorithm: algo,
		Workers:   genWorkers,
		Events:    events,
		Stats:     collector,
	}
	if !genChain.Empty() {
		engineCfg.Filter = genChain
	}

	slog.Debug("starting build",
		"root", root,
		"manifest", outPath,
		"algorithm", string(algo),
		"workers", genWorkers,
	)

	// Run presenter in background, engine in foreground.
	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	res, buildErr := engine.Build(ctx, engineCfg)
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
	}

	if buildErr != nil {
		slog.Error("build failed", "error", buildErr)
		return &exitError{code: 2}
	}

	if err := manifest.WriteFile(outPath, res.Manifest); err != nil {
		slog.Error("write manifest failed", "error", err)
		return &exitError{code: 2}
	}

	if !genQuiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(os.Stderr, summary)
		}
	}

	if res.Failed > 0 {
		slog.Warn("some files could not be read and were left out of the manifest",
			"count", res.Failed)
	}

	return nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig) {
	if !cmd.Flags().Changed("workers") && defaults.Workers != nil {
		genWorkers = *defaults.Workers
	}
	if !cmd.Flags().Changed("algorithm") && defaults.Algorithm != nil {
		genAlgorithm = *defaults.Algorithm
	}
	if !cmd.Flags().Changed("no-progress") && defaults.NoProgress != nil {
		genNoProgress = *defaults.NoProgress
	}
}
