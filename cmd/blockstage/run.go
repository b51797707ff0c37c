package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-blockstage/internal/engine"
	"github.com/vovakirdan/tui-blockstage/internal/feed"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
	"github.com/vovakirdan/tui-blockstage/internal/storage"
)

var (
	flagListen   string
	flagKeep     bool
	flagTimeout  time.Duration
	flagNoRecord bool
)

var runCmd = &cobra.Command{
	Use:   "run <project>",
	Short: "Run a project headless",
	Long: `Load a project file (YAML or JSON), start every actor that has a program
and tick until all of them are idle. Ctrl+C stops everything.

Every change to an actor is logged at debug level. With --listen, a
websocket feed at /feed streams the same changes as JSON; clients can send
{"op":"play"} or {"op":"stop"}. With --keep the command stays up after the
actors finish so feed clients can play again.

The run is recorded to the history database unless --no-record is set.

Examples:
  blockstage run examples/swap.yaml
  blockstage run examples/swap.yaml --speed 2
  blockstage run examples/swap.yaml --listen :8080 --keep`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagListen, "listen", "", "Websocket feed address (default from config)")
	runCmd.Flags().BoolVar(&flagKeep, "keep", false, "Keep running after the actors finish")
	runCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Stop everything after this long (0 = no limit)")
	runCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not record the run")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := cfg.NewLogger(os.Stderr, "blockstage")

	file := loadProject(args[0])
	store := newStage(cfg, file)

	unsubscribe := store.Subscribe(func(ev stage.Event) {
		logger.Debug("actor", "id", ev.ActorID, "changed", ev.Changed, "x", ev.Actor.Position.X, "y", ev.Actor.Position.Y)
	})
	defer unsubscribe()

	opts := cfg.EngineOptions(logger)
	if !flagNoRecord {
		if runs := openHistory(cfg, logger); runs != nil {
			defer runs.Close()
			opts.Recorder = runs.Recorder(file.Name, func(r storage.RunRecord) {
				logger.Info("run recorded", "run", r.RunID, "outcome", r.Outcome)
			})
		}
	}
	rt := engine.NewRuntime(store, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagTimeout)
		defer cancel()
	}

	listen := flagListen
	if listen == "" {
		listen = cfg.Server.FeedListen
	}

	if err := serveRun(ctx, rt, listen, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printActors(store.Actors())
}

// serveRun plays the stage and, when listen is set, serves the feed
// alongside it. It returns when the actors are idle (or ctx ends with
// --keep), after the feed server has shut down.
func serveRun(ctx context.Context, rt *engine.Runtime, listen string, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if listen != "" {
		hub := feed.NewHub(rt.Store(), rt, logger)
		mux := http.NewServeMux()
		mux.Handle("/feed", hub)
		srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		g.Go(func() error {
			logger.Info("feed listening", "address", listen, "path", "/feed")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("feed server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			hub.Close()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		// Ends the feed goroutines once the stage is done
		defer cancel()

		if n := rt.PlayAll(); n == 0 {
			logger.Warn("no actor has a program")
		}
		if flagKeep {
			return ignoreCancel(rt.Run(gctx))
		}
		return ignoreCancel(rt.RunUntilIdle(gctx))
	})

	return g.Wait()
}

// ignoreCancel treats Ctrl+C, timeout and normal shutdown as success.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func printActors(actors []stage.Actor) {
	fmt.Println()
	fmt.Printf("  %-12s  %8s  %8s  %7s  %5s  %s\n", "Actor", "X", "Y", "Heading", "Size", "Color")
	fmt.Printf("  %-12s  %8s  %8s  %7s  %5s  %s\n", "-----", "-", "-", "-------", "----", "-----")
	for _, a := range actors {
		fmt.Printf("  %-12s  %8.1f  %8.1f  %7.1f  %5.0f  %s\n",
			a.Name, a.Position.X, a.Position.Y, a.Heading, a.Size, a.Color)
	}
}
