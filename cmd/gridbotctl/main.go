package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"gridbot/internal/model"
	"gridbot/internal/scape"
	"gridbot/internal/storage"
	"gridbot/internal/view"
	"gridbot/pkg/gridbot"
)

const (
	exportsDir    = "exports"
	defaultDBPath = "gridbot.db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type storeFlags struct {
	kind   *string
	dbPath *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		kind:   fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath: fs.String("db-path", defaultDBPath, "sqlite database path"),
	}
}

func (s storeFlags) client() (*gridbot.Client, error) {
	return gridbot.New(gridbot.Options{
		StoreKind:  *s.kind,
		DBPath:     *s.dbPath,
		ExportsDir: exportsDir,
	})
}

type refFlags struct {
	runID  *string
	latest *bool
}

func addRefFlags(fs *flag.FlagSet, verb string) refFlags {
	return refFlags{
		runID:  fs.String("run-id", "", "run id"),
		latest: fs.Bool("latest", false, verb+" the most recent stored run"),
	}
}

func (r refFlags) ref(command string) (gridbot.RunRef, error) {
	if *r.runID != "" && *r.latest {
		return gridbot.RunRef{}, errors.New("use either --run-id or --latest, not both")
	}
	if *r.runID == "" && !*r.latest {
		return gridbot.RunRef{}, fmt.Errorf("%s requires --run-id or --latest", command)
	}
	return gridbot.RunRef{RunID: *r.runID, Latest: *r.latest}, nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config path (.json or .toml)")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	outDir := fs.String("out", "", "also export chart and tables to this directory")
	quiet := fs.Bool("quiet", false, "only log warnings and errors")
	store := addStoreFlags(fs)
	overrides := addConfigFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveRunConfig(fs, *configPath, overrides)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, *quiet)

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	logger.Info("starting run",
		"grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"rewards", cfg.Rewards,
		"population", cfg.PopulationSize,
		"survivors", cfg.SurvivorCount,
		"generations", cfg.Generations,
		"seed", cfg.Seed,
		"selection", cfg.Selection,
	)
	started := time.Now()
	summary, err := client.Run(ctx, gridbot.RunRequest{
		RunID:  *runID,
		Config: cfg,
		OnGeneration: func(d model.GenerationDiagnostics) {
			logger.Info("generation",
				"gen", d.Generation,
				"best", d.BestScore,
				"mean", fmt.Sprintf("%.3f", d.MeanScore),
				"stddev", fmt.Sprintf("%.3f", d.StdDevScore),
				"distinct", d.DistinctGenomes,
			)
		},
	})
	if err != nil {
		return err
	}
	logger.Info("run finished", "run_id", summary.RunID, "elapsed", time.Since(started).Round(time.Millisecond))

	fmt.Printf("run_id=%s generations=%d best_score=%.6f final_score=%.6f evaluations=%s\n",
		summary.RunID,
		len(summary.BestByGeneration),
		summary.BestScore,
		summary.FinalScore,
		humanize.Comma(int64(summary.Evaluations)),
	)

	if *outDir != "" {
		exported, err := client.Export(ctx, gridbot.ExportRequest{
			RunRef: gridbot.RunRef{RunID: summary.RunID},
			OutDir: *outDir,
		})
		if err != nil {
			return err
		}
		fmt.Printf("exported run_id=%s to=%s\n", exported.RunID, exported.Directory)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, gridbot.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(os.Stdout, runs)
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("run_id=%s created=%s seed=%d pop=%s gens=%d best_score=%.6f final_score=%.6f\n",
			r.RunID,
			relativeTime(r.CreatedAtUTC),
			r.Seed,
			humanize.Comma(int64(r.Population)),
			r.Generations,
			r.BestScore,
			r.FinalScore,
		)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	ref := addRefFlags(fs, "show fitness history for")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit fitness history as JSON")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	runRef, err := ref.ref("fitness")
	if err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, gridbot.HistoryRequest{RunRef: runRef, Limit: max(*limit, 0)})
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(os.Stdout, history)
	}
	if len(history) == 0 {
		fmt.Println("no fitness history")
		return nil
	}
	for i, best := range history {
		fmt.Printf("generation=%d best_score=%.6f\n", i+1, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	ref := addRefFlags(fs, "show diagnostics for")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	runRef, err := ref.ref("diagnostics")
	if err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, gridbot.HistoryRequest{RunRef: runRef, Limit: max(*limit, 0)})
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(os.Stdout, diagnostics)
	}
	if len(diagnostics) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	for _, d := range diagnostics {
		fmt.Printf("generation=%d best_id=%d best=%.6f mean=%.6f stddev=%.6f min=%.6f distinct_genomes=%d\n",
			d.Generation,
			d.BestID,
			d.BestScore,
			d.MeanScore,
			d.StdDevScore,
			d.MinScore,
			d.DistinctGenomes,
		)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	ref := addRefFlags(fs, "export")
	outDir := fs.String("out", exportsDir, "export output directory")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	runRef, err := ref.ref("export")
	if err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, gridbot.ExportRequest{RunRef: runRef, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to=%s\n", exported.RunID, exported.Directory)
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	ref := addRefFlags(fs, "replay the champion of")
	seed := fs.Uint64("seed", 0, "seed for the replayed world")
	colourMode := fs.String("colour", "auto", "colour output: auto|always|never")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	runRef, err := ref.ref("show")
	if err != nil {
		return err
	}
	colour, err := colourEnabled(*colourMode, os.Stdout)
	if err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	var renderErr error
	summary, err := client.Show(ctx, gridbot.ShowRequest{
		RunRef: runRef,
		Seed:   *seed,
		Observer: func(e scape.StepEvent) {
			if renderErr != nil {
				return
			}
			fmt.Printf("step=%d chosen=%s resolved=%s reward=%d stopped=%t\n", e.Step+1, e.Chosen, e.Resolved, e.Reward, e.Stopped)
			renderErr = view.Render(os.Stdout, e.Grid, e.To, colour)
		},
	})
	if err != nil {
		return err
	}
	if renderErr != nil {
		return renderErr
	}
	fmt.Printf("run_id=%s start=%s end=%s steps=%d reward=%d stopped=%t\n",
		summary.RunID,
		summary.Start,
		summary.Result.End,
		summary.Result.Steps,
		summary.Result.Reward,
		summary.Result.Stopped,
	)
	return nil
}

func newLogger(w io.Writer, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func colourEnabled(mode string, out *os.File) (bool, error) {
	switch mode {
	case "auto":
		return view.ColourEnabled(out), nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("unsupported colour mode: %s", mode)
	}
}

func relativeTime(createdAtUTC string) string {
	ts, err := time.Parse(time.RFC3339Nano, createdAtUTC)
	if err != nil {
		return createdAtUTC
	}
	return humanize.Time(ts)
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: gridbotctl <run|runs|fitness|diagnostics|export|show> [flags]", msg)
}
