// Command trailreplay feeds a recorded track through the off-path tracker and prints
// the guidance an observer would have seen at each sample.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trailsense/pkg/config"
	"trailsense/pkg/geo"
	"trailsense/pkg/logging"
	"trailsense/pkg/offpath"
	"trailsense/pkg/session"
	"trailsense/pkg/stats"
	"trailsense/pkg/trailio"
)

// aheadMeters is how far the direction of travel is projected for display.
const aheadMeters = 30

type options struct {
	configPath string
	pathFile   string
	trackFile  string
	threshold  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Config file (default $"+config.EnvConfigPath+" or "+config.DefaultPath+")")
	flag.StringVar(&opts.pathFile, "path", "", "Trail file (.geojson, .json or .shp)")
	flag.StringVar(&opts.trackFile, "track", "", "Recorded track (.geojson or .json)")
	flag.StringVar(&opts.threshold, "threshold", "", "Off-path threshold, e.g. 5m or 20ft (default from config)")
	initConfig := flag.Bool("init-config", false, "Generate default config file and exit")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	if opts.configPath == "" {
		opts.configPath = config.ResolvePath(config.DefaultPath)
	}

	if *initConfig {
		if err := config.GenerateDefault(opts.configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", opts.configPath)
		return
	}

	if opts.pathFile == "" || opts.trackFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Replay failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	threshold := cfg.Tracking.OffPathThreshold.Meters()
	if opts.threshold != "" {
		if threshold, err = config.ParseDistance(opts.threshold); err != nil {
			return fmt.Errorf("invalid -threshold: %w", err)
		}
	}

	path, err := trailio.LoadPath(opts.pathFile)
	if err != nil {
		return fmt.Errorf("failed to load trail: %w", err)
	}
	track, err := trailio.LoadTrack(opts.trackFile)
	if err != nil {
		return fmt.Errorf("failed to load track: %w", err)
	}

	center, _ := path.Centroid()
	slog.Info("Replay started",
		"trail", opts.pathFile,
		"center", fmt.Sprintf("%.5f,%.5f", center.Lat, center.Lon),
		"vertices", len(path),
		"length_m", int(path.Length()),
		"samples", len(track),
		"threshold_m", threshold)

	mgr := session.NewManager(
		offpath.Config{ProximityThreshold: cfg.Tracking.ProximityThreshold.Meters()},
		stats.New(),
		slog.Default(),
	)
	id := mgr.Start(path)

	err = replay(ctx, mgr, id, track, threshold, cfg.Replay.IntervalDuration(), out)

	printSummary(out, mgr.Stats().Snapshot()[id])
	if endErr := mgr.End(id); endErr != nil {
		slog.Warn("Failed to end session", "session", id, "error", endErr)
	}
	return err
}

func replay(ctx context.Context, mgr *session.Manager, id string, track []geo.Point, threshold float64, interval time.Duration, out io.Writer) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for i, loc := range track {
		if i > 0 && tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		res, err := mgr.Update(id, loc, threshold)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatSample(i, loc, &res))
	}
	return nil
}

func formatSample(i int, loc geo.Point, res *offpath.Result) string {
	line := fmt.Sprintf("#%03d %.6f,%.6f", i, loc.Lat, loc.Lon)
	if !res.ToPath {
		return line + " on trail"
	}

	line += fmt.Sprintf(" off %.1fm head %s (%.0f°)", res.DistanceToPath, res.Direction(), res.BearingToPath)
	if corr, ok := res.Correction(); ok {
		ahead, _ := geo.ExtendLine(res.Anchor, loc, aheadMeters)
		line += fmt.Sprintf(" travel %.0f° %s turn %+.0f° ahead %.6f,%.6f",
			res.RefBearing, geo.CompassWord(res.RefBearing), corr, ahead.Lat, ahead.Lon)
	}
	return line
}

func printSummary(out io.Writer, st stats.SessionStats) {
	fmt.Fprintf(out, "samples=%d off_path=%d ref_lines=%d anchor_moves=%d\n",
		st.Updates, st.OffPath, st.RefLines, st.AnchorMoves)
}
