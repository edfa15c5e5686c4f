// Command boxfinder locates checkbox-shaped regions in scanned form images
// and reports their bounding boxes, optionally rendering overlays for
// inspection. Independent inputs are processed concurrently; each gets its
// own pipeline run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sync/errgroup"

	"github.com/formscan/boxfinder/config"
	"github.com/formscan/boxfinder/detector"
	"github.com/formscan/boxfinder/loader"
	"github.com/formscan/boxfinder/visualizer"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML run configuration file")
		variant    = flag.String("variant", "", "preprocessing variant: binarize, morphological or edges")
		filterList = flag.String("filters", "", "comma-separated filter chain: area, squareness, shape")
		overlayDir = flag.String("overlay", "", "directory to write candidate overlays into")
		workers    = flag.Int("workers", runtime.NumCPU(), "maximum concurrent images")
		verbose    = flag.Bool("v", false, "enable debug logging")
		showStats  = flag.Bool("stats", false, "print process resource usage after the run")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if flag.NArg() == 0 {
		log.Fatal().Msg("no inputs: pass image/PDF paths, URIs or a directory")
	}

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("loading configuration")
		}
		cfg = loaded
	}
	if *variant != "" {
		cfg.Variant = *variant
	}
	if *filterList != "" {
		cfg.Filters = strings.Split(*filterList, ",")
	}
	if *overlayDir != "" {
		cfg.Overlay.Enabled = true
		cfg.Overlay.Dir = *overlayDir
	}

	det, err := detector.New(cfg.DetectorConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid pipeline configuration")
	}
	det = det.WithLogger(log)

	inputs, err := expandInputs(flag.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("resolving inputs")
	}

	if cfg.Overlay.Enabled {
		if err := os.MkdirAll(cfg.Overlay.Dir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("creating overlay directory")
		}
	}

	ld := loader.New(cfg.LoaderOptions())

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for _, uri := range inputs {
		g.Go(func() error {
			return processOne(ctx, log, ld, det, cfg, uri)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("run finished with failures")
		printStats(*showStats)
		os.Exit(1)
	}

	printStats(*showStats)
}

// processOne runs the pipeline for a single input URI.
func processOne(
	ctx context.Context,
	log zerolog.Logger,
	ld *loader.Loader,
	det *detector.Detector,
	cfg config.RunConfig,
	uri string,
) error {
	img, err := ld.Load(ctx, uri)
	if err != nil {
		return err
	}
	defer img.Close()

	result, err := det.Detect(img)
	if err != nil {
		return err
	}
	defer result.Close()

	evt := log.Info().Str("input", uri).Int("candidates", len(result.Contours))
	for i, c := range result.Contours {
		bb := c.BoundingBox()
		evt = evt.Str(
			fmt.Sprintf("box_%d", i),
			fmt.Sprintf("(%d,%d) %dx%d", bb.X1, bb.Y1, bb.Width(), bb.Height()),
		)
	}
	evt.Msg("detection complete")

	if !cfg.Overlay.Enabled {
		return nil
	}

	rendered, err := visualizer.Overlay(img, result.Contours, result.Mask, cfg.VisualizerOptions())
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri)) + "-overlay.png"
	return visualizer.Save(rendered, filepath.Join(cfg.Overlay.Dir, name))
}

// expandInputs replaces a single directory argument with its loadable files.
func expandInputs(args []string) ([]string, error) {
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			return loader.ListImages(args[0])
		}
	}
	return args, nil
}

// printStats reports process resource usage via gopsutil.
func printStats(enabled bool) {
	if !enabled {
		return
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		fmt.Fprintf(os.Stderr, "rss: %.1f MB\n", float64(mem.RSS)/1024/1024)
	}
	if cpu, err := proc.Times(); err == nil {
		fmt.Fprintf(os.Stderr, "cpu: %.2fs user, %.2fs system\n", cpu.User, cpu.System)
	}
}
