package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ivlev/mockup-scroller/internal/config"
	"github.com/ivlev/mockup-scroller/internal/engine"
	"github.com/ivlev/mockup-scroller/internal/source"
	"github.com/ivlev/mockup-scroller/internal/system"
	"github.com/ivlev/mockup-scroller/internal/upload"
	"github.com/ivlev/mockup-scroller/internal/video"
)

// buildVersion is set with -ldflags "-X main.buildVersion=...".
var buildVersion = "dev"

const (
	exitOK       = 0
	exitUsage    = 2
	exitNoFFmpeg = 3
	exitFailure  = 4
)

var (
	inputPtr        = flag.String("input", "", "Input glob pattern, directory or URL (required)")
	outPtr          = flag.String("out", "", "Output directory (required)")
	speedPtr        = flag.String("speed", "normal", "Scroll speed: slow, normal, fast")
	noSegmentsPtr   = flag.Bool("no-segments", false, "Disable generation of individual screen segments")
	screenHeightPtr = flag.Int("screen-height", 1600, "Height of screen segments in pixels")
	configPtr       = flag.String("config", "", "YAML file with speeds, swipes, device and upload settings")
	envPtr          = flag.String("env", ".env", "dotenv file with upload settings")
	modelPtr        = flag.String("model", "linear", "Motion model: linear, unbounded, swipe")
	workersPtr      = flag.Int("workers", runtime.NumCPU(), "Frames rendered in parallel")
	dpiPtr          = flag.Int("dpi", source.DefaultDPI, "PDF rendering resolution")
	extPtr          = flag.String("ext", "", "Comma separated input extensions, e.g. .png,.jpg,.pdf")
	uploadPtr       = flag.Bool("upload", false, "Upload results to S3")
	folderPtr       = flag.String("upload-folder", "", "Upload folder (default: input base name)")
	qrPtr           = flag.Bool("qr", false, "Print a QR code for each uploaded animation")
	watchPtr        = flag.Bool("watch", false, "Keep watching the input directory or glob for new files")
	statsPtr        = flag.Bool("stats", false, "Show performance and memory statistics")
	planOutPtr      = flag.String("plan-out", "", "Write the frame plan to this YAML file instead of rendering")
	planInPtr       = flag.String("plan-in", "", "Render using the offsets of a previously written plan")
)

func main() {
	os.Exit(run())
}

func run() int {
	system.InitResourceLimits()
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := config.Default()
	cfg.BuildVersion = buildVersion
	if *configPtr != "" {
		if err := cfg.LoadFile(*configPtr); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return exitUsage
		}
	}
	if err := cfg.LoadEnv(*envPtr); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return exitUsage
	}

	cfg.InputPath = *inputPtr
	cfg.OutputDir = *outPtr
	if set["speed"] {
		cfg.Speed = *speedPtr
	}
	if set["model"] {
		cfg.Model = *modelPtr
	}
	if *noSegmentsPtr {
		cfg.Segments = false
	}
	if set["screen-height"] {
		cfg.ScreenHeight = *screenHeightPtr
	}
	if set["workers"] {
		cfg.Workers = *workersPtr
	}
	if set["dpi"] {
		cfg.DPI = *dpiPtr
	}
	if *extPtr != "" {
		cfg.Extensions = parseExtensions(*extPtr)
	}
	if *uploadPtr {
		cfg.Upload.Enabled = true
	}
	if *folderPtr != "" {
		cfg.Upload.Folder = *folderPtr
	}
	if *qrPtr {
		cfg.Upload.QR = true
	}
	cfg.Watch = *watchPtr
	cfg.ShowStats = *statsPtr
	cfg.PlanOut = *planOutPtr
	cfg.PlanIn = *planInPtr

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Invalid arguments: %v\n", err)
		flag.Usage()
		return exitUsage
	}
	if abs, err := filepath.Abs(cfg.OutputDir); err == nil {
		cfg.OutputDir = abs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("mockup-scroller %s\n", buildVersion)

	encoder := video.NewFFmpegEncoder()
	encoder.Width = cfg.GIFWidth
	if cfg.PlanOut == "" {
		version, err := system.CheckBinary(ctx, encoder.Binary)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ERROR: ffmpeg not found. Please install ffmpeg and ensure it is on your PATH.")
			fmt.Fprintln(os.Stderr, "  macOS: brew install ffmpeg")
			fmt.Fprintln(os.Stderr, "  Ubuntu/Debian: sudo apt-get install -y ffmpeg")
			fmt.Fprintln(os.Stderr, "  Windows: winget install Gyan.FFmpeg")
			return exitNoFFmpeg
		}
		fmt.Printf("ffmpeg version: %s\n", version)
	}

	files, err := source.Resolve(cfg.InputPath, cfg.Extensions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return exitUsage
	}
	if len(files) == 0 && !cfg.Watch {
		fmt.Fprintln(os.Stderr, "ERROR: No valid input files found matching the input pattern")
		return exitUsage
	}
	fmt.Printf("Found %d file(s) to process\n", len(files))

	var uploader upload.Uploader
	if cfg.Upload.Enabled {
		s3Uploader, err := upload.NewS3Uploader(ctx, cfg.Upload.Settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return exitUsage
		}
		uploader = s3Uploader
	}

	project, err := engine.NewProject(cfg, nil, encoder, uploader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return exitFailure
	}

	sum, err := project.Run(ctx, files)
	if err == nil && cfg.Watch {
		var watched engine.Summary
		watched, err = project.Watch(ctx, cfg.InputPath)
		sum.Processed += watched.Processed
		sum.Succeeded += watched.Succeeded
		sum.Failed += watched.Failed
		sum.Rejected += watched.Rejected
	}

	fmt.Printf("\n%s\n", sum)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("[-] Interrupted")
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		return exitFailure
	}
	if code := sum.ExitCode(); code != exitOK {
		return code
	}
	fmt.Printf("[+++] Done! Results: %s\n", cfg.OutputDir)
	return exitOK
}

func parseExtensions(list string) []string {
	var exts []string
	for _, e := range strings.Split(list, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}
