package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/icecake0141/switchmap/internal/activity"
	"github.com/icecake0141/switchmap/internal/config"
	"github.com/icecake0141/switchmap/internal/importer"
	"github.com/icecake0141/switchmap/internal/maclist"
	"github.com/icecake0141/switchmap/internal/render"
	"github.com/icecake0141/switchmap/internal/scan"
	"github.com/icecake0141/switchmap/internal/search"
	"github.com/icecake0141/switchmap/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "scan":
		runScan(os.Args[2:])
	case "import-arp":
		runImportARP(os.Args[2:])
	case "build":
		runBuild(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "version":
		fmt.Println(version.Info())
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: switchmap <command> [flags]

Commands:
  scan        scan switches and update port activity history
  import-arp  import ARP CSV data into the address list
  build       build the static HTML report
  serve       serve the built report with search
  version     print version information
`)
}

// bootstrap loads the site config and builds the logger. Exits on failure;
// nothing useful can run without either.
func bootstrap(configPath string) (*config.Site, *zap.Logger) {
	site, v, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if f := v.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded", zap.String("source", f))
	} else {
		logger.Warn("no configuration file found, using defaults")
	}

	return site, logger
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runScan collects every configured switch and folds the result into the
// persisted activity records. Scan failures are fatal here: an operator
// running a scan needs to see them, not have them absorbed.
func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	only := fs.String("switch", "", "scan only the named switch")
	prune := fs.Bool("prune-missing", false, "drop records for ports absent from this scan")
	_ = fs.Parse(args)

	site, logger := bootstrap(*configPath)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signalContext()
	defer cancel()

	store, err := activity.NewStore(site.IdleSinceDirectory, logger.Named("activity"))
	if err != nil {
		logger.Fatal("failed to open idle state store", zap.Error(err))
	}

	runner := scan.NewRunner(site, logger.Named("scan"))
	result, err := runner.Collect(ctx, *only, true)
	if err != nil {
		logger.Fatal("scan failed", zap.Error(err))
	}

	observedAt := time.Now().UTC()
	for i := range result.Switches {
		sw := &result.Switches[i]
		if err := scan.UpdateActivity(store, sw, observedAt, *prune); err != nil {
			logger.Fatal("failed to update activity records",
				zap.String("switch", sw.Name),
				zap.Error(err),
			)
		}
	}
}

// runImportARP loads a router's ARP CSV export into the address list.
func runImportARP(args []string) {
	fs := flag.NewFlagSet("import-arp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	csvPath := fs.String("csv", "", "path to the ARP CSV file (required)")
	_ = fs.Parse(args)

	site, logger := bootstrap(*configPath)
	defer func() { _ = logger.Sync() }()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "import-arp: -csv is required")
		os.Exit(2)
	}

	entries, err := importer.LoadARPCSV(*csvPath, logger.Named("importer"))
	if err != nil {
		logger.Fatal("failed to load ARP CSV", zap.Error(err))
	}

	store, err := maclist.Open(site.MaclistPath)
	if err != nil {
		logger.Fatal("failed to open address list", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := store.Replace(ctx, entries); err != nil {
		logger.Fatal("failed to store address list", zap.Error(err))
	}
	logger.Info("address list imported", zap.Int("entries", len(entries)))
}

// runBuild collects all switches and writes the static report. Per-switch
// collection failures are logged and the switch is listed as failed; the
// build continues with the rest.
func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	date := fs.String("date", "", "build date as RFC 3339 (default: now)")
	_ = fs.Parse(args)

	site, logger := bootstrap(*configPath)
	defer func() { _ = logger.Sync() }()

	buildDate := time.Now().UTC()
	if *date != "" {
		parsed, err := time.Parse(time.RFC3339, *date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "build: invalid -date %q: %v\n", *date, err)
			os.Exit(2)
		}
		buildDate = parsed.UTC()
	}

	ctx, cancel := signalContext()
	defer cancel()

	store, err := activity.NewStore(site.IdleSinceDirectory, logger.Named("activity"))
	if err != nil {
		logger.Fatal("failed to open idle state store", zap.Error(err))
	}

	runner := scan.NewRunner(site, logger.Named("scan"))
	result, err := runner.Collect(ctx, "", false)
	if err != nil {
		logger.Fatal("collection failed", zap.Error(err))
	}

	for i := range result.Switches {
		scan.AttachActivity(store, &result.Switches[i])
	}

	macStore, err := maclist.Open(site.MaclistPath)
	if err != nil {
		logger.Fatal("failed to open address list", zap.Error(err))
	}
	defer macStore.Close()

	entries, err := macStore.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load address list", zap.Error(err))
	}

	if err := render.Build(render.Params{
		Switches:        result.Switches,
		FailedSwitches:  result.Failed,
		Maclist:         entries,
		OutputDir:       site.DestinationDirectory,
		BuildDate:       buildDate,
		UnusedAfterDays: site.UnusedAfterDays,
	}); err != nil {
		logger.Fatal("failed to build report", zap.Error(err))
	}

	logger.Info("report built",
		zap.String("output", site.DestinationDirectory),
		zap.Int("switches", len(result.Switches)),
		zap.Int("failed", len(result.Failed)),
	)
}

// runServe serves the built report until interrupted.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	host := fs.String("host", "", "listen host (overrides config)")
	port := fs.Int("port", 0, "listen port (overrides config)")
	_ = fs.Parse(args)

	site, logger := bootstrap(*configPath)
	defer func() { _ = logger.Sync() }()

	if *host != "" {
		site.Server.Host = *host
	}
	if *port != 0 {
		site.Server.Port = *port
	}

	ctx, cancel := signalContext()
	defer cancel()

	srv := search.NewServer(site.Server, site.DestinationDirectory, logger.Named("search"))
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Fatal("search server failed", zap.Error(err))
	}
}
