package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"netcalc/internal/app/bootstrap"
	"netcalc/internal/app/server"
	"netcalc/internal/app/version"
	"netcalc/internal/config"
	"netcalc/internal/support"
)

const defaultBackendPort = 8082

type options struct {
	serve        bool
	port         int
	settingsPath string
	debug        bool
	showVersion  bool
	cli          cliOptions
}

func Run() error {
	return run(os.Args[1:], os.Stdin, os.Stdout)
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found. Falling back to system environment variables.")
	}

	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.debug || support.GetEnvBool("DEBUG", false) {
		log.SetLevel(log.DebugLevel)
	}

	if opts.showVersion {
		_, err := fmt.Fprintln(stdout, version.Get())
		return err
	}

	if err := config.ReadSettings(opts.settingsPath); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	cfg := config.GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cleanup := bootstrap.Setup(ctx)
	defer cleanup()

	if !opts.serve {
		if opts.cli.family == "" {
			opts.cli.family = cfg.Defaults.Family
		}
		if opts.cli.separator == "" {
			opts.cli.separator = cfg.Defaults.Separator
		}
		return runCLI(ctx, svc, opts.cli, stdin, stdout)
	}

	router, err := server.NewRouter(svc, server.Options{
		CORSOrigin:   cfg.Server.CORSOrigin,
		StaticDir:    cfg.Server.StaticDir,
		MaxBodyBytes: int64(cfg.Limits.MaxInputBytes) + maxRequestOverhead,
		Defaults: server.Defaults{
			Family:    cfg.Defaults.Family,
			Separator: cfg.Defaults.Separator,
		},
	})
	if err != nil {
		return err
	}

	port := resolvePort("NETCALC_PORT", "PORT", opts.port)
	if err := server.Serve(ctx, port, router); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// maxRequestOverhead leaves room for JSON framing and form encoding around the
// raw rule text.
const maxRequestOverhead = 64 << 10

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("netcalc", flag.ContinueOnError)
	fs.BoolVar(&opts.serve, "serve", false, "Run the HTTP API instead of converting once")
	fs.IntVar(&opts.port, "port", defaultBackendPort, "Port for the API server")
	fs.StringVar(&opts.settingsPath, "settings", config.DefaultSettingsFilePath, "Path to the settings file")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.showVersion, "version", false, "Print build information and exit")
	fs.StringVar(&opts.cli.family, "family", "", "Address family: v4 or v6 (default from settings)")
	fs.StringVar(&opts.cli.separator, "sep", "", `Separator for input and output; \n and \t are accepted (default from settings)`)
	fs.StringVar(&opts.cli.inputPath, "in", "", "Read rules from this file instead of stdin")
	fs.BoolVar(&opts.cli.check, "check", false, "Report every invalid token instead of converting")
	fs.BoolVar(&opts.cli.summary, "summary", false, "Print block and address counts instead of the blocks")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func resolvePort(primaryEnv, legacyEnv string, fallback int) int {
	if port := readPort(primaryEnv); port != 0 {
		return port
	}
	if port := readPort(legacyEnv); port != 0 {
		return port
	}
	return fallback
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port == 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
