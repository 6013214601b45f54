package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/DaviTostes/bruno-language-server/internal/config"
	"github.com/DaviTostes/bruno-language-server/internal/lsp"
	"github.com/DaviTostes/bruno-language-server/internal/session"
	"github.com/DaviTostes/bruno-language-server/internal/telemetry"
	"github.com/DaviTostes/bruno-language-server/internal/watcher"
)

const (
	logPrefix       = "[bruno-ls] "
	shutdownTimeout = 5 * time.Second

	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
	maxHeaderBytes    = 1 << 20
)

type serveFlags struct {
	configPath  string
	logFile     string
	listen      string
	verbose     bool
	showVersion bool
	stdio       bool
	otel        telemetry.Config
}

func parseServeFlags(args []string, stderr io.Writer) (serveFlags, error) {
	var f serveFlags
	fset := flag.NewFlagSet("bruno-ls", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&f.configPath, "config", "", "Path to a settings file (toml, json or yaml)")
	fset.StringVar(&f.logFile, "log-file", "", "Append logs to this file instead of stderr")
	fset.StringVar(&f.listen, "listen", "", "Serve LSP over websocket on this address instead of stdio")
	fset.BoolVar(&f.verbose, "verbose", false, "Log every request")
	fset.BoolVar(&f.showVersion, "version", false, "Show bruno-ls version")
	fset.BoolVar(&f.showVersion, "v", false, "Show bruno-ls version")
	fset.BoolVar(&f.stdio, "stdio", false, "Serve LSP over stdin/stdout (the default)")
	fset.StringVar(&f.otel.Endpoint, "otel-endpoint", "", "OTLP collector endpoint for traces")
	fset.BoolVar(&f.otel.Insecure, "otel-insecure", false, "Disable TLS for OTLP trace export")
	fset.StringVar(&f.otel.ServiceName, "otel-service", "", "Override service.name for exported spans")
	if err := fset.Parse(args); err != nil {
		return serveFlags{}, err
	}
	return f, nil
}

func runServe(args []string, stdout, stderr io.Writer) int {
	f, err := parseServeFlags(args, stderr)
	if err != nil {
		return exitUsage
	}
	if f.showVersion {
		printVersion(stdout)
		return exitOK
	}

	settings, settingsErr := loadSettings(f.configPath)
	if settingsErr != nil {
		settings = config.DefaultSettings()
	}
	if strings.TrimSpace(f.logFile) != "" {
		settings.Log.File = strings.TrimSpace(f.logFile)
	}
	if f.verbose {
		settings.Log.Verbose = true
	}
	if strings.TrimSpace(f.listen) != "" {
		settings.Server.Listen = strings.TrimSpace(f.listen)
	}
	if f.stdio {
		settings.Server.Listen = ""
	}

	logOut, closeLog, err := openLog(stderr, settings.Log.File)
	if err != nil {
		fmt.Fprintf(stderr, "log file: %v\n", err)
		return exitUsage
	}
	defer closeLog()
	logger := log.New(logOut, logPrefix, log.LstdFlags|log.Lmsgprefix)
	if settingsErr != nil {
		logger.Printf("settings load error: %v", settingsErr)
	}

	telCfg := settings.TelemetryConfig().
		Merge(telemetry.ConfigFromEnv(os.Getenv)).
		Merge(f.otel)
	telCfg.Version = version
	tel, err := telemetry.New(telCfg)
	if err != nil {
		logger.Printf("telemetry init error: %v", err)
		tel = telemetry.Noop()
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Printf("telemetry shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := lsp.Options{
		Logger:            logger,
		Telemetry:         tel,
		Diagnostics:       settings.DiagnosticOptions(),
		TriggerCharacters: settings.Completion.TriggerCharacters,
		Version:           version,
		Verbose:           settings.Log.Verbose,
	}
	reg := lsp.NewRegistry()

	w := watcher.New(watcher.Options{})
	for _, path := range settingsPaths(f.configPath) {
		w.Watch(path)
	}
	w.Start(ctx)
	defer w.Close()
	go followSettings(ctx, w.Events(), f.configPath, reg, logger)

	if settings.Server.Listen != "" {
		return serveWebSocket(ctx, settings.Server.Listen, opts, reg, logger)
	}
	return serveStdio(ctx, stop, opts, reg, logger)
}

func serveStdio(
	ctx context.Context,
	stop context.CancelFunc,
	opts lsp.Options,
	reg *lsp.Registry,
	logger *log.Logger,
) int {
	sess := session.New()
	opts.Logger = log.New(logger.Writer(), logPrefix+shortID(sess.ID)+" ", logger.Flags())

	code := exitOK
	opts.OnExit = func(clean bool) {
		if !clean {
			code = exitFailed
		}
		stop()
	}
	srv := lsp.NewServer(sess, opts)
	reg.Add(srv)
	defer reg.Remove(srv)

	opts.Logger.Printf("serving stdio (version %s)", version)
	err := srv.Serve(ctx, lsp.Stdio())
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		opts.Logger.Printf("serve: %v", err)
		return exitFailed
	}
	return code
}

func serveWebSocket(
	ctx context.Context,
	addr string,
	opts lsp.Options,
	reg *lsp.Registry,
	logger *log.Logger,
) int {
	mux := http.NewServeMux()
	mux.Handle("/", lsp.WebSocketHandler(opts, reg))
	// no read/write timeouts: they would cut long lived websocket sessions
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s (version %s)", addr, version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Printf("listen: %v", err)
			return exitFailed
		}
		return exitOK
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
	return exitOK
}

// followSettings reloads the settings whenever a watched file changes and
// pushes the new diagnostic options to every live server.
func followSettings(
	ctx context.Context,
	events <-chan watcher.Event,
	explicit string,
	reg *lsp.Registry,
	logger *log.Logger,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			logger.Printf("settings %s %s", evt.Path, evt.Kind)
			settings, err := reloadSettings(explicit)
			if err != nil {
				logger.Printf("settings reload error: %v", err)
				continue
			}
			reg.Reconfigure(ctx, settings.DiagnosticOptions())
		}
	}
}

func loadSettings(explicit string) (config.Settings, error) {
	if strings.TrimSpace(explicit) != "" {
		s, _, err := config.LoadSettingsFile(explicit)
		return s, err
	}
	s, _, err := config.LoadSettings()
	return s, err
}

// reloadSettings treats a deleted settings file as a reset to defaults.
func reloadSettings(explicit string) (config.Settings, error) {
	s, err := loadSettings(explicit)
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultSettings(), nil
	}
	return s, err
}

func settingsPaths(explicit string) []string {
	if strings.TrimSpace(explicit) != "" {
		return []string{explicit}
	}
	var out []string
	for _, c := range config.Candidates() {
		out = append(out, c.Path)
	}
	return out
}

func openLog(stderr io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
