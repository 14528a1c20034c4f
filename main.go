package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildfunctions/sci_calc/pkg/calculator"
	"github.com/wildfunctions/sci_calc/pkg/config"
	"github.com/wildfunctions/sci_calc/pkg/server"
)

func main() {
	cfg := config.Default()
	var (
		configPath string
		expression string
		serve      bool
	)

	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.StringVar(&expression, "expr", "", "evaluate one expression and exit")
	flag.BoolVar(&serve, "serve", false, "run the HTTP/WebSocket session service")
	addr := flag.String("addr", cfg.Server.Addr, "listen address for -serve")
	format := flag.String("format", cfg.Format, "output format (text, json)")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	historyCap := flag.Int("history-cap", cfg.Calculator.HistoryCap, "history entries kept (0 = unbounded)")
	maxDepth := flag.Int("max-depth", cfg.Calculator.MaxDepth, "max expression nesting depth")
	flag.Parse()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Server.Addr = *addr
		case "format":
			cfg.Format = *format
		case "log-level":
			cfg.LogLevel = *logLevel
		case "history-cap":
			cfg.Calculator.HistoryCap = *historyCap
		case "max-depth":
			cfg.Calculator.MaxDepth = *maxDepth
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	if serve {
		runServer(cfg, logger)
		return
	}

	calc, err := calculator.New(cfg.Calculator, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if expression != "" {
		if !evalOnce(os.Stdout, calc, expression, cfg.Format) {
			os.Exit(1)
		}
		return
	}

	r := &repl{calc: calc, out: os.Stdout, format: cfg.Format}
	if err := r.run(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()
}

func runServer(cfg config.File, logger zerolog.Logger) {
	shutdown, err := server.InitTracer("sci_calc")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	srv, err := server.NewServer(cfg.ServerConfig(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create server")
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
