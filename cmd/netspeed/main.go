package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/nozo-moto/netspeed/internal/collector"
	"github.com/nozo-moto/netspeed/internal/config"
	"github.com/nozo-moto/netspeed/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	sampler := collector.NewSampler(
		newSource(cfg, logger),
		collector.WithInterval(cfg.Interval.Duration),
		collector.WithFilter(collector.NewInterfaceFilter(cfg.VirtualPrefixes...)),
		collector.WithClampNegative(cfg.ClampNegative),
		collector.WithLogger(logger),
	)
	logger.Info("netspeed starting", "display", cfg.Display, "interval", sampler.Interval())

	var sinks ui.Multi

	if cfg.HTTP.ListenAddr != "" {
		status := ui.NewStatusServer(cfg.HTTP.ListenAddr, logger)
		if err := status.Start(); err != nil {
			logger.Error("status server disabled", "error", err)
		} else {
			sinks = append(sinks, status)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := status.Shutdown(ctx); err != nil {
					logger.Error("status server forced to shutdown", "error", err)
				}
			}()
		}
	}

	if cfg.Systemd.Notify {
		notifier := ui.NewSystemdNotifier(logger)
		sinks = append(sinks, notifier)
		defer notifier.Stopping()
		notifier.Ready()
	}

	if cfg.Display == config.DisplayPlain {
		sinks = append(sinks, ui.NewWriter(os.Stdout, logger))
		runPlain(sampler, sinks, logger)
		return
	}

	indicator := ui.NewIndicator()
	sinks = append(sinks, indicator)
	if err := sampler.Start(sinks); err != nil {
		logger.Error("failed to start sampler", "error", err)
		return
	}
	defer sampler.Stop()

	go func() {
		waitForSignal()
		indicator.Stop()
	}()

	if err := indicator.Run(); err != nil {
		log.Fatal(err)
	}
}

func runPlain(sampler *collector.Sampler, sinks ui.Multi, logger *slog.Logger) {
	if err := sampler.Start(sinks); err != nil {
		logger.Error("failed to start sampler", "error", err)
		return
	}
	defer sampler.Stop()

	waitForSignal()
}

func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func newSource(cfg *config.Config, logger *slog.Logger) collector.CounterSource {
	switch cfg.Source {
	case config.SourcePsutil:
		return collector.NewPsutilSource()
	case config.SourceProcfs:
		return collector.NewProcNetDevSource(cfg.CounterFile, logger)
	}

	if runtime.GOOS == "linux" {
		return collector.NewProcNetDevSource(cfg.CounterFile, logger)
	}
	return collector.NewPsutilSource()
}

// newLogger keeps the terminal clean in TUI mode: logs go to log_file when
// set, otherwise to netspeed.log under the user cache dir.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	var (
		out     io.Writer = os.Stderr
		closeFn           = func() {}
	)

	path := cfg.LogFile
	if path == "" && cfg.Display == config.DisplayTUI {
		if path, err = defaultLogFile(); err != nil {
			return nil, nil, err
		}
	}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn, nil
}

func defaultLogFile() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to find cache dir, set log_file: %w", err)
	}
	dir = filepath.Join(dir, "netspeed")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log dir: %w", err)
	}
	return filepath.Join(dir, "netspeed.log"), nil
}
