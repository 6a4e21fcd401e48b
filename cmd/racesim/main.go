// Command racesim runs one configured race and prints the results.
//
//	racesim [configDir]
//
// configDir defaults to the working directory and must hold racesim.cfg.json.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/gridwalk/racesim/internal/config"
	"github.com/gridwalk/racesim/internal/dispatcher"
	"github.com/gridwalk/racesim/internal/influx"
	"github.com/gridwalk/racesim/internal/logging"
	intOtel "github.com/gridwalk/racesim/internal/otel"
	"github.com/gridwalk/racesim/internal/race"
	"github.com/gridwalk/racesim/internal/sink"
	"github.com/gridwalk/racesim/internal/stream"
	"github.com/gridwalk/racesim/internal/worker"
	"github.com/gridwalk/racesim/pkg/core"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "racesim: %v\n", err)
		if errors.Is(err, core.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run loads config from args[0] (or the working directory), runs the race
// and writes the results listing to out. Cancelling ctx stops the race at
// the next round boundary.
func run(ctx context.Context, args []string, out io.Writer) error {
	sessionStart := time.Now()

	configDir := "."
	if len(args) > 0 {
		configDir = args[0]
	}
	if err := config.Load(configDir); err != nil {
		return err
	}
	raceCfg := config.GetRaceConfig()
	logLevel := config.GetString("logLevel")

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, raceCfg.Name, sessionStart)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	// OTel records go to the same file as the text log.
	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = provider.Shutdown(sctx)
	}()

	var logProvider *sdklog.LoggerProvider
	if provider.Enabled() {
		logProvider = provider.LoggerProvider()
	}
	slogManager := logging.NewSlogManager()
	slogManager.Setup(logFile, logLevel, logProvider)
	logger := slogManager.Logger()
	logger.Info("Loaded config", "dir", configDir, "log", logPath)

	zlog := logging.NewZerolog(logFile, logLevel)

	grid, err := loadGrid(zlog)
	if err != nil {
		return err
	}

	r, err := race.New(raceCfg.Name, raceCfg.Rounds,
		race.WithSource(seededSource(raceCfg.Seed, sessionStart)),
		race.WithLapTimeModel(lapTimeModel(config.GetLapTimeConfig())),
		race.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	raceLogger := slogManager.Bind(logging.RaceContext(r))

	for _, slot := range grid {
		if err := r.Register(slot.Participant, slot.Vehicle); err != nil {
			return err
		}
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	deps := worker.Dependencies{Logger: raceLogger}
	var closers []func() error

	influxCfg := config.GetInfluxConfig()
	if influxCfg.Enabled {
		backup := filepath.Join(influxCfg.BackupDir, filepath.Base(logPath)+".influx.gz")
		im := influx.NewManager(zlog, backup)
		if err := im.Connect(ctx, influxCfg); err != nil {
			raceLogger.Warn("InfluxDB unavailable, writing backup", "path", backup, "error", err)
		}
		deps.Points = im
		deps.LapBucket = influxCfg.Bucket
		deps.EventBucket = influx.EventsBucket
		closers = append(closers, im.Close)
	}

	streamCfg := config.GetStreamConfig()
	if streamCfg.Enabled {
		client := stream.New(stream.Config{URL: streamCfg.URL, Secret: streamCfg.Secret}, raceLogger)
		if err := client.Connect(); err != nil {
			raceLogger.Warn("Live feed unavailable", "url", streamCfg.URL, "error", err)
		} else {
			deps.Feed = client
			closers = append(closers, client.Close)
		}
	}

	worker.NewManager(deps).RegisterHandlers(d)

	counter := sink.NewCounter()
	r.Subscribe(sink.NewLog(raceLogger))
	r.Subscribe(sink.NewDispatch(d, raceLogger))
	r.Subscribe(counter)

	raceErr := r.Start(ctx)
	logger.Info("Race events", "total", counter.Total(), "byKind", counter.Snapshot())

	// Drain buffered handlers before closing their destinations.
	d.Close()
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			raceLogger.Warn("Close failed", "error", err)
		}
	}

	fctx, fcancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer fcancel()
	if err := slogManager.Flush(fctx); err != nil {
		logger.Warn("Failed to flush OTel logs", "error", err)
	}

	if raceErr != nil {
		return raceErr
	}
	fmt.Fprintln(out, r.Results())
	return nil
}

// seededSource uses seed when set so a race can be replayed, and the session
// start otherwise.
func seededSource(seed uint64, start time.Time) core.Source {
	if seed == 0 {
		seed = uint64(start.UnixNano())
	}
	return core.NewSource(seed)
}

func lapTimeModel(c config.LapTimeConfig) race.LapTimeModel {
	return race.LapTimeModel{
		Base:           c.Base,
		Min:            c.Min,
		PowerDivisor:   c.PowerDivisor,
		AeroMultiplier: c.AeroMultiplier,
		SkillBonus:     c.SkillBonus,
		FactorMin:      c.FactorMin,
		FactorMax:      c.FactorMax,
	}
}
