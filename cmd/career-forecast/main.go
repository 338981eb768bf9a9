package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/anahmed/career-forecast/internal/config"
	"github.com/anahmed/career-forecast/internal/engine"
	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/internal/server"
	"github.com/anahmed/career-forecast/internal/store"
	"github.com/anahmed/career-forecast/pkg/constants"
	"github.com/anahmed/career-forecast/pkg/output"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.Logging, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// defaultParams takes the engine parameters straight from the loaded
// configuration; missing keys already carry the configured defaults, so an
// explicit zero growth rate is honored as written.
func defaultParams(conf *config.Configuration) engine.Params {
	params := engine.DefaultParams()
	params.Lifestyle = refdata.Lifestyle(conf.Engine.Lifestyle)
	params.FamilyYear = conf.Engine.FamilyTransitionYear
	params.BaselineSalaryK = conf.Engine.BaselineSalaryK
	params.BaselineGrowth = conf.Engine.BaselineGrowth
	return params
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	serve := flag.Bool("serve", false, "run the HTTP server instead of the one-shot CLI report")
	listen := flag.String("listen", "", "HTTP listen address override")
	seedFile := flag.String("seed", "", "seed the reference database from this YAML file before running")
	sortBy := flag.String("sort-by", engine.SortNetBenefit, "ranking key: net_benefit, cost, y1, y10, networth, initial_capital")
	limit := flag.Int("limit", 0, "truncate the ranked list (0 = no limit)")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal(fmt.Sprintf("invalid output format %s", outputFormat),
			zap.String("op", "main"),
		)
	}

	db, err := store.Open(conf.Database.Path, logger)
	if err != nil {
		logger.Fatal("failed to open reference database",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	defer func() {
		_ = db.Close()
	}()

	seed := conf.Database.SeedFile
	if *seedFile != "" {
		seed = *seedFile
	}
	if seed != "" {
		if err := db.SeedFromFile(seed); err != nil {
			logger.Fatal("failed to seed reference data",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	snap, err := db.LoadSnapshot()
	if err != nil {
		logger.Fatal("failed to load reference snapshot",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	eng := engine.New(logger, snap, conf.Engine.HomeCountry)
	params := defaultParams(conf)

	if *serve {
		addr := conf.Server.Address
		if *listen != "" {
			addr = *listen
		}
		runServer(logger, eng, db, params, addr)
		return
	}

	query := engine.Query{Params: params, SortBy: *sortBy, Limit: *limit}
	batch, err := eng.ProjectAll(context.Background(), query)
	if err != nil {
		logger.Fatal("failed to compute projections",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, batch)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, batch)
	}
}

func runServer(logger *zap.Logger, eng *engine.Engine, db *store.Store, params engine.Params, addr string) {
	srv := server.New(logger, eng, db, params)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("server shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	if err := srv.Serve(addr); err != nil {
		logger.Info("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
