// Package app wires one report run together: configuration, credentials,
// logging, the session client and the orchestrator.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/IBM/SVCheck/internal/config"
	"github.com/IBM/SVCheck/internal/credentials"
	"github.com/IBM/SVCheck/internal/exitcode"
	"github.com/IBM/SVCheck/internal/report"
	"github.com/IBM/SVCheck/internal/svapi"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options carries the command-line surface into a run
type Options struct {
	ConfigPath string
	Target     string
	Username   string
	Password   string
	OutputRoot string // overrides the configured output root when set
	Verbose    bool
}

// Run performs one complete report run and returns the process exit code
func Run(version string, opts Options) int {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "svcheck: %v\n", err)
		return exitcode.GenericError
	}
	if opts.OutputRoot != "" {
		cfg.Output.Root = opts.OutputRoot
	}

	creds, err := credentials.NewResolver().Resolve(opts.Target, opts.Username, opts.Password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "svcheck: %v\n", err)
		return exitcode.GenericError
	}

	// One timestamp names both artifacts of the run, so the log file sits
	// next to the workbook it describes
	timestamp := time.Now()
	targetDir := filepath.Join(cfg.Output.Root, creds.Target)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "svcheck: cannot create %s: %v\n", targetDir, err)
		return exitcode.GenericError
	}

	logPath := filepath.Join(targetDir,
		fmt.Sprintf("SVCheck_%s_%s.log", creds.Target, timestamp.Format(report.TimestampLayout)))
	logger, err := initLogger(cfg.Logging, logPath, opts.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "svcheck: failed to initialize logger: %v\n", err)
		return exitcode.GenericError
	}
	defer logger.Sync()

	logger.Info("Starting svcheck",
		zap.String("version", version),
		zap.String("target", creds.Target),
		zap.String("username", creds.Username))

	client := svapi.NewClient(svapi.Options{
		Port:        cfg.API.Port,
		DialTimeout: cfg.API.DialTimeout,
		Timeout:     cfg.API.Timeout,
		InsecureTLS: cfg.API.InsecureTLS,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := report.New(client, logger, report.Config{
		OutputRoot: cfg.Output.Root,
		Timestamp:  timestamp,
	})
	path, err := orch.Run(ctx, creds.Target, creds.Username, creds.Secret)
	if err != nil {
		logger.Error("Report run failed", zap.Error(err))
		return exitcode.FromError(err)
	}

	logger.Info("Report complete", zap.String("path", path))
	return exitcode.Success
}

// initLogger builds the run's logger: a debug-level JSON log file with
// rotation next to the report, plus a console tee at info (debug with
// --verbose)
func initLogger(cfg config.LoggingConfig, logPath string, verbose bool) (*zap.Logger, error) {
	var consoleLevel zapcore.Level
	if err := consoleLevel.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fileWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     28, // days
		Compress:   true,
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(fileWriter), zapcore.DebugLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), consoleLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
