// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// anvil is an MCP (Model Context Protocol) tool server. It speaks
// JSON-RPC 2.0 over stdio (one request per line on stdin, one response
// per line on stdout) and exposes database, web, and filesystem tools
// to MCP clients.
//
// Usage:
//
//	anvil [--log-file /path/to/anvil.log] [--log-level debug]
//
// Claude Desktop configuration (claude_desktop_config.json):
//
//	{
//	  "mcpServers": {
//	    "anvil": {
//	      "command": "/path/to/anvil"
//	    }
//	  }
//	}
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
	"go.uber.org/zap/zapcore"

	"github.com/teradata-labs/anvil/internal/version"
	"github.com/teradata-labs/anvil/pkg/config"
	"github.com/teradata-labs/anvil/pkg/mcp/server"
	"github.com/teradata-labs/anvil/pkg/mcp/transport"
	"github.com/teradata-labs/anvil/pkg/modules"
	"github.com/teradata-labs/anvil/pkg/modules/database"
	"github.com/teradata-labs/anvil/pkg/modules/filesystem"
	"github.com/teradata-labs/anvil/pkg/modules/web"
	"github.com/teradata-labs/anvil/pkg/tools"
)

const serverName = "anvil-mcp"

func main() {
	logFile := flag.String("log-file", "", "Log file path (defaults to stderr)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides ANVIL_LOG_LEVEL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}

	// Configure logging -- CRITICAL: never write to stdout (that's the MCP transport)
	logger := setupLogger(*logFile, level)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting anvil server",
		zap.String("version", version.Get()),
		zap.String("log_level", level),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server startup failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	registry := tools.NewRegistry()
	host := modules.NewHost(registry, logger)

	dbManager := database.NewManager(poolSettings(cfg), logger)
	fetcher := web.NewFetcher(
		cfg.WebUserAgent,
		cfg.WebMaxPageSizeBytes,
		time.Duration(cfg.WebConnectionTimeoutMS)*time.Millisecond,
	)

	for _, mod := range []modules.Module{
		database.New(dbManager, logger),
		web.New(fetcher, logger),
		filesystem.New(nil, logger),
	} {
		if err := host.Register(mod); err != nil {
			return fmt.Errorf("register module: %w", err)
		}
	}
	logger.Info("modules initialized",
		zap.Int("modules", len(host.Modules())),
		zap.Int("tools", registry.Len()),
	)

	stdio := transport.NewStdio(os.Stdin, os.Stdout, logger)
	srv := server.New(serverName, version.Get(), registry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Graceful shutdown initiated", zap.String("signal", sig.String()))
		// Stop reading; in-flight handlers drain before Wait returns.
		_ = stdio.Stop()
	}()

	if err := srv.Connect(ctx, stdio); err != nil {
		return err
	}

	logger.Info("anvil server connected and ready",
		zap.Int("pid", os.Getpid()),
		zap.String("protocol", "stdio"),
	)

	// Block until the transport terminates (EOF on stdin or a signal),
	// then tear down: modules unload and the connection manager closes.
	stdio.Wait()

	host.Shutdown()
	dbManager.Close()
	logger.Info("server stopped gracefully")
	return nil
}

func poolSettings(cfg *config.Config) database.PoolSettings {
	return database.PoolSettings{
		MaxSize:        cfg.DBPoolSize,
		MinIdle:        cfg.DBPoolMinIdle,
		ConnectTimeout: time.Duration(cfg.DBConnectionTimeoutMS) * time.Millisecond,
		IdleTimeout:    time.Duration(cfg.DBIdleTimeoutMS) * time.Millisecond,
		MaxLifetime:    time.Duration(cfg.DBMaxLifetimeMS) * time.Millisecond,
		LeakDetection:  time.Duration(cfg.DBLeakDetectionMS) * time.Millisecond,
	}
}

// setupLogger creates a zap logger that writes to a file (or stderr if
// no file is given). The logger must NEVER write to stdout because
// stdout is the MCP stdio transport.
func setupLogger(logFile, logLevel string) *zap.Logger {
	logger, err := buildLogger(logFile, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// buildLogger is the testable core of setupLogger. It returns an error
// instead of calling os.Exit so tests can exercise all code paths.
func buildLogger(logFile, logLevel string) (*zap.Logger, error) {
	level := parseLogLevel(logLevel)

	var output zapcore.WriteSyncer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- log file path from CLI flag
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		output = zapcore.AddSync(f)
	} else {
		// Write to stderr (not stdout!) as a fallback
		output = zapcore.AddSync(os.Stderr)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		output,
		level,
	)

	return zap.New(core), nil
}

// parseLogLevel converts a string log level to a zapcore.Level.
func parseLogLevel(logLevel string) zapcore.Level {
	switch logLevel {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
