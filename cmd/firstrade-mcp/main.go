package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/firstrade-mcp/internal/broker"
	common "github.com/bobmcallan/firstrade-mcp/internal/common"
	"github.com/bobmcallan/firstrade-mcp/internal/config"
	"github.com/bobmcallan/firstrade-mcp/internal/mcp"
	"github.com/bobmcallan/firstrade-mcp/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	transport   = flag.String("transport", "", "MCP transport: stdio or http (overrides config)")
	serverPort  = flag.Int("port", 0, "HTTP port for the http transport (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("firstrade-mcp version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, *transport, *serverPort)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().Str("api_host", cfg.API.Addr()).Str("transport", cfg.Server.Transport).Msg("Using API host")

	client := broker.NewClient(nil, logger)
	mcpSrv, err := mcp.NewServer(cfg, client, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to create MCP server")
		os.Exit(1)
	}

	if cfg.Server.Transport == config.TransportStdio {
		// Stdio transport: reads stdin, writes stdout
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			logger.Error().Str("error", err.Error()).Msg("serving error")
			os.Exit(1)
		}
		return
	}

	srv := server.New(cfg, mcpSrv, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Str("error", err.Error()).Msg("server failed to start")
			os.Exit(1)
		}
		return
	case <-sigChan:
		logger.Info().Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server shutdown failed")
		os.Exit(1)
	}
}
