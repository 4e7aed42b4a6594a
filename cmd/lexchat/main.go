package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lexchat/lexchat"
	"github.com/lexchat/lexchat/duplex"
	"github.com/lexchat/lexchat/internal/tui"
	"github.com/lexchat/lexchat/logging"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:8000", "base URL of the document QA backend")
		wsURL    = flag.String("ws", "", "websocket endpoint; when set, queries go over a duplex channel instead of HTTP")
		timeout  = flag.Duration("timeout", 2*time.Minute, "per-query timeout for the HTTP strategy")
		logLevel = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
		logFile  = flag.String("log-file", "", "write logs to this file instead of stderr")
	)
	flag.Parse()

	if err := run(*baseURL, *wsURL, *timeout, *logLevel, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(baseURL, wsURL string, timeout time.Duration, logLevel, logFile string) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = parseLevel(logLevel)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logCfg.Output = f
	}
	logger := logging.NewFromConfig(logCfg)

	opts := []func(o *lexchat.Options){
		func(o *lexchat.Options) {
			o.Timeout = timeout
			o.Logger = logger
		},
	}

	if wsURL != "" {
		submitter := duplex.NewSubmitter(wsURL, func(o *duplex.Options) {
			o.Logger = logger
		})
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := submitter.Channel().Connect(ctx); err != nil {
			return fmt.Errorf("connect %s: %w", wsURL, err)
		}
		defer submitter.Channel().Disconnect()
		opts = append(opts, func(o *lexchat.Options) { o.Strategy = submitter })
	}

	chat := lexchat.New(baseURL, opts...)
	return tui.Start(chat)
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "error":
		return logging.LevelError
	default:
		return logging.LevelWarn
	}
}
