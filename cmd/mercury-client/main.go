// Command mercury-client opens a mercury event channel and prints its
// lifecycle and inbound events.
//
// Usage:
//
//	mercury-client [flags]
//
// Flags:
//
//	-config string        Configuration file path
//	-url string           Channel URL (overrides the config file)
//	-token string         Authorization token (default $MERCURY_TOKEN)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  Write connection events to a .mlog file
//	-interactive          Enable interactive command mode
//
// Examples:
//
//	# Connect and stream events until interrupted
//	mercury-client -url wss://mercury.example.com/v1/events -token "$TOKEN"
//
//	# Record a session for mercury-log
//	mercury-client -config mercury.yaml -protocol-log session.mlog
//
// Interactive Commands:
//
//	connect            - Open the channel
//	disconnect         - Close the channel
//	logout [reason]    - Close the channel for logout
//	status             - Show connection status
//	quit               - Log out and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mercury-transport/mercury-go/cmd/mercury-client/interactive"
	"github.com/mercury-transport/mercury-go/pkg/config"
	"github.com/mercury-transport/mercury-go/pkg/connection"
	"github.com/mercury-transport/mercury-go/pkg/events"
	"github.com/mercury-transport/mercury-go/pkg/log"
	"github.com/mercury-transport/mercury-go/pkg/wire"
)

// Flags holds the command line settings.
type Flags struct {
	ConfigFile  string
	URL         string
	Token       string
	LogLevel    string
	ProtocolLog string
	Interactive bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.URL, "url", "", "Channel URL (overrides the config file)")
	flag.StringVar(&flags.Token, "token", os.Getenv("MERCURY_TOKEN"), "Authorization token")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.ProtocolLog, "protocol-log", "", "Write connection events to a .mlog file")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Enable interactive command mode")
}

func main() {
	flag.Parse()

	level, err := parseLevel(flags.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logOut := &redirectWriter{w: os.Stderr}
	logger := newLogger(logOut, level)
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(flags.ConfigFile)
	if err != nil {
		logger.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if flags.URL != "" {
		cfg.URL = flags.URL
	}
	if cfg.URL == "" {
		logger.Error("no channel URL; use -url or set url in the config file")
		os.Exit(2)
	}

	ccfg := cfg.ConnectionConfig()
	ccfg.Logger = logger

	var fileLogger *log.FileLogger
	eventLoggers := []log.Logger{log.NewSlogAdapter(logger)}
	if flags.ProtocolLog != "" {
		fileLogger, err = log.NewFileLogger(flags.ProtocolLog)
		if err != nil {
			logger.Error("open protocol log", "error", err)
			os.Exit(1)
		}
		eventLoggers = append(eventLoggers, fileLogger)
		logger.Info("recording protocol log", "path", flags.ProtocolLog)
	}
	ccfg.EventLogger = log.NewMultiLogger(eventLoggers...)

	mgr := connection.NewManager(ccfg, connection.Dependencies{
		Credentials: staticToken(flags.Token),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out io.Writer = os.Stdout
	var ic *interactive.Client
	if flags.Interactive {
		ic, err = interactive.New(mgr, cfg.URL)
		if err != nil {
			logger.Error("create interactive client", "error", err)
			os.Exit(1)
		}
		// Route output through readline so it does not clobber the prompt.
		out = ic.Stdout()
		logOut.set(ic.Stderr())
	}
	printEvents(mgr.Events(), out)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if ic != nil {
		go ic.Run(ctx, cancel)
	} else {
		go func() {
			if err := mgr.Connect(ctx, cfg.URL); err != nil {
				logger.Error("connect", "url", cfg.URL, "error", err)
				cancel()
			}
		}()
	}

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig)
	case <-ctx.Done():
	}

	logoutCtx, logoutCancel := context.WithTimeout(context.Background(), 2*ccfg.ForceCloseDelay+time.Second)
	if err := mgr.Logout(logoutCtx, ""); err != nil {
		logger.Warn("logout", "error", err)
	}
	logoutCancel()
	mgr.Close()

	if fileLogger != nil {
		written, failed := fileLogger.Counts()
		if err := fileLogger.Close(); err != nil {
			logger.Warn("close protocol log", "error", err)
		}
		logger.Info("protocol log closed", "events", written, "failed", failed)
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s (use: debug, info, warn, error)", s)
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// redirectWriter lets the log destination move to readline after the
// logger was handed out.
type redirectWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *redirectWriter) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Write(p)
}

func (r *redirectWriter) set(w io.Writer) {
	r.mu.Lock()
	r.w = w
	r.mu.Unlock()
}

// staticToken serves a fixed token. ForceRefresh cannot renew it, so a
// NotAuthorized handshake keeps failing until the retry limit.
type staticToken string

func (t staticToken) Authorization(context.Context) (string, error) {
	return string(t), nil
}

func (t staticToken) ForceRefresh(context.Context) error {
	return nil
}

// printEvents writes one line per lifecycle event and inbound envelope.
func printEvents(em *events.Emitter, w io.Writer) {
	em.On(events.EventOnline, func(any) {
		fmt.Fprintln(w, "[ONLINE]")
	})
	for _, name := range []string{
		events.EventOffline,
		events.EventOfflineTransient,
		events.EventOfflinePermanent,
		events.EventOfflineReplaced,
	} {
		name := name
		em.On(name, func(p any) {
			if ev, ok := p.(events.OfflineEvent); ok {
				fmt.Fprintf(w, "[%s] code=%d reason=%q\n", strings.ToUpper(name), ev.Code, ev.Reason)
				return
			}
			fmt.Fprintf(w, "[%s]\n", strings.ToUpper(name))
		})
	}
	em.On(events.EventConnectionFailed, func(p any) {
		if ev, ok := p.(events.ConnectionFailedEvent); ok {
			fmt.Fprintf(w, "[CONNECTION_FAILED] after %d attempt(s): %v\n", ev.Attempts, ev.Err)
		}
	})
	em.On(events.EventShutdownSwitchoverComplete, func(p any) {
		if ev, ok := p.(events.SwitchoverEvent); ok {
			fmt.Fprintf(w, "[SWITCHOVER] complete after %d attempt(s)\n", ev.Attempts)
		}
	})
	em.On(events.EventShutdownSwitchoverFailed, func(p any) {
		if ev, ok := p.(events.SwitchoverEvent); ok {
			fmt.Fprintf(w, "[SWITCHOVER] failed after %d attempt(s): %v\n", ev.Attempts, ev.Err)
		}
	})
	em.On(events.EventSequenceMismatch, func(p any) {
		if ev, ok := p.(events.SequenceMismatchEvent); ok {
			fmt.Fprintf(w, "[SEQUENCE] expected %d, got %d\n", ev.Expected, ev.Actual)
		}
	})
	em.On(events.EventGeneric, func(p any) {
		if env, ok := p.(*wire.Envelope); ok {
			fmt.Fprintf(w, "[EVENT] %s (id: %s)\n", env.EventType(), env.ID)
		}
	})
}
