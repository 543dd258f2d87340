// Command quiverdb-server is the composition root: parse flags, load
// config, build the logger, open the storage facade, start the worker pool
// and the TCP listener, then block until an OS signal asks for shutdown
// (§6.2).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/quiverdb/quiverdb/internal/command"
	"github.com/quiverdb/quiverdb/internal/config"
	"github.com/quiverdb/quiverdb/internal/dispatch"
	"github.com/quiverdb/quiverdb/internal/server"
	"github.com/quiverdb/quiverdb/internal/store"
	"github.com/quiverdb/quiverdb/internal/telemetry"
)

const defaultConfigPath = "conf/config.toml"

// cli mirrors the §6.2 flag surface; zero values are indistinguishable from
// "not passed" for strings/ints, so every flag that participates in the
// override-precedence chain gets a matching Set* sentinel filled in by hand
// after kong.Parse.
type cli struct {
	Config        string `help:"Path to a TOML/JSON/YAML config file." type:"path"`
	Host          string `help:"Bind host." `
	Port          uint16 `help:"Bind port."`
	LogLevel      string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	WorkerThreads int    `help:"Number of shard worker threads." name:"worker-threads"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var c cli
	parser := kong.Must(&c, kong.Name("quiverdb-server"),
		kong.Description("A Redis-protocol-compatible in-process data store."))
	if _, err := parser.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := loadConfig(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := telemetry.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "quiverdb-server: logger init:", err)
		return 1
	}
	defer log.Sync()

	cell := config.NewCell(cfg)
	cell.OnLogLevelChange(func(level string) {
		if err := log.SetLevel(level); err != nil {
			log.Warn("invalid log_level from CONFIG SET", "level", level, "err", err)
		}
	})

	db, err := store.Open(cfg.DataPath)
	if err != nil {
		log.Error("failed to open storage", "path", cfg.DataPath, "err", err)
		return 1
	}
	defer db.Close()

	table := command.NewTable()
	config.NewConfigHandler(cell).RegisterInto(table)

	pool := dispatch.NewPool(cfg.WorkerThreads, db, table, log)
	defer pool.Shutdown()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	ln, err := server.Listen(addr, pool, log)
	if err != nil {
		log.Error("failed to bind", "addr", addr, "err", err)
		return 1
	}

	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- ln.Serve() }()

	log.Info("quiverdb-server listening", "addr", addr, "workers", cfg.WorkerThreads)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutting down")
		ln.Close()
		return 0
	case err := <-serveErrCh:
		if err != nil {
			log.Error("listener stopped unexpectedly", "err", err)
			return 1
		}
		return 0
	}
}

// loadConfig implements the §6.2 precedence: CLI overrides file overrides
// compiled defaults, loading conf/config.toml when --config is unspecified
// and that file happens to exist.
func loadConfig(c cli) (config.Config, error) {
	path := c.Config
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	cfg := config.Defaults()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	overrides := config.CLIOverrides{
		Host: c.Host, SetHost: c.Host != "",
		Port: c.Port, SetPort: c.Port != 0,
		LogLevel: c.LogLevel, SetLogLevel: c.LogLevel != "",
		WorkerThreads: c.WorkerThreads, SetWorkerThreads: c.WorkerThreads != 0,
	}
	return overrides.Apply(cfg), nil
}
