// Command sim1750 is the host interpreter: it parses flags, loads a
// configuration file, constructs a core.Core for the configured chip
// variant, and hands control to the interactive command reader. Structure
// mirrors the teacher's root main.go (getopt for flags, a slog handler
// writing to a log file, config.LoadConfigFile before anything else runs).
package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/EtchedPixels/sim1750a/command/reader"
	config "github.com/EtchedPixels/sim1750a/config/configparser"
	"github.com/EtchedPixels/sim1750a/config/simconfig"
	"github.com/EtchedPixels/sim1750a/core"
	"github.com/EtchedPixels/sim1750a/internal/logger"
)

// hostHooks implements core.Hooks against the configuration file's
// breakpoint set and the process's stdout, the external collaborators the
// spec requires but never implements inside the core itself.
type hostHooks struct {
	breakpoints map[uint32]bool
	console     bool
}

func (h *hostHooks) CheckBreakpoint(phys uint32, _ core.BreakKind) bool {
	return h.breakpoints[phys]
}

func (h *hostHooks) UserXIO(addr uint16, _ *uint16) error {
	return fmt.Errorf("sim1750: unhandled XIO address %#04x", addr)
}

func (h *hostHooks) ConsoleOutput(b byte) {
	if h.console {
		os.Stdout.Write([]byte{b})
	}
}

func (h *hostHooks) Cancelled() bool { return false }

func main() {
	optConfig := getopt.StringLong("config", 'c', "sim1750.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror log output to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sim1750: can't create log file:", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, optDebug)
	log := slog.New(handler)
	slog.SetDefault(log)

	log.Info("sim1750 started")

	cfg := simconfig.NewConfig()
	simconfig.Register(cfg)

	if _, err := os.Stat(*optConfig); err == nil {
		if err := config.LoadConfigFile(*optConfig); err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
	} else {
		log.Info("no configuration file found, using defaults", "path", *optConfig)
	}

	log.Info("configured", "variant", cfg.Variant.String(), "memoryWords", cfg.MemoryWords, "console", cfg.Console)

	hooks := &hostHooks{breakpoints: cfg.Breakpoints, console: cfg.Console}
	c := core.New(cfg.Variant, hooks)
	c.Init()

	reader.ConsoleReader(c)

	log.Info("sim1750 exiting")
}
