// Package simconfig registers the simulator's configuration-file
// directives with configparser: CHIP selects the chip variant, MEMORY
// records a memory size (logged only; it does not bound memory.Memory),
// BREAK installs a breakpoint, and CONSOLE enables
// the console XIO hook. This mirrors the way the teacher's debugconfig
// package registers "DEBUG" against the same parser.
package simconfig

import (
	"errors"
	"strconv"
	"strings"

	config "github.com/EtchedPixels/sim1750a/config/configparser"
	"github.com/EtchedPixels/sim1750a/chip"
)

// Config collects the settings the configuration file can populate before
// the core is constructed, plus the breakpoint set the host's CheckBreakpoint
// hook consults once the core is running.
type Config struct {
	Variant     chip.Variant
	MemoryWords uint32
	Breakpoints map[uint32]bool
	Console     bool
}

// NewConfig returns a Config with the simulator's power-up defaults:
// baseline chip, full 64K-word address space, no breakpoints, no console.
func NewConfig() *Config {
	return &Config{
		Variant:     chip.Baseline,
		MemoryWords: 1 << 16,
		Breakpoints: map[uint32]bool{},
	}
}

var variantNames = map[string]chip.Variant{
	"BASELINE": chip.Baseline,
	"F9450":    chip.F9450,
	"PACE":     chip.PACE,
	"GVSC":     chip.GVSC,
	"MA31750":  chip.MA31750,
	"MAS281":   chip.MAS281,
}

// Register installs this simulator's directives against the package-level
// configparser registry, writing every parsed setting into cfg. Call once,
// before LoadConfigFile.
func Register(cfg *Config) {
	config.RegisterOption("CHIP", func(_ uint16, value string, _ []config.Option) error {
		variant, ok := variantNames[strings.ToUpper(value)]
		if !ok {
			return errors.New("simconfig: unknown chip variant: " + value)
		}
		cfg.Variant = variant
		return nil
	})

	config.RegisterOption("MEMORY", func(_ uint16, value string, _ []config.Option) error {
		words, err := parseMemorySize(value)
		if err != nil {
			return err
		}
		cfg.MemoryWords = words
		return nil
	})

	config.RegisterModel("BREAK", func(addr uint16, _ string, _ []config.Option) error {
		cfg.Breakpoints[uint32(addr)] = true
		return nil
	})

	config.RegisterSwitch("CONSOLE", func(uint16, string, []config.Option) error {
		cfg.Console = true
		return nil
	})
}

// parseMemorySize accepts a bare decimal word count, or one suffixed with K
// or M (binary, not decimal).
func parseMemorySize(value string) (uint32, error) {
	mult := uint64(1)
	if n := len(value); n > 0 {
		switch value[n-1] {
		case 'K', 'k':
			mult = 1024
			value = value[:n-1]
		case 'M', 'm':
			mult = 1024 * 1024
			value = value[:n-1]
		}
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, errors.New("simconfig: invalid memory size: " + value)
	}
	return uint32(n * mult), nil
}
