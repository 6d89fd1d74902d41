// Package parser implements the interactive command language the host
// interpreter exposes over the core's public API: go, ss, init, reset, tr,
// dreg, dmem, creg, cmem, pagereg, and speed — the CLI surface named in the
// external-interfaces section of the specification. Command dispatch and
// prefix completion mirror the teacher's command/parser package, trimmed to
// this simulator's much smaller verb set (no device attach/detach/channel
// commands: this core has no device tree).
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/EtchedPixels/sim1750a/core"
	"github.com/EtchedPixels/sim1750a/mmu"
)

type cmd struct {
	name    string
	min     int
	process func(args []string, c *core.Core) (quit bool, err error)
}

var cmdList = []cmd{
	{name: "go", min: 1, process: cmdGo},
	{name: "ss", min: 2, process: cmdStep},
	{name: "init", min: 2, process: cmdInit},
	{name: "reset", min: 2, process: cmdReset},
	{name: "tr", min: 2, process: cmdTranslate},
	{name: "dreg", min: 2, process: cmdDreg},
	{name: "dmem", min: 2, process: cmdDmem},
	{name: "creg", min: 2, process: cmdCreg},
	{name: "cmem", min: 2, process: cmdCmem},
	{name: "pagereg", min: 2, process: cmdPagereg},
	{name: "speed", min: 2, process: cmdSpeed},
	{name: "quit", min: 1, process: cmdQuit},
}

// ProcessCommand parses one line of input and executes the matching
// command against c. It returns true when the REPL should exit (the quit
// command), and any error the command produced.
func ProcessCommand(line string, c *core.Core) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return match[0].process(args, c)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// CompleteCmd returns command-name completions for the partially typed
// line, for the liner line editor's tab-completion hook.
func CompleteCmd(line string) []string {
	fields := strings.Fields(line)
	if len(fields) > 1 || (len(fields) == 1 && strings.HasSuffix(line, " ")) {
		return nil
	}
	prefix := ""
	if len(fields) == 1 {
		prefix = strings.ToLower(fields[0])
	}
	var out []string
	for _, m := range matchList(prefix) {
		out = append(out, m.name+" ")
	}
	return out
}

func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) {
		return false
	}
	if !strings.HasPrefix(m.name, name) {
		return false
	}
	return len(name) >= m.min
}

func matchList(name string) []cmd {
	if name == "" {
		out := make([]cmd, len(cmdList))
		copy(out, cmdList)
		return out
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

func parseHex16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("not a 16-bit hex value: %s", s)
	}
	return uint16(n), nil
}

func parseUint(s string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", s)
	}
	return n, nil
}

// cmdGo runs until a breakpoint, a memory error, or cancellation stops the
// core, reporting the final status and total cycle count.
func cmdGo(_ []string, c *core.Core) (bool, error) {
	cycles, status := c.ExecuteUntilBreakOrError()
	fmt.Printf("stopped: %s, cycles=%d, ic=%#04x\n", statusName(status), cycles, c.Regs.IC)
	return false, nil
}

// cmdStep executes one instruction, or the given count if present.
func cmdStep(args []string, c *core.Core) (bool, error) {
	count := uint64(1)
	if len(args) > 0 {
		var err error
		count, err = parseUint(args[0], 32)
		if err != nil {
			return false, err
		}
	}
	var status core.Status
	var cycles int
	for i := uint64(0); i < count; i++ {
		cycles, status = c.ExecuteOne()
		if status != core.StatusOK {
			break
		}
	}
	fmt.Printf("stopped: %s, cycles=%d, ic=%#04x\n", statusName(status), cycles, c.Regs.IC)
	return false, nil
}

func cmdInit(_ []string, c *core.Core) (bool, error) {
	c.Init()
	return false, nil
}

func cmdReset(_ []string, c *core.Core) (bool, error) {
	c.Reset()
	return false, nil
}

// cmdTranslate exercises the MMU without executing an instruction: tr
// <bank:code|data> <as> <ak> <logical-hex>.
func cmdTranslate(args []string, c *core.Core) (bool, error) {
	if len(args) != 4 {
		return false, errors.New("usage: tr <code|data> <as> <ak> <logical-hex>")
	}
	var bank mmu.Bank
	switch strings.ToLower(args[0]) {
	case "code":
		bank = mmu.Code
	case "data":
		bank = mmu.Data
	default:
		return false, errors.New("bank must be code or data")
	}
	as, err := parseUint(args[1], 8)
	if err != nil {
		return false, err
	}
	ak, err := parseUint(args[2], 8)
	if err != nil {
		return false, err
	}
	logical, err := parseHex16(args[3])
	if err != nil {
		return false, err
	}
	phys, fault := c.MMU.Translate(bank, uint8(as), uint8(ak), logical, false)
	if fault != mmu.FaultNone {
		fmt.Printf("fault: %s\n", faultName(fault))
		return false, nil
	}
	fmt.Printf("phys=%#06x\n", phys)
	return false, nil
}

func faultName(f mmu.Fault) string {
	switch f {
	case mmu.FaultAccessKey:
		return "access-key"
	case mmu.FaultWriteProtect:
		return "write-protect"
	default:
		return "none"
	}
}

func cmdDreg(args []string, c *core.Core) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("usage: dreg <name>")
	}
	v, err := c.Regs.Get(strings.ToLower(args[0]))
	if err != nil {
		return false, err
	}
	fmt.Printf("%s = %#04x\n", args[0], v)
	return false, nil
}

func cmdCreg(args []string, c *core.Core) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("usage: creg <name> <value-hex>")
	}
	v, err := parseHex16(args[1])
	if err != nil {
		return false, err
	}
	if err := c.Regs.Set(strings.ToLower(args[0]), v); err != nil {
		return false, err
	}
	return false, nil
}

func cmdDmem(args []string, c *core.Core) (bool, error) {
	if len(args) < 1 || len(args) > 2 {
		return false, errors.New("usage: dmem <addr-hex> [count]")
	}
	addr, err := strconv.ParseUint(args[0], 16, 20)
	if err != nil {
		return false, fmt.Errorf("not a 20-bit hex address: %s", args[0])
	}
	count := uint64(1)
	if len(args) == 2 {
		count, err = parseUint(args[1], 16)
		if err != nil {
			return false, err
		}
	}
	for i := uint64(0); i < count; i++ {
		w, written := c.Mem.Peek(uint32(addr) + uint32(i))
		fmt.Printf("%#06x: %#04x written=%v\n", uint32(addr)+uint32(i), w, written)
	}
	return false, nil
}

func cmdCmem(args []string, c *core.Core) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("usage: cmem <addr-hex> <value-hex>")
	}
	addr, err := strconv.ParseUint(args[0], 16, 20)
	if err != nil {
		return false, fmt.Errorf("not a 20-bit hex address: %s", args[0])
	}
	v, err := parseHex16(args[1])
	if err != nil {
		return false, err
	}
	c.Mem.Poke(uint32(addr), v)
	return false, nil
}

// cmdPagereg displays or loads one page-table entry: pagereg <code|data>
// <as> <page> [ppa-hex al ew].
func cmdPagereg(args []string, c *core.Core) (bool, error) {
	if len(args) != 3 && len(args) != 6 {
		return false, errors.New("usage: pagereg <code|data> <as> <page> [ppa-hex al ew]")
	}
	var bank mmu.Bank
	switch strings.ToLower(args[0]) {
	case "code":
		bank = mmu.Code
	case "data":
		bank = mmu.Data
	default:
		return false, errors.New("bank must be code or data")
	}
	as, err := parseUint(args[1], 8)
	if err != nil {
		return false, err
	}
	page, err := parseUint(args[2], 8)
	if err != nil {
		return false, err
	}

	if len(args) == 6 {
		ppa, err := strconv.ParseUint(args[3], 16, 8)
		if err != nil {
			return false, fmt.Errorf("not an 8-bit hex ppa: %s", args[3])
		}
		al, err := parseUint(args[4], 8)
		if err != nil {
			return false, err
		}
		ew, err := strconv.ParseBool(args[5])
		if err != nil {
			return false, fmt.Errorf("not a bool: %s", args[5])
		}
		c.MMU.Set(bank, uint8(as), uint8(page), mmu.PageReg{PPA: uint8(ppa), AL: uint8(al), EW: ew})
		return false, nil
	}

	reg := c.MMU.Get(bank, uint8(as), uint8(page))
	fmt.Printf("ppa=%#04x al=%d ew=%v\n", reg.PPA, reg.AL, reg.EW)
	return false, nil
}

// cmdSpeed toggles NeedSpeed: "speed on" disables the backtrace ring and
// per-instruction cancellation poll; "speed off" re-enables them.
func cmdSpeed(args []string, c *core.Core) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("usage: speed <on|off>")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		c.NeedSpeed = true
	case "off":
		c.NeedSpeed = false
	default:
		return false, errors.New("usage: speed <on|off>")
	}
	return false, nil
}

func cmdQuit(_ []string, _ *core.Core) (bool, error) {
	return true, nil
}

func statusName(s core.Status) string {
	switch s {
	case core.StatusOK:
		return "ok"
	case core.StatusBreakpoint:
		return "breakpoint"
	case core.StatusMemError:
		return "memerror"
	case core.StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
