// Package reader runs the interactive, line-edited command loop: it is the
// "CLI surface" side of the core, grounded on the teacher's command/reader
// package, which wraps github.com/peterh/liner around command/parser the
// same way.
package reader

import (
	"errors"
	"log/slog"

	"github.com/peterh/liner"

	"github.com/EtchedPixels/sim1750a/command/parser"
	"github.com/EtchedPixels/sim1750a/core"
)

// ConsoleReader reads commands from stdin with line editing and history
// until the user quits or aborts with Ctrl-C, dispatching each line to
// parser.ProcessCommand.
func ConsoleReader(c *core.Core) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string {
		return parser.CompleteCmd(l)
	})

	for {
		command, err := line.Prompt("sim1750> ")
		if err == nil {
			line.AppendHistory(command)
			quit, cmdErr := parser.ProcessCommand(command, c)
			if cmdErr != nil {
				slog.Error("command error: " + cmdErr.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line: " + err.Error())
	}
}
