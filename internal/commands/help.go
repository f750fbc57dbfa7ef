package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todo help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                          List all tasks, newest first
  todo list [common flags] [--open]             List tasks (--open hides completed)
  todo add [common flags] [--desc <text>] <title...>
  todo create [common flags] [--desc <text>] <title...>
  todo done [common flags] <id>                 Toggle completed (alias: toggle)
  todo edit [common flags] [--title <text>] [--desc <text>] <id>
  todo rm [common flags] <id>                   Delete a task (alias: delete)
  todo show [common flags] <id>
  todo watch [common flags] [--count <n>]       Follow changes until interrupted
  todo status [common flags]
  todo login [common flags]                     Authorize the Google Tasks import
  todo logout [common flags]
  todo help
  todo version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

On first run the task list is seeded once from remote.source in config.yaml
(dummyjson by default; googletasks after 'todo login'; none to start empty).
`
