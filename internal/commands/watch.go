package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd prints the list and then every change until interrupted.
type WatchCmd struct {
	count int
}

// SetCount stops the command after n changes (for testing).
func (c *WatchCmd) SetCount(n int) {
	c.count = n
}

func (c *WatchCmd) Name() string       { return "watch" }
func (c *WatchCmd) Aliases() []string  { return nil }
func (c *WatchCmd) Synopsis() string   { return "Follow changes to the task list" }
func (c *WatchCmd) Usage() string      { return "todo watch [--count <n>]" }
func (c *WatchCmd) NeedsService() bool { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.count, "count", 0, "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.count < 0 {
		fmt.Fprintf(errOut, "error: invalid count: %d\n", c.count)
		return exitcode.UserError
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view, err := svc.Observe(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	for _, task := range view.Snapshot() {
		output.FormatTask(out, task)
	}
	if !cfg.Quiet {
		fmt.Fprintln(errOut, "watching for changes (Ctrl-C to stop)")
	}

	seen := 0
	for {
		select {
		case change, ok := <-view.Changes():
			if !ok {
				return exitcode.Success
			}
			output.FormatChange(out, change)
			seen++
			if c.count > 0 && seen >= c.count {
				return exitcode.Success
			}
		case <-ctx.Done():
			return exitcode.Success
		}
	}
}
