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
	Register(&StatusCmd{})
}

// StatusCmd reports the seed flag, the next ID and where data lives.
type StatusCmd struct{}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return nil }
func (c *StatusCmd) Synopsis() string   { return "Show seed state and storage locations" }
func (c *StatusCmd) Usage() string      { return "todo status" }
func (c *StatusCmd) NeedsService() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	st, err := svc.Status(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	output.FormatStatus(out, st)
	if !cfg.Quiet {
		fmt.Fprintf(out, "source:  %s\n", cfg.Settings.Remote.Source)
		if cfg.Settings.Store.Driver == "mysql" {
			fmt.Fprintln(out, "store:   mysql")
		} else {
			fmt.Fprintf(out, "store:   %s\n", cfg.DatabasePath())
		}
	}
	return exitcode.Success
}
