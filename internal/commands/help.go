package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                         List all tasks
  todo list [common flags] [--filter <f>] [--format <fmt>] [<f>]
                                               List tasks (f: all, pending, completed;
                                               fmt: text, json, yaml, toml)
  todo add [common flags] [--due <date>] <text...>
  todo create [common flags] [--due <date>] <text...>
  todo toggle [common flags] <ref>
  todo done [common flags] <ref>
  todo rm [common flags] [--yes] <ref>
  todo clear [common flags]                    Remove completed tasks
  todo watch [common flags] [--filter <f>]     Refresh the list on every change
  todo help
  todo version

<ref> is a number shown by "todo list" or the first 4+ characters of a task id.
<date> is YYYY-MM-DD or a phrase such as "tomorrow" or "in 3 days".

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
