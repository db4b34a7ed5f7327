package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/store"
	"todo/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list [filter]`.
type ListCmd struct {
	filter string
	format string
}

// SetFilter sets the filter flag (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetFormat sets the format flag (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "todo list [--filter all|pending|completed] [--format text|json|yaml|toml] [filter]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
	fs.StringVar(&c.format, "format", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	f, err := pickFilter(c.filter, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	format, err := output.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if format == output.FormatText {
		renderList(cfg, st.Tasks(), f, out)
		return exitcode.Success
	}

	tasks := st.Tasks()
	day := today(cfg)
	nums := numbering(tasks, day)
	items := task.Project(tasks, f, day, dateLayout(cfg))
	completed, total := task.Progress(tasks)

	view := output.NewView(f, items, func(id string) int { return nums[id] }, completed, total)
	if err := output.Render(out, format, view); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// pickFilter resolves the filter from the flag or a single positional arg.
func pickFilter(flagValue string, args []string) (task.Filter, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("too many arguments: %s", strings.Join(args[1:], " "))
	}
	name := flagValue
	if len(args) == 1 {
		if flagValue != "" {
			return "", errors.New("cannot use both --filter and a filter argument")
		}
		name = args[0]
	}
	return task.ParseFilter(name)
}

// renderList prints the text form of a projection followed by the
// progress line.
func renderList(cfg *config.Config, tasks []task.Task, f task.Filter, out io.Writer) {
	day := today(cfg)
	nums := numbering(tasks, day)
	items := task.Project(tasks, f, day, dateLayout(cfg))
	styles := output.NewStyles(out)

	for _, it := range items {
		output.FormatItem(out, nums[it.Task.ID], it, styles)
	}

	if len(items) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, output.NoTasks)
	}

	completed, total := task.Progress(tasks)
	if total > 0 {
		output.FormatProgress(out, completed, total)
	}
}
