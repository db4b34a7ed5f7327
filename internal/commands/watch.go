package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/storage"
	"todo/internal/store"
	"todo/internal/task"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command. It re-renders the list each time
// another process changes the stored tasks.
type WatchCmd struct {
	filter string
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Show tasks and refresh on change" }
func (c *WatchCmd) Usage() string     { return "todo watch [--filter all|pending|completed]" }
func (c *WatchCmd) NeedsStore() bool  { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	f, err := pickFilter(c.filter, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	kv, key := st.Backend()
	w, ok := kv.(storage.Watcher)
	if !ok {
		fmt.Fprintf(errOut, "error: watch: %v\n", storage.ErrUnsupported)
		return exitcode.UserError
	}

	if err := watchTasks(ctx, w, key, st, cfg, f, out); err != nil {
		fmt.Fprintf(errOut, "error: watch: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// watchTasks renders once, then reloads and renders again after every
// change until ctx is done.
func watchTasks(ctx context.Context, w storage.Watcher, key string, st *store.Store, cfg *config.Config, f task.Filter, out io.Writer) error {
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		done <- w.Watch(ctx, key, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	renderList(cfg, st.Tasks(), f, out)

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-changed:
			st.Initialize(ctx)
			fmt.Fprintln(out, output.ListSeparator)
			renderList(cfg, st.Tasks(), f, out)
		}
	}
}
