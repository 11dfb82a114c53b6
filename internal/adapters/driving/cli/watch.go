package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

var watchOnce bool

var watchCmd = &cobra.Command{
	Use:   "watch [items|layouts]",
	Short: "Report changes to the site sources",
	Long: `Watches the content and layouts directories and prints a line each time
something below them changes. Bursts of changes are reported once.
Without an argument both directories are watched. Stop with Ctrl-C.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"items", "layouts"},
	RunE:      runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "exit after the first change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	site, err := siteSource()
	if err != nil {
		return err
	}

	starts := []func() (driven.ChangeStream, error){site.ItemChanges, site.LayoutChanges}
	if len(args) == 1 {
		kind, err := parseRootKind(args)
		if err != nil {
			return err
		}
		if kind == domain.RootLayouts {
			starts = starts[1:]
		} else {
			starts = starts[:1]
		}
	}

	var streams []driven.ChangeStream
	defer func() {
		for _, s := range streams {
			s.Stop()
		}
	}()
	for _, start := range starts {
		s, err := start()
		if err != nil {
			return err
		}
		streams = append(streams, s)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes...")
	return watchLoop(ctx, cmd, streams)
}

// watchLoop prints events until ctx ends or every stream has ended.
func watchLoop(ctx context.Context, cmd *cobra.Command, streams []driven.ChangeStream) error {
	events := make(chan domain.ChangeEvent)
	done := make(chan struct{})
	defer close(done)

	remaining := len(streams)
	ended := make(chan struct{}, len(streams))
	for _, s := range streams {
		go func() {
			for ev := range s.Events() {
				select {
				case events <- ev:
				case <-done:
					return
				}
			}
			ended <- struct{}{}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			fmt.Fprintf(cmd.OutOrStdout(), "changed: %s\n", ev.Root)
			if watchOnce {
				return nil
			}
		case <-ended:
			remaining--
			if remaining == 0 {
				cmd.Println("Watched directories are gone, stopping.")
				return nil
			}
		}
	}
}
