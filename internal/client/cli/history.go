package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/repsphere/internal/client/controller"
	"github.com/dmitrijs2005/repsphere/internal/common"
)

const historyLimit = 20

func (a *App) History(ctx context.Context) error {
	if a.history == nil {
		fmt.Fprintln(a.out, "Local history is not available.")
		return nil
	}

	entries, err := a.history.List(ctx, historyLimit)
	if err != nil {
		a.log.Error(ctx, "history list failed", "error", err)
		a.printError("Could not read the local history.")
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No completed analyses yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPLETED\tFILE\tSUMMARY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.CompletedAt.Local().Format("2006-01-02 15:04"), e.Filename, truncate(e.Result.Summary(), 50))
	}
	return tw.Flush()
}

// Show prints a stored report, or the current one when no id is given.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		snap := a.ctrl.Snapshot()
		if snap.State != controller.StateComplete {
			fmt.Fprintln(a.out, "Usage: show <id>")
			return errors.New("missing id")
		}
		renderReport(a.out, snap.Result)
		return nil
	}

	if a.history == nil {
		fmt.Fprintln(a.out, "Local history is not available.")
		return nil
	}

	e, err := a.history.Get(ctx, args[0])
	if errors.Is(err, common.ErrorNotFound) {
		a.printError("No analysis with id " + args[0])
		return err
	}
	if err != nil {
		a.log.Error(ctx, "history get failed", "id", args[0], "error", err)
		a.printError("Could not read the local history.")
		return err
	}

	fmt.Fprintln(a.out, titleStyle.Render(e.Filename)+" "+mutedStyle.Render(e.CompletedAt.Local().Format("2006-01-02 15:04")))
	fmt.Fprintln(a.out)
	renderReport(a.out, e.Result)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
