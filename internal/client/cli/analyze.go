package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/repsphere/internal/client/controller"
	"github.com/dmitrijs2005/repsphere/internal/client/facade"
	"github.com/gabriel-vasile/mimetype"
)

// detectMIME sniffs the file content. When the detected type is a
// more specific form of an accepted recording type, the accepted one is
// reported.
func detectMIME(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	for m := mt; m != nil; m = m.Parent() {
		for _, allowed := range controller.AllowedMIMETypes {
			if m.Is(allowed) {
				return allowed, nil
			}
		}
	}
	base, _, _ := strings.Cut(mt.String(), ";")
	return strings.TrimSpace(base), nil
}

func (a *App) Select(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: select <path> [mime]")
		return errors.New("missing path")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		a.printError(err.Error())
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		a.printError(fmt.Sprintf("Cannot open %s: %v", args[0], err))
		return err
	}
	if info.IsDir() {
		a.printError(args[0] + " is a directory")
		return errors.New("not a file")
	}

	mime := ""
	if len(args) > 1 {
		mime = args[1]
	} else if mime, err = detectMIME(path); err != nil {
		a.printError(fmt.Sprintf("Cannot read %s: %v", args[0], err))
		return err
	}

	file := facade.FileRef{Path: path, Name: filepath.Base(path), Size: info.Size(), MIMEType: mime}
	if err := a.ctrl.SelectFile(file); err != nil {
		if errors.Is(err, controller.ErrInvalidState) {
			a.printError("A recording is already selected. Use 'remove' or 'new' first.")
		} else {
			a.printError(a.ctrl.Snapshot().LastError)
		}
		return err
	}

	fmt.Fprintf(a.out, "Selected %s (%s, %s). Type 'analyze' to start.\n", file.Name, formatSize(file.Size), file.MIMEType)
	return nil
}

func (a *App) Remove(ctx context.Context) error {
	a.ctrl.Remove()
	fmt.Fprintln(a.out, "Recording removed.")
	return nil
}

func (a *App) New(ctx context.Context) error {
	a.ctrl.NewAnalysis()
	fmt.Fprintln(a.out, "Ready for a new analysis. Use 'select <path>' to choose a recording.")
	return nil
}

func (a *App) Analyze(ctx context.Context) error {
	return a.runWorkflow(ctx, a.ctrl.StartAnalysis)
}

func (a *App) Retry(ctx context.Context) error {
	if a.ctrl.Snapshot().CanResume {
		fmt.Fprintln(a.out, mutedStyle.Render("Recording already uploaded, retrying the analysis only."))
	}
	return a.runWorkflow(ctx, a.ctrl.Retry)
}

// runWorkflow runs fn with a context that Ctrl-C cancels, then reports the
// outcome.
func (a *App) runWorkflow(ctx context.Context, fn func(context.Context) error) error {
	runCtx, stop := notifyContext(ctx)
	defer stop()

	err := fn(runCtx)
	switch {
	case errors.Is(err, controller.ErrNoFileSelected):
		a.printError("No recording selected. Use 'select <path>' first.")
		return err
	case errors.Is(err, controller.ErrInvalidState):
		a.printError(fmt.Sprintf("Cannot start an analysis while the session is %s.", a.ctrl.Snapshot().State))
		return err
	case err != nil:
		snap := a.ctrl.Snapshot()
		if snap.LastError != "" {
			a.printError(snap.LastError)
		}
		if snap.State == controller.StateSelected {
			fmt.Fprintln(a.out, mutedStyle.Render("Type 'retry' to try again or 'remove' to pick another recording."))
		}
		return err
	}

	snap := a.ctrl.Snapshot()
	a.printSuccess("Analysis complete.")
	fmt.Fprintln(a.out)
	renderReport(a.out, snap.Result)
	fmt.Fprintf(a.out, "Saved as %s. Use 'show %s' to view it again, 'new' to analyze another recording.\n", snap.ResultID, snap.ResultID)

	if a.session.Authenticated() {
		a.session.RefreshUsage(ctx)
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	snap := a.ctrl.Snapshot()
	fmt.Fprintf(a.out, "State: %s\n", snap.State)
	if snap.File != nil {
		fmt.Fprintf(a.out, "Recording: %s (%s, %s)\n", snap.File.Name, formatSize(snap.File.Size), snap.File.MIMEType)
	}
	if snap.State == controller.StateUploading {
		fmt.Fprintf(a.out, "Upload: %s\n", a.bar.ViewAs(float64(snap.Progress)/100))
	}
	if snap.ConversationID != "" {
		fmt.Fprintf(a.out, "Conversation: %s\n", snap.ConversationID)
	}
	if snap.LastError != "" {
		a.printError("Last error: " + snap.LastError)
	}
	if snap.CanResume {
		fmt.Fprintln(a.out, "A retry will skip the upload.")
	}
	return nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
