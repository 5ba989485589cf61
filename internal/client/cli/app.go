package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dmitrijs2005/repsphere/internal/client/auth"
	"github.com/dmitrijs2005/repsphere/internal/client/config"
	"github.com/dmitrijs2005/repsphere/internal/client/controller"
	"github.com/dmitrijs2005/repsphere/internal/client/repositories/results"
	"github.com/dmitrijs2005/repsphere/internal/logging"
)

// notifyContext is a test seam for signal.NotifyContext.
var notifyContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

type App struct {
	config  *config.Config
	session *auth.Session
	ctrl    *controller.Controller
	history results.Repository
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	mu        sync.Mutex
	bar       progress.Model
	lastState controller.State
	lastShown int
}

// NewApp wires the REPL to an auth session and a controller. history may be
// nil when the local cache could not be opened.
func NewApp(c *config.Config, s *auth.Session, ctrl *controller.Controller, history results.Repository, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		config:    c,
		session:   s,
		ctrl:      ctrl,
		history:   history,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		lastState: controller.StateUpload,
		lastShown: -1,
	}
	ctrl.Subscribe(a.onChange)
	return a
}

// Run restores the auth state and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	st := a.session.Init(ctx, "")
	fmt.Fprintln(a.out, titleStyle.Render("RepSphere")+" conversation analysis (type 'help' for commands)")
	if a.config != nil && a.config.Backend == config.BackendMock {
		fmt.Fprintln(a.out, mutedStyle.Render("Running against the mock backend; nothing leaves this machine."))
	}
	if !st.Authenticated {
		fmt.Fprintln(a.out, mutedStyle.Render("Not signed in. Use 'login' or 'signup' before analyzing."))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) getStatus() string {
	snap := a.ctrl.Snapshot()
	s := string(snap.State)
	if st := a.session.Snapshot(); st.Authenticated && st.User != nil {
		s = auth.Initials(st.User.Name) + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// onChange renders workflow progress. It runs on whichever goroutine moved
// the controller, including the upload's body reader.
func (a *App) onChange(s controller.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s.State != a.lastState {
		prev := a.lastState
		a.lastState = s.State
		if prev == controller.StateUploading {
			fmt.Fprintln(a.out)
		}
		switch s.State {
		case controller.StateUploading:
			a.lastShown = -1
			if s.File != nil {
				fmt.Fprintf(a.out, "Uploading %s\n", s.File.Name)
			}
		case controller.StateAnalyzing:
			fmt.Fprintln(a.out, "Analyzing conversation, this can take a few seconds...")
		}
	}

	if s.State == controller.StateUploading && s.Progress != a.lastShown {
		a.lastShown = s.Progress
		fmt.Fprintf(a.out, "\r%s", a.bar.ViewAs(float64(s.Progress)/100))
	}
}
