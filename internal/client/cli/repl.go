package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Select(ctx context.Context, args []string) error
	Remove(ctx context.Context) error
	Analyze(ctx context.Context) error
	Retry(ctx context.Context) error
	New(ctx context.Context) error
	Status(ctx context.Context) error
	History(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Usage(ctx context.Context) error
}

const helpText = `Available commands:
  select <path> [mime]  choose a recording (mp3, wav, m4a; up to 50 MB)
  remove                drop the selected recording
  analyze               upload and analyze the selected recording (Ctrl-C cancels)
  retry                 retry a failed analysis without uploading again when possible
  new                   start a new analysis
  status                show the current session
  history               list completed analyses
  show <id>             show a completed report
  login | signup        sign in or create an account
  logout | whoami       sign out or show the current user
  usage                 show this month's usage
  exit | quit           leave the program`

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit". Handlers print their own errors, so a failing command never ends
// the loop. Handlers prompting for input share the same reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rs %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(helpText)

		case "select":
			_ = a.Select(ctx, args)

		case "remove":
			_ = a.Remove(ctx)

		case "analyze":
			_ = a.Analyze(ctx)

		case "retry":
			_ = a.Retry(ctx)

		case "new":
			_ = a.New(ctx)

		case "status":
			_ = a.Status(ctx)

		case "history":
			_ = a.History(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "login":
			_ = a.Login(ctx)

		case "signup", "register":
			_ = a.Signup(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "usage":
			_ = a.Usage(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
