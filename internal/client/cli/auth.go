package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/client/auth"
	"github.com/dmitrijs2005/repsphere/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		a.printError(fmt.Sprintf("error: %v", err))
		return err
	}

	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		a.printError(fmt.Sprintf("error: %v", err))
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, password); err != nil {
		a.printError("Login unsuccessful: " + authMessage(err))
		return err
	}

	a.welcome()
	return nil
}

func (a *App) Signup(ctx context.Context) error {
	var req api.SignupRequest
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"-Enter your name", &req.Name},
		{"-Enter email", &req.Email},
		{"-Enter company (optional)", &req.Company},
	} {
		if *f.dst, err = GetSimpleText(a.reader, f.prompt, a.out); err != nil {
			a.printError(fmt.Sprintf("error: %v", err))
			return err
		}
	}

	password, err := GetPassword(a.out, "Choose a password (8+ characters)")
	if err != nil {
		a.printError(fmt.Sprintf("error: %v", err))
		return err
	}
	req.Password = string(password)
	common.WipeByteArray(password)

	if err := a.session.Signup(ctx, req); err != nil {
		a.printError("Sign up unsuccessful: " + authMessage(err))
		return err
	}

	a.welcome()
	return nil
}

func (a *App) welcome() {
	st := a.session.Snapshot()
	name := ""
	if st.User != nil {
		name = st.User.Name
	}
	a.printSuccess(fmt.Sprintf("Signed in as %s [%s]", name, auth.Initials(name)))
	fmt.Fprintf(a.out, "Plan: %s, %d of %d analyses used this month\n", st.Subscription.Tier, st.Subscription.Usage, st.Subscription.Quota)
}

func (a *App) Logout(ctx context.Context) error {
	if !a.session.Authenticated() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	st := a.session.Snapshot()
	if !st.Authenticated || st.User == nil {
		fmt.Fprintf(a.out, "Not signed in (%s tier defaults).\n", st.Subscription.Tier)
		return nil
	}
	fmt.Fprintf(a.out, "[%s] %s <%s>\n", auth.Initials(st.User.Name), st.User.Name, st.User.Email)
	fmt.Fprintf(a.out, "User ID: %s\n", st.User.ID)
	return nil
}

func (a *App) Usage(ctx context.Context) error {
	sub := a.session.Snapshot().Subscription
	if a.session.Authenticated() {
		sub = a.session.RefreshUsage(ctx)
	}

	pct := auth.UsagePercent(sub)
	fmt.Fprintf(a.out, "Plan: %s\n", sub.Tier)
	fmt.Fprintf(a.out, "Used: %d of %d analyses (%d%%)\n", sub.Usage, sub.Quota, pct)
	fmt.Fprintln(a.out, a.bar.ViewAs(float64(pct)/100))
	if !sub.ResetDate.IsZero() {
		fmt.Fprintf(a.out, "Resets: %s\n", sub.ResetDate.Format("January 2, 2006"))
	}
	return nil
}

// authMessage keeps validation detail and server messages, and hides
// anything else behind a generic text.
func authMessage(err error) string {
	var se *api.StatusError
	switch {
	case errors.Is(err, common.ErrorValidation):
		return err.Error()
	case errors.As(err, &se):
		return se.Message
	case errors.Is(err, api.ErrNetwork), errors.Is(err, api.ErrTimeout):
		return "the server could not be reached"
	default:
		return "unexpected error"
	}
}
