package cli

import (
	"context"
	"errors"
	"os"

	"github.com/joao-paulo-santos/bloqedex/internal/common"
)

// restoreSession picks up a persisted session so a restart does not require
// connectivity to get back in.
func (a *App) restoreSession(ctx context.Context) {
	user, err := a.auth.Restore(ctx)
	switch {
	case err == nil:
		a.user = user
		printlnFn("Welcome back,", user.Username)
	case errors.Is(err, common.ErrTokenExpired):
		printlnFn("Your session expired, please log in again")
	case errors.Is(err, common.ErrNoSession):
		// First run or logged out; nothing to restore.
	default:
		printlnFn("Could not restore session:", err.Error())
	}
}

func (a *App) Register(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil || username == "" {
		printlnFn("Registration cancelled")
		return
	}
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		printlnFn("Registration cancelled")
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("Registration cancelled")
		return
	}

	user, err := a.auth.Register(ctx, username, email, password)
	if err != nil {
		printlnFn("Registration failed:", err.Error())
		return
	}
	a.user = user
	printlnFn("Welcome,", user.Username)
}

func (a *App) Login(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil || username == "" {
		printlnFn("Login cancelled")
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("Login cancelled")
		return
	}

	user, err := a.auth.Login(ctx, username, password)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return
	}
	a.user = user
	printlnFn("Welcome,", user.Username)
}

func (a *App) Logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return
	}
	a.user = nil
	printlnFn("Logged out")
}
