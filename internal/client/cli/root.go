package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = func(args ...any) { fmt.Println(args...) }

func (a *App) getStatus() string {
	s := ""
	if a.user != nil {
		s = a.user.Username + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the REPL until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to Bloqedex CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.restoreSession(ctx)

	go a.StartConnectivityWatcher(ctx, a.config.SyncInterval)

	for {
		fmt.Printf("dex %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "l", "list":
			a.list(ctx, args)
		case "search":
			a.search(ctx, args)
		case "show":
			a.show(ctx, args)
		case "dex", "pokedex":
			a.listCaught(ctx, args)
		case "catch":
			a.catch(ctx, args)
		case "release":
			a.release(ctx, args)
		case "releaseall":
			a.releaseAll(ctx, args)
		case "update":
			a.update(ctx, args)
		case "stats":
			a.stats(ctx)
		case "sync":
			a.syncNow(ctx)
		case "share":
			a.share(ctx, args)
		case "shares":
			a.shares(ctx)
		case "viewshare":
			a.viewShare(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	if a.isLoggedIn() {
		printlnFn("Catalog:  (l)ist [page], search <name> [page], show <id>")
		printlnFn("Pokedex:  dex [page], catch <id...>, release <recordId>, releaseall <id...>, update <recordId>, stats")
		printlnFn("Sharing:  share <id...>, shares, viewshare <token>")
		printlnFn("Session:  sync, logout, exit")
	} else {
		printlnFn("Available commands: register, login, list, search, show, viewshare, exit")
	}
}
