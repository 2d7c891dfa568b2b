package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	Login(ctx context.Context) error
	LoginWithGoogle(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	Shop(ctx context.Context) error
	Products(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context) error
	Show(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the farmstand CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Shop browsing and product detail are available without signing in; the
// management commands (add, delete, profile editing) require a session. The
// REPL only hides the affordances, the backend enforces authorization.
//
// Any errors returned by command handlers are ignored here; handlers surface
// their own errors inline. This keeps the REPL loop resilient and focused on
// I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("farmstand> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: home, (s)hop, (p)roducts, add, delete, show, profile, editprofile, logout, exit")
			} else {
				printlnFn("Available commands: login, signup, google, (s)hop, show, exit")
			}

		case "signup":
			_ = a.SignUp(ctx)

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.LoginWithGoogle(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "home":
			_ = a.Home(ctx)

		case "s", "shop":
			_ = a.Shop(ctx)

		case "p", "products":
			_ = a.Products(ctx)

		case "add":
			_ = a.Add(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "show":
			_ = a.Show(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "editprofile":
			_ = a.EditProfile(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// Root runs the REPL against stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	statusFn := func() string {
		if s := a.session.Current(); s != nil {
			if s.DisplayName != "" {
				return s.DisplayName
			}
			return s.Email
		}
		return "guest"
	}
	runREPL(ctx, a, statusFn, bufio.NewScanner(os.Stdin))
}
