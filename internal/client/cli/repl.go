package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	CheckRut(ctx context.Context, raw string) error
}

// runREPL starts a read-eval-print loop for the gestor CLI.
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account
//	  - login            authenticate
//	  - status           show the session
//	  - rut <value>      validate a tax id
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - help, status, rut, exit | quit
//	  - logout           log out
//
// The loop exits on EOF of reader or on "exit"/"quit". Errors returned by
// command handlers are ignored here; handlers report to the user themselves.
// Commands share reader with the handlers' prompts.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gestor %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, rut <value>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, rut <value>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "rut":
			if len(args) == 0 {
				printlnFn("Usage: rut <value>")
				continue
			}
			_ = a.CheckRut(ctx, strings.Join(args, ""))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
