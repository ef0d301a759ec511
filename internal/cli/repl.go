package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddEntry(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Search(ctx context.Context) error
	EditEntry(ctx context.Context) error
	DeleteEntry(ctx context.Context) error
	RestoreEntry(ctx context.Context) error
	TogglePin(ctx context.Context) error
	Streaks(ctx context.Context) error
	ListLabels(ctx context.Context) error
	AddLabel(ctx context.Context) error
	DeleteLabel(ctx context.Context) error
	ListEvents(ctx context.Context) error
	AddEvent(ctx context.Context) error
	ListSettings(ctx context.Context) error
	SetSetting(ctx context.Context) error
	ExportBackup(ctx context.Context) error
	ImportBackup(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Purge(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers log
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("jk %s> ", statusFn()))
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
				printlnFn("Entries:  add, (l)ist, show, search, edit, del, restore, pin, streaks")
				printlnFn("Labels:   labels, addlabel, dellabel")
				printlnFn("Events:   events, addevent")
				printlnFn("Settings: settings, set")
				printlnFn("Account:  export, import, passwd, purge, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "add":
			_ = a.AddEntry(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "search":
			_ = a.Search(ctx)

		case "edit":
			_ = a.EditEntry(ctx)

		case "del":
			_ = a.DeleteEntry(ctx)

		case "restore":
			_ = a.RestoreEntry(ctx)

		case "pin":
			_ = a.TogglePin(ctx)

		case "streaks":
			_ = a.Streaks(ctx)

		case "labels":
			_ = a.ListLabels(ctx)

		case "addlabel":
			_ = a.AddLabel(ctx)

		case "dellabel":
			_ = a.DeleteLabel(ctx)

		case "events":
			_ = a.ListEvents(ctx)

		case "addevent":
			_ = a.AddEvent(ctx)

		case "settings":
			_ = a.ListSettings(ctx)

		case "set":
			_ = a.SetSetting(ctx)

		case "export":
			_ = a.ExportBackup(ctx)

		case "import":
			_ = a.ImportBackup(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "purge":
			_ = a.Purge(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
