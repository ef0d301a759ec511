package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) call(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.call("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.call("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.call("logout")
}
func (f *fakeExec) AddEntry(ctx context.Context) error       { return f.call("add") }
func (f *fakeExec) List(ctx context.Context) error           { return f.call("list") }
func (f *fakeExec) Show(ctx context.Context) error           { return f.call("show") }
func (f *fakeExec) Search(ctx context.Context) error         { return f.call("search") }
func (f *fakeExec) EditEntry(ctx context.Context) error      { return f.call("edit") }
func (f *fakeExec) DeleteEntry(ctx context.Context) error    { return f.call("del") }
func (f *fakeExec) RestoreEntry(ctx context.Context) error   { return f.call("restore") }
func (f *fakeExec) TogglePin(ctx context.Context) error      { return f.call("pin") }
func (f *fakeExec) Streaks(ctx context.Context) error        { return f.call("streaks") }
func (f *fakeExec) ListLabels(ctx context.Context) error     { return f.call("labels") }
func (f *fakeExec) AddLabel(ctx context.Context) error       { return f.call("addlabel") }
func (f *fakeExec) DeleteLabel(ctx context.Context) error    { return f.call("dellabel") }
func (f *fakeExec) ListEvents(ctx context.Context) error     { return f.call("events") }
func (f *fakeExec) AddEvent(ctx context.Context) error       { return f.call("addevent") }
func (f *fakeExec) ListSettings(ctx context.Context) error   { return f.call("settings") }
func (f *fakeExec) SetSetting(ctx context.Context) error     { return f.call("set") }
func (f *fakeExec) ExportBackup(ctx context.Context) error   { return f.call("export") }
func (f *fakeExec) ImportBackup(ctx context.Context) error   { return f.call("import") }
func (f *fakeExec) ChangePassword(ctx context.Context) error { return f.call("passwd") }
func (f *fakeExec) Purge(ctx context.Context) error          { return f.call("purge") }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"add",
		"l",
		"search",
		"streaks",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "add", "list", "search", "streaks", "logout"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_EmptyLinesAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\n   \nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_DispatchCoversAllCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	commands := []string{
		"register", "login", "add", "list", "show", "search", "edit",
		"del", "restore", "pin", "streaks", "labels", "addlabel",
		"dellabel", "events", "addevent", "settings", "set",
		"export", "import", "passwd", "purge", "logout",
	}
	input := strings.NewReader(strings.Join(append(commands, "exit"), "\n"))
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != len(commands) {
		t.Fatalf("got %d calls, want %d: %v", len(exec.calls), len(commands), exec.calls)
	}
}
