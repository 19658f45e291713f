package host

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeInitScript(t *testing.T, dir, source string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "init.gza"), []byte(source), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadConfigInvalidScript(t *testing.T) {
	dir := t.TempDir()
	writeInitScript(t, dir, "var broken = ")

	h := New(DefaultSandboxConfig(), nil)
	if err := h.LoadConfig(dir); err == nil {
		t.Fatal("expected LoadConfig to fail on invalid syntax")
	}
	if h.SetupInvoked() {
		t.Fatal("setup_invoked must remain false after a failed load")
	}
}

func TestLoadConfigAndCallSetup(t *testing.T) {
	dir := t.TempDir()
	writeInitScript(t, dir, `show_message("ready")`)

	h := New(DefaultSandboxConfig(), nil)
	if err := h.LoadConfig(dir); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if h.SetupInvoked() {
		t.Fatal("setup_invoked must be false before CallSetup")
	}
	if err := h.CallSetup(); err != nil {
		t.Fatalf("CallSetup: %v", err)
	}
	if !h.SetupInvoked() {
		t.Fatal("setup_invoked must be true after CallSetup")
	}
}

func TestCallSetupWithoutConfigReturnsErrNoConfig(t *testing.T) {
	h := New(DefaultSandboxConfig(), nil)
	if err := h.CallSetup(); err != ErrNoConfig {
		t.Fatalf("err = %v, want ErrNoConfig", err)
	}
}

// TestPluginSetupDeliversActionsInOrder matches spec.md §8 scenario 5: a
// plugin that registers one command and shows one message delivers
// exactly those two actions, in script order.
func TestPluginSetupDeliversActionsInOrder(t *testing.T) {
	h := New(DefaultSandboxConfig(), nil)
	cp, err := h.CompilePluginScript(`
		register_command("hello", "hello_handler")
		show_message("Hello World plugin loaded!")
	`, "hello-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}

	var commands []string
	var messages []string
	cb := Callbacks{
		ShowMessage: func(m string) { messages = append(messages, m) },
		RegisterCommand: func(name, handler, desc string) {
			commands = append(commands, name+"/"+handler)
		},
	}
	if err := cp.ExecuteSetup(cb); err != nil {
		t.Fatalf("ExecuteSetup: %v", err)
	}
	if len(commands) != 1 || commands[0] != "hello/hello_handler" {
		t.Fatalf("commands = %v, want exactly one hello/hello_handler", commands)
	}
	if len(messages) != 1 || messages[0] != "Hello World plugin loaded!" {
		t.Fatalf("messages = %v, want exactly one literal message", messages)
	}
}

func TestRegisterCommandCalledNTimesYieldsNRegistrations(t *testing.T) {
	h := New(DefaultSandboxConfig(), nil)
	cp, err := h.CompilePluginScript(`
		let i = 0
		while (i < 5) {
			register_command("cmd" .. i, "handler" .. i)
			i = i + 1
		}
	`, "looping-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	var names []string
	cb := Callbacks{RegisterCommand: func(name, handler, desc string) { names = append(names, name) }}
	if err := cp.ExecuteSetup(cb); err != nil {
		t.Fatalf("ExecuteSetup: %v", err)
	}
	if len(names) != 5 {
		t.Fatalf("len(names) = %d, want 5", len(names))
	}
	for i, name := range names {
		want := "cmd" + string(rune('0'+i))
		if name != want {
			t.Fatalf("names[%d] = %q, want %q (script order)", i, name, want)
		}
	}
}

// TestHostBuiltinWrongTypesRecordsInvalidScript matches spec.md §8: a host
// builtin called with wrong types produces InvalidScript and must not
// register anything.
func TestHostBuiltinWrongTypesRecordsInvalidScript(t *testing.T) {
	h := New(DefaultSandboxConfig(), nil)
	cp, err := h.CompilePluginScript(`register_command(1, 2)`, "bad-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	var called bool
	cb := Callbacks{RegisterCommand: func(name, handler, desc string) { called = true }}
	err = cp.ExecuteSetup(cb)
	if err != ErrInvalidScript {
		t.Fatalf("err = %v, want ErrInvalidScript", err)
	}
	if called {
		t.Fatal("RegisterCommand callback must not fire for invalid arguments")
	}
}

// TestNetworkAccessDeniedByDefault matches spec.md §8 scenario 6.
func TestNetworkAccessDeniedByDefault(t *testing.T) {
	cfg := DefaultSandboxConfig()
	h := New(cfg, nil)
	cp, err := h.CompilePluginScript(`return http_get("http://example.invalid/")`, "net-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	before := h.Stats().Violations
	if err := cp.ExecuteSetup(Callbacks{}); err != ErrUnauthorizedNetworkAccess {
		t.Fatalf("err = %v, want ErrUnauthorizedNetworkAccess", err)
	}
	after := h.Stats().Violations
	if after != before+1 {
		t.Fatalf("Violations = %d, want %d", after, before+1)
	}
}

func TestFilesystemAccessDeniedByDefault(t *testing.T) {
	h := New(DefaultSandboxConfig(), nil)
	cp, err := h.CompilePluginScript(`return read_file("/etc/passwd")`, "fs-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	if err := cp.ExecuteSetup(Callbacks{}); err != ErrUnauthorizedFileAccess {
		t.Fatalf("err = %v, want ErrUnauthorizedFileAccess", err)
	}
}

func TestFilesystemAccessHonorsBlockedGlob(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secret, []byte("nope"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg := DefaultSandboxConfig()
	cfg.AllowFilesystem = true
	cfg.BlockedGlobs = []string{dir + "/secret*"}
	h := New(cfg, nil)
	cp, err := h.CompilePluginScript(`return read_file("`+secret+`")`, "fs-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	if err := cp.ExecuteSetup(Callbacks{}); err != ErrUnauthorizedFileAccess {
		t.Fatalf("err = %v, want ErrUnauthorizedFileAccess", err)
	}
}

func TestFilesystemAccessAllowedGlobRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg := DefaultSandboxConfig()
	cfg.AllowFilesystem = true
	cfg.AllowedGlobs = []string{dir + "/*"}
	h := New(cfg, nil)
	cp, err := h.CompilePluginScript(`return read_file("`+path+`")`, "fs-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	if err := cp.ExecuteSetup(Callbacks{}); err != nil {
		t.Fatalf("ExecuteSetup: %v", err)
	}
}

func TestExecutionTimeoutSurfaced(t *testing.T) {
	cfg := DefaultSandboxConfig()
	cfg.MaxExecutionTime = 10 * time.Millisecond
	h := New(cfg, nil)
	cp, err := h.CompilePluginScript(`
		let i = 0
		while (true) {
			i = i + 1
		}
	`, "infinite-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	if err := cp.ExecuteSetup(Callbacks{}); err == nil {
		t.Fatal("expected an execution timeout error")
	}
}

func TestMemoryLimitExceededSurfaced(t *testing.T) {
	cfg := DefaultSandboxConfig()
	cfg.MaxMemoryBytes = 64
	h := New(cfg, nil)
	cp, err := h.CompilePluginScript(`
		let s = "x"
		let i = 0
		while (i < 1000) {
			s = s .. "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
			i = i + 1
		}
	`, "mem-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	if err := cp.ExecuteSetup(Callbacks{}); err == nil {
		t.Fatal("expected a memory limit error")
	}
}

type fakeEditor struct {
	text   string
	cursor int64
}

func (f *fakeEditor) BufferText() string             { return f.text }
func (f *fakeEditor) CursorOffset() int64             { return f.cursor }
func (f *fakeEditor) SetCursorOffset(offset int64)    { f.cursor = offset }
func (f *fakeEditor) SelectionRange() (int64, int64)  { return 0, 0 }
func (f *fakeEditor) InsertText(text string) error {
	f.text = f.text[:f.cursor] + text + f.text[f.cursor:]
	f.cursor += int64(len(text))
	return nil
}

func TestEditorBindingBuiltinsRoundTrip(t *testing.T) {
	ed := &fakeEditor{text: "hello"}
	h := New(DefaultSandboxConfig(), ed)
	cp, err := h.CompilePluginScript(`
		set_cursor_offset(5)
		insert_text(" world")
		return buffer_text()
	`, "editor-plugin")
	if err != nil {
		t.Fatalf("CompilePluginScript: %v", err)
	}
	if err := cp.ExecuteSetup(Callbacks{}); err != nil {
		t.Fatalf("ExecuteSetup: %v", err)
	}
	if ed.text != "hello world" {
		t.Fatalf("text = %q, want %q", ed.text, "hello world")
	}
}
