// Package main is the composition root for Grim's hard core: it wires
// together the text engine, the plugin host, and the LSP client with no
// terminal or UI backend attached (spec.md §1 Non-goals).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/grim-editor/grim/internal/editor"
	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/lsp"
	"github.com/grim-editor/grim/internal/plugin"
	"github.com/grim-editor/grim/internal/plugin/security"
	scripthost "github.com/grim-editor/grim/internal/script/host"
	"github.com/grim-editor/grim/internal/session"
)

// Options holds the flags parsed from argv.
type Options struct {
	FilePath      string
	WorkspacePath string
	SessionPath   string
	LockfilePath  string
	Debug         bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger := log.New(os.Stderr, "grim: ", log.LstdFlags)
	if opts.Debug {
		logger.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	app, err := newApplication(opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer app.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		app.Shutdown()
		os.Exit(0)
	}()

	if err := app.Run(); err != nil {
		if errors.Is(err, errQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() Options {
	var opts Options
	flag.StringVar(&opts.WorkspacePath, "workspace", "", "Workspace/project directory")
	flag.StringVar(&opts.WorkspacePath, "w", "", "Workspace/project directory (shorthand)")
	flag.StringVar(&opts.SessionPath, "session", "", "Path to session file (default: <workspace>/.grim/session.json)")
	flag.StringVar(&opts.LockfilePath, "lockfile", "", "Path to plugin lockfile (default: <workspace>/.grim/grim.lock)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.Parse()

	if opts.WorkspacePath == "" {
		if cwd, err := os.Getwd(); err == nil {
			opts.WorkspacePath = cwd
		}
	}
	if opts.SessionPath == "" {
		opts.SessionPath = filepath.Join(opts.WorkspacePath, ".grim", "session.json")
	}
	if opts.LockfilePath == "" {
		opts.LockfilePath = filepath.Join(opts.WorkspacePath, ".grim", "grim.lock")
	}
	if flag.NArg() > 0 {
		opts.FilePath = flag.Arg(0)
	}
	return opts
}

// errQuit signals a clean, intentional exit from Run.
var errQuit = errors.New("quit")

// application is the assembled hard core: one buffer/editor pair, the
// plugin system wired to it, and the LSP client manager. It has no
// rendering surface and no input loop, so Run returns as soon as startup
// completes.
type application struct {
	logger *log.Logger
	opts   Options

	buf    *buffer.Buffer
	editor *editor.Editor

	plugins *plugin.System
	lspMgr  *lsp.Manager

	sess     *session.Session
	glyphLog *os.File
}

func newApplication(opts Options, logger *log.Logger) (*application, error) {
	sess, err := session.Load(opts.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	buf, err := loadBuffer(opts)
	if err != nil {
		return nil, fmt.Errorf("load buffer: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(opts.WorkspacePath, ".grim"), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	glyphLog, err := os.OpenFile(
		filepath.Join(opts.WorkspacePath, ".grim", "glyphfreq.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	var glyphW io.Writer
	if err == nil {
		glyphW = glyphLog
	}

	ed := editor.New(buf,
		editor.WithLogger(logger),
		editor.WithGlyphFrequencyWriter(glyphW),
	)
	if active := activeCursorOffset(opts, sess); active > 0 {
		ed.SetCursorOffset(active)
	}

	plugins := newPluginSystem(ed, logger)
	lspMgr := newLSPManager(opts)

	return &application{
		logger:   logger,
		opts:     opts,
		buf:      buf,
		editor:   ed,
		plugins:  plugins,
		lspMgr:   lspMgr,
		sess:     sess,
		glyphLog: glyphLog,
	}, nil
}

func loadBuffer(opts Options) (*buffer.Buffer, error) {
	if opts.FilePath == "" {
		return buffer.NewBuffer(), nil
	}

	f, err := os.Open(opts.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return buffer.NewBuffer(), nil
		}
		return nil, err
	}
	defer f.Close()

	return buffer.NewBufferFromReader(f)
}

func activeCursorOffset(opts Options, sess *session.Session) int64 {
	for _, b := range sess.Buffers {
		if b.Path == opts.FilePath {
			return b.CursorOffset
		}
	}
	return 0
}

// newPluginSystem wires the running editor as the scripting host's
// EditorBinding and routes registration callbacks to a thin logging sink
// (spec.md §4.5/§4.6; there is no command palette or keymap dispatcher
// in the hard core to route these into, so they are logged and dropped).
func newPluginSystem(ed *editor.Editor, logger *log.Logger) *plugin.System {
	cfg := plugin.DefaultManagerConfig()
	cfg.EditorBinding = ed
	cfg.ResourceLimits = security.DefaultResourceLimits()
	cfg.Callbacks = scripthost.Callbacks{
		ShowMessage: func(msg string) {
			logger.Printf("plugin message: %s", msg)
		},
		RegisterCommand: func(name, handler, desc string) {
			logger.Printf("plugin registered command %q (%s)", name, desc)
		},
		RegisterKeymap: func(keys, handler, mode, desc string) {
			logger.Printf("plugin registered keymap %q in mode %s (%s)", keys, mode, desc)
		},
		RegisterEventHandler: func(event, handler string) {
			logger.Printf("plugin registered event handler for %q", event)
		},
		RegisterTheme: func(name, colors string) {
			logger.Printf("plugin registered theme %q", name)
		},
	}

	sys := plugin.NewSystem(plugin.SystemConfig{ManagerConfig: cfg})
	return sys
}

func newLSPManager(opts Options) *lsp.Manager {
	mgr := lsp.NewManager(lsp.WithRequestTimeout(10 * time.Second))
	for lang, cfg := range lsp.AutoDetectServers() {
		mgr.RegisterServer(lang, cfg)
	}
	if opts.WorkspacePath != "" {
		mgr.SetWorkspaceFolders([]lsp.WorkspaceFolder{
			{URI: lsp.FilePathToURI(opts.WorkspacePath), Name: filepath.Base(opts.WorkspacePath)},
		})
	}
	return mgr
}

// Run initializes the plugin system and loads every discovered plugin in
// dependency order. With no UI backend attached there is no input loop to
// drive, so Run returns once startup completes; a future terminal
// frontend would instead block here pumping key events.
func (a *application) Run() error {
	ctx := context.Background()

	if err := a.plugins.Initialize(); err != nil {
		return fmt.Errorf("initialize plugin system: %w", err)
	}

	if failed, err := a.plugins.Manager().LoadAllOrdered(ctx); err != nil {
		a.logger.Printf("plugin load order resolution failed: %v", err)
	} else {
		for name, loadErr := range failed {
			a.logger.Printf("plugin %q failed to load: %v", name, loadErr)
		}
	}

	return nil
}

// Shutdown unloads all plugins, shuts down LSP servers, and persists the
// lockfile and session file. Safe to call more than once.
func (a *application) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.plugins.IsInitialized() {
		if err := a.plugins.Manager().WriteLockfile(a.opts.LockfilePath); err != nil {
			a.logger.Printf("write lockfile: %v", err)
		}
		if err := a.plugins.Shutdown(ctx); err != nil {
			a.logger.Printf("shutdown plugin system: %v", err)
		}
	}

	if err := a.lspMgr.Shutdown(ctx); err != nil {
		a.logger.Printf("shutdown lsp manager: %v", err)
	}

	a.saveSession()

	if a.glyphLog != nil {
		a.glyphLog.Close()
	}
}

func (a *application) saveSession() {
	sess := &session.Session{ActivePath: a.opts.FilePath}
	if a.opts.FilePath != "" {
		sess.Buffers = []session.BufferState{
			{Path: a.opts.FilePath, CursorOffset: int64(a.editor.PrimaryOffset())},
		}
	}
	if err := session.Save(a.opts.SessionPath, sess); err != nil {
		a.logger.Printf("save session: %v", err)
	}
}
