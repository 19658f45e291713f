package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ServerStatus indicates the current state of a server.
type ServerStatus int

const (
	ServerStatusStopped ServerStatus = iota
	ServerStatusStarting
	ServerStatusInitializing
	ServerStatusReady
	ServerStatusShuttingDown
	ServerStatusError
)

// String returns a human-readable status name.
func (s ServerStatus) String() string {
	switch s {
	case ServerStatusStopped:
		return "stopped"
	case ServerStatusStarting:
		return "starting"
	case ServerStatusInitializing:
		return "initializing"
	case ServerStatusReady:
		return "ready"
	case ServerStatusShuttingDown:
		return "shutting down"
	case ServerStatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Server represents a connection to a single language server. Its lifecycle
// (spawning -> initializing -> ready -> (shutting_down -> terminated) or
// crashed) is driven entirely by repeated calls to Poll; nothing in Server
// blocks on transport I/O.
type Server struct {
	mu sync.Mutex

	// Configuration
	config     ServerConfig
	languageID string

	// instanceID identifies this particular spawned process, distinct from
	// languageID which stays fixed across crash-recovery restarts. Useful for
	// correlating logs and supervisor events to the exact process instance.
	instanceID string

	// Process management
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	// Transport
	transport *Transport

	// State
	status       atomic.Int32
	capabilities ServerCapabilities
	serverInfo   *InitializeServerInfo
	lastError    error

	// Document tracking
	documents   map[DocumentURI]*Document
	documentsMu sync.RWMutex

	// Diagnostics
	diagnostics   map[DocumentURI][]Diagnostic
	diagnosticsMu sync.RWMutex
	diagHandler   func(uri DocumentURI, diagnostics []Diagnostic)

	// Workspace
	workspaceFolders []WorkspaceFolder

	// Lifecycle
	ctx       context.Context
	cancel    context.CancelFunc
	exitCh    chan error
	closeOnce sync.Once
}

// Document represents an open document tracked by the server.
type Document struct {
	URI        DocumentURI
	LanguageID string
	Version    int
	Content    string
}

// ServerConfig defines how to start a language server.
type ServerConfig struct {
	// Command is the executable to run.
	Command string

	// Args are command-line arguments.
	Args []string

	// Env are additional environment variables.
	Env map[string]string

	// WorkDir is the working directory (defaults to workspace root).
	WorkDir string

	// InitializationOptions are sent during initialize.
	InitializationOptions any

	// Settings are sent via workspace/didChangeConfiguration.
	Settings any

	// FilePatterns that this server handles (e.g., "*.go").
	FilePatterns []string

	// LanguageIDs that this server handles (e.g., "go").
	LanguageIDs []string

	// Timeout for requests (default: 30s).
	Timeout time.Duration
}

// NewServer creates a new server instance (not yet started).
func NewServer(config ServerConfig, languageID string) *Server {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	s := &Server{
		config:      config,
		languageID:  languageID,
		instanceID:  uuid.New().String(),
		documents:   make(map[DocumentURI]*Document),
		diagnostics: make(map[DocumentURI][]Diagnostic),
		exitCh:      make(chan error, 1),
	}
	s.status.Store(int32(ServerStatusStopped))
	return s
}

// InstanceID returns the unique identifier for this spawned process. Each
// call to NewServer (including each crash-recovery restart) gets a fresh
// one, so it distinguishes "the go server" (languageID, stable) from "this
// particular go server process" (instanceID, rotates on restart).
func (s *Server) InstanceID() string {
	return s.instanceID
}

// Start spawns the language server process and kicks off the initialize
// handshake. It returns as soon as the process is running and the
// initialize request has been written; it does not wait for the response.
// Status transitions from starting to initializing here, then to ready once
// Poll observes the initialize response. Callers that need a ready server
// before issuing requests drive that transition with repeated Poll calls
// (see WaitUntilReady for a bounded convenience loop).
func (s *Server) Start(ctx context.Context, workspaceFolders []WorkspaceFolder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status() != ServerStatusStopped {
		return fmt.Errorf("server already started")
	}

	s.status.Store(int32(ServerStatusStarting))
	s.workspaceFolders = workspaceFolders

	// Create cancellable context
	s.ctx, s.cancel = context.WithCancel(ctx)

	// Start the process
	if err := s.startProcess(); err != nil {
		s.status.Store(int32(ServerStatusError))
		s.lastError = err
		return err
	}

	// Create transport
	s.transport = NewTransport(s.stdout, s.stdin, nil)

	// Register notification handlers
	s.registerNotificationHandlers()

	// Monitor process exit on a background thread: per spec.md §5(d) this
	// thread never touches transport/editor state directly, only the
	// bounded exitCh the event loop observes via Poll/ExitChannel.
	go s.monitorProcess()

	s.status.Store(int32(ServerStatusInitializing))
	if err := s.sendInitialize(); err != nil {
		s.status.Store(int32(ServerStatusError))
		s.lastError = err
		s.stopProcess()
		return fmt.Errorf("initialize: %w", err)
	}

	return nil
}

// startProcess starts the language server executable.
func (s *Server) startProcess() error {
	cmd := exec.CommandContext(s.ctx, s.config.Command, s.config.Args...)

	// Set environment
	cmd.Env = os.Environ()
	for k, v := range s.config.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	// Set working directory
	if s.config.WorkDir != "" {
		cmd.Dir = s.config.WorkDir
	} else if len(s.workspaceFolders) > 0 {
		cmd.Dir = URIToFilePath(s.workspaceFolders[0].URI)
	}

	// Get pipes
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return fmt.Errorf("stderr pipe: %w", err)
	}

	// Start process
	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return fmt.Errorf("start process: %w", err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.stdout = stdout
	s.stderr = stderr

	return nil
}

// monitorProcess watches the process and signals when it exits. This is the
// one permitted background thread (spec.md §5(d)): it communicates with the
// event loop exclusively through the bounded exitCh, never touching
// transport or document state itself.
func (s *Server) monitorProcess() {
	if s.cmd == nil {
		return
	}

	err := s.cmd.Wait()
	select {
	case s.exitCh <- err:
	default:
	}
}

// stopProcess stops the server process.
func (s *Server) stopProcess() {
	if s.transport != nil {
		s.transport.Close()
	}

	if s.stdin != nil {
		s.stdin.Close()
	}
	if s.stdout != nil {
		s.stdout.Close()
	}
	if s.stderr != nil {
		s.stderr.Close()
	}

	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
}

// sendInitialize writes the initialize request without waiting for a
// response. The response is picked up by a later Poll call, which records
// capabilities, sends the initialized notification, and flips status to
// ready.
func (s *Server) sendInitialize() error {
	var rootURI DocumentURI
	if len(s.workspaceFolders) > 0 {
		rootURI = s.workspaceFolders[0].URI
	}

	params := InitializeParams{
		ProcessID:             os.Getpid(),
		RootURI:               rootURI,
		Capabilities:          DefaultClientCapabilities(),
		InitializationOptions: s.config.InitializationOptions,
		WorkspaceFolders:      s.workspaceFolders,
	}

	_, err := s.transport.Send("initialize", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			s.mu.Lock()
			s.lastError = fmt.Errorf("initialize request: %w", err)
			s.mu.Unlock()
			s.status.Store(int32(ServerStatusError))
			return
		}

		var result InitializeResult
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				s.mu.Lock()
				s.lastError = fmt.Errorf("unmarshal initialize result: %w", uerr)
				s.mu.Unlock()
				s.status.Store(int32(ServerStatusError))
				return
			}
		}

		s.mu.Lock()
		s.capabilities = result.Capabilities
		s.serverInfo = result.ServerInfo
		s.mu.Unlock()

		if nerr := s.transport.Notify("initialized", InitializedParams{}); nerr != nil {
			s.mu.Lock()
			s.lastError = fmt.Errorf("initialized notification: %w", nerr)
			s.mu.Unlock()
			s.status.Store(int32(ServerStatusError))
			return
		}

		s.status.Store(int32(ServerStatusReady))
	})
	return err
}

// Poll drives this server's transport exactly one non-blocking step:
// it reads whatever is currently available, dispatches responses and
// notifications, and expires timed-out requests. It also reaps the process
// exit channel so a crash is observed promptly. Safe to call every frame.
func (s *Server) Poll() error {
	select {
	case err := <-s.exitCh:
		if ServerStatus(s.status.Load()) != ServerStatusStopped {
			s.mu.Lock()
			s.lastError = fmt.Errorf("%w: %v", ErrServerCrashed, err)
			s.mu.Unlock()
			s.status.Store(int32(ServerStatusError))
		}
	default:
	}

	if s.transport == nil {
		return nil
	}
	_, err := s.transport.Poll()
	return err
}

// WaitUntilReady is a bounded convenience loop for callers that have no
// other driver for the event loop (tests, the one-shot composition root).
// It repeatedly calls Poll and yields the goroutine between attempts; it
// never performs a blocking read itself; the only blocking primitive is
// time.Sleep, used purely to avoid a hot spin.
func (s *Server) WaitUntilReady(ctx context.Context) error {
	const pumpInterval = 2 * time.Millisecond
	for {
		status := s.Status()
		if status == ServerStatusReady {
			return nil
		}
		if status == ServerStatusError || status == ServerStatusStopped {
			return s.LastError()
		}
		if err := s.Poll(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pumpInterval):
		}
	}
}

// registerNotificationHandlers sets up handlers for server notifications.
func (s *Server) registerNotificationHandlers() {
	// Diagnostics
	s.transport.OnNotification("textDocument/publishDiagnostics", func(method string, params json.RawMessage) {
		var p PublishDiagnosticsParams
		if err := json.Unmarshal(params, &p); err != nil {
			return
		}

		s.diagnosticsMu.Lock()
		if len(p.Diagnostics) == 0 {
			delete(s.diagnostics, p.URI)
		} else {
			s.diagnostics[p.URI] = p.Diagnostics
		}
		handler := s.diagHandler
		s.diagnosticsMu.Unlock()

		if handler != nil {
			handler(p.URI, p.Diagnostics)
		}
	})

	// Log messages (optional - just consume them)
	s.transport.OnNotification("window/logMessage", func(method string, params json.RawMessage) {
		// Could log these somewhere
	})

	// Show message (optional)
	s.transport.OnNotification("window/showMessage", func(method string, params json.RawMessage) {
		// Could display these to user
	})
}

// Shutdown shuts down the server: sends a shutdown request, follows
// immediately with an exit notification, then closes the pipes and kills
// the process. It waits neither for the shutdown response nor for the
// process to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := ServerStatus(s.status.Load())
	if status == ServerStatusStopped || status == ServerStatusShuttingDown {
		return nil
	}

	s.status.Store(int32(ServerStatusShuttingDown))

	if s.transport != nil && !s.transport.IsClosed() {
		_, _ = s.transport.Send("shutdown", nil, 5*time.Second, func(*Response, error) {})
		_ = s.transport.Notify("exit", nil)
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.stopProcess()

	s.status.Store(int32(ServerStatusStopped))
	return nil
}

// CancelRequest cancels a pending request by the id Send returned, sending
// $/cancelRequest to the server and discarding any later result for it.
func (s *Server) CancelRequest(id int64) error {
	if s.transport == nil {
		return nil
	}
	return s.transport.Cancel(id)
}

// Status returns the current server status.
func (s *Server) Status() ServerStatus {
	return ServerStatus(s.status.Load())
}

// Capabilities returns the server's capabilities.
func (s *Server) Capabilities() ServerCapabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capabilities
}

// InitializeServerInfo returns information about the server from initialization.
func (s *Server) InitializeServerInfo() *InitializeServerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverInfo
}

// LastError returns the last error that occurred.
func (s *Server) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// LanguageID returns the language this server handles.
func (s *Server) LanguageID() string {
	return s.languageID
}

// ExitChannel returns a channel that receives when the process exits.
func (s *Server) ExitChannel() <-chan error {
	return s.exitCh
}

// OnDiagnostics registers a handler for diagnostic notifications.
func (s *Server) OnDiagnostics(handler func(uri DocumentURI, diagnostics []Diagnostic)) {
	s.diagnosticsMu.Lock()
	s.diagHandler = handler
	s.diagnosticsMu.Unlock()
}

// --- Document Management ---

// OpenDocument notifies the server that a document was opened.
func (s *Server) OpenDocument(ctx context.Context, path, languageID, content string) error {
	if s.Status() != ServerStatusReady {
		return ErrServerNotReady
	}

	uri := FilePathToURI(path)

	s.documentsMu.Lock()
	if _, exists := s.documents[uri]; exists {
		s.documentsMu.Unlock()
		return ErrDocumentAlreadyOpen
	}

	doc := &Document{
		URI:        uri,
		LanguageID: languageID,
		Version:    1,
		Content:    content,
	}
	s.documents[uri] = doc
	s.documentsMu.Unlock()

	params := DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{
			URI:        uri,
			LanguageID: languageID,
			Version:    1,
			Text:       content,
		},
	}

	return s.transport.Notify("textDocument/didOpen", params)
}

// CloseDocument notifies the server that a document was closed.
func (s *Server) CloseDocument(ctx context.Context, path string) error {
	if s.Status() != ServerStatusReady {
		return ErrServerNotReady
	}

	uri := FilePathToURI(path)

	s.documentsMu.Lock()
	if _, exists := s.documents[uri]; !exists {
		s.documentsMu.Unlock()
		return ErrDocumentNotOpen
	}
	delete(s.documents, uri)
	s.documentsMu.Unlock()

	params := DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}

	return s.transport.Notify("textDocument/didClose", params)
}

// ChangeDocument sends document changes to the server.
func (s *Server) ChangeDocument(ctx context.Context, path string, changes []TextDocumentContentChangeEvent) error {
	if s.Status() != ServerStatusReady {
		return ErrServerNotReady
	}

	uri := FilePathToURI(path)

	s.documentsMu.Lock()
	doc, exists := s.documents[uri]
	if !exists {
		s.documentsMu.Unlock()
		return ErrDocumentNotOpen
	}
	doc.Version++
	version := doc.Version

	// Update cached content (for full sync, take the last change)
	for _, change := range changes {
		if change.Range == nil {
			doc.Content = change.Text
		}
		// For incremental sync, we'd need to apply the range edit
	}
	s.documentsMu.Unlock()

	params := DidChangeTextDocumentParams{
		TextDocument: VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: TextDocumentIdentifier{URI: uri},
			Version:                version,
		},
		ContentChanges: changes,
	}

	return s.transport.Notify("textDocument/didChange", params)
}

// SaveDocument notifies the server that a document was saved.
func (s *Server) SaveDocument(ctx context.Context, path string, content string) error {
	if s.Status() != ServerStatusReady {
		return ErrServerNotReady
	}

	uri := FilePathToURI(path)

	params := DidSaveTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Text:         content,
	}

	return s.transport.Notify("textDocument/didSave", params)
}

// IsDocumentOpen returns true if the document is open.
func (s *Server) IsDocumentOpen(path string) bool {
	uri := FilePathToURI(path)
	s.documentsMu.RLock()
	_, exists := s.documents[uri]
	s.documentsMu.RUnlock()
	return exists
}

// GetDocument returns a copy of the document if open.
func (s *Server) GetDocument(path string) (*Document, bool) {
	uri := FilePathToURI(path)
	s.documentsMu.RLock()
	defer s.documentsMu.RUnlock()

	doc, exists := s.documents[uri]
	if !exists {
		return nil, false
	}

	// Return a copy
	return &Document{
		URI:        doc.URI,
		LanguageID: doc.LanguageID,
		Version:    doc.Version,
		Content:    doc.Content,
	}, true
}

// OpenDocuments returns all open documents.
func (s *Server) OpenDocuments() []*Document {
	s.documentsMu.RLock()
	defer s.documentsMu.RUnlock()

	docs := make([]*Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, &Document{
			URI:        doc.URI,
			LanguageID: doc.LanguageID,
			Version:    doc.Version,
			Content:    doc.Content,
		})
	}
	return docs
}

// --- Diagnostics ---

// Diagnostics returns the current diagnostics for a file.
func (s *Server) Diagnostics(path string) []Diagnostic {
	uri := FilePathToURI(path)
	s.diagnosticsMu.RLock()
	defer s.diagnosticsMu.RUnlock()
	return s.diagnostics[uri]
}

// AllDiagnostics returns diagnostics for all files.
func (s *Server) AllDiagnostics() map[string][]Diagnostic {
	s.diagnosticsMu.RLock()
	defer s.diagnosticsMu.RUnlock()

	result := make(map[string][]Diagnostic, len(s.diagnostics))
	for uri, diags := range s.diagnostics {
		result[URIToFilePath(uri)] = diags
	}
	return result
}

// --- LSP Requests ---
//
// Every request method below allocates a request id via transport.Send and
// returns immediately; the supplied callback fires later from a Poll call
// once the response (or a timeout) arrives. CancelRequest(id) aborts one
// in flight.

// Completion requests completion items at a position.
func (s *Server) Completion(path string, pos Position, callback func(*CompletionList, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if s.capabilities.CompletionProvider == nil {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
		Context: &CompletionContext{
			TriggerKind: CompletionTriggerKindInvoked,
		},
	}

	return s.transport.Send("textDocument/completion", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		list, perr := ParseCompletionResult(resp.Result)
		callback(list, perr)
	})
}

// CompletionWithTrigger requests completion items, reporting the character
// that triggered the request as part of the completion context.
func (s *Server) CompletionWithTrigger(path string, pos Position, triggerChar string, callback func(*CompletionList, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if s.capabilities.CompletionProvider == nil {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
		Context: &CompletionContext{
			TriggerKind:      CompletionTriggerKindTriggerCharacter,
			TriggerCharacter: triggerChar,
		},
	}

	return s.transport.Send("textDocument/completion", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		list, perr := ParseCompletionResult(resp.Result)
		callback(list, perr)
	})
}

// ResolveCompletionItem asks the server to fill in additional detail (such
// as documentation or the final edit) for a completion item.
func (s *Server) ResolveCompletionItem(item CompletionItem, callback func(*CompletionItem, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if s.capabilities.CompletionProvider == nil || !s.capabilities.CompletionProvider.ResolveProvider {
		return 0, ErrNotSupported
	}

	return s.transport.Send("completionItem/resolve", item, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var resolved CompletionItem
		if perr := json.Unmarshal(resp.Result, &resolved); perr != nil {
			callback(nil, ErrInvalidResponse)
			return
		}
		callback(&resolved, nil)
	})
}

// CompletionTriggerCharacters returns the trigger characters advertised by
// the server's completion capability.
func (s *Server) CompletionTriggerCharacters() []string {
	if s.capabilities.CompletionProvider == nil {
		return nil
	}
	return s.capabilities.CompletionProvider.TriggerCharacters
}

// Hover requests hover information at a position.
func (s *Server) Hover(path string, pos Position, callback func(*Hover, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.HoverProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
	}

	return s.transport.Send("textDocument/hover", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result *Hover
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// Definition returns the definition location(s) for a symbol.
func (s *Server) Definition(path string, pos Position, callback func([]Location, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.DefinitionProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     pos,
	}

	return s.transport.Send("textDocument/definition", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		locs, perr := ParseLocationResult(resp.Result)
		callback(locs, perr)
	})
}

// TypeDefinition returns the type definition location(s).
func (s *Server) TypeDefinition(path string, pos Position, callback func([]Location, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.TypeDefinitionProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     pos,
	}

	return s.transport.Send("textDocument/typeDefinition", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		locs, perr := ParseLocationResult(resp.Result)
		callback(locs, perr)
	})
}

// References finds all references to the symbol at a position.
func (s *Server) References(path string, pos Position, includeDecl bool, callback func([]Location, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.ReferencesProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := ReferenceParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
		Context: ReferenceContext{
			IncludeDeclaration: includeDecl,
		},
	}

	return s.transport.Send("textDocument/references", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result []Location
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// DocumentSymbols returns symbols in a document.
func (s *Server) DocumentSymbols(path string, callback func([]DocumentSymbol, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.DocumentSymbolProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := DocumentSymbolParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}

	return s.transport.Send("textDocument/documentSymbol", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result []DocumentSymbol
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// WorkspaceSymbols searches for symbols in the workspace.
func (s *Server) WorkspaceSymbols(query string, callback func([]SymbolInformation, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.WorkspaceSymbolProvider) {
		return 0, ErrNotSupported
	}

	params := WorkspaceSymbolParams{Query: query}

	return s.transport.Send("workspace/symbol", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result []SymbolInformation
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// CodeActions returns available code actions for a range.
func (s *Server) CodeActions(path string, rng Range, diags []Diagnostic, callback func([]CodeAction, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.CodeActionProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        rng,
		Context: CodeActionContext{
			Diagnostics: diags,
		},
	}

	return s.transport.Send("textDocument/codeAction", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result []CodeAction
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// Format formats an entire document.
func (s *Server) Format(path string, opts FormattingOptions, callback func([]TextEdit, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.DocumentFormattingProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := DocumentFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Options:      opts,
	}

	return s.transport.Send("textDocument/formatting", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result []TextEdit
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// FormatRange formats a range within a document.
func (s *Server) FormatRange(path string, rng Range, opts FormattingOptions, callback func([]TextEdit, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.DocumentRangeFormattingProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := DocumentRangeFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        rng,
		Options:      opts,
	}

	return s.transport.Send("textDocument/rangeFormatting", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result []TextEdit
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// Rename renames a symbol.
func (s *Server) Rename(path string, pos Position, newName string, callback func(*WorkspaceEdit, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if !HasCapability(s.capabilities.RenameProvider) {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := RenameParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
		NewName: newName,
	}

	return s.transport.Send("textDocument/rename", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result *WorkspaceEdit
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// SignatureHelp returns signature help information.
func (s *Server) SignatureHelp(path string, pos Position, callback func(*SignatureHelp, error)) (int64, error) {
	if s.Status() != ServerStatusReady {
		return 0, ErrServerNotReady
	}
	if s.capabilities.SignatureHelpProvider == nil {
		return 0, ErrNotSupported
	}

	uri := FilePathToURI(path)
	params := SignatureHelpParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
	}

	return s.transport.Send("textDocument/signatureHelp", params, s.config.Timeout, func(resp *Response, err error) {
		if err != nil {
			callback(nil, err)
			return
		}
		var result *SignatureHelp
		if len(resp.Result) > 0 {
			if uerr := json.Unmarshal(resp.Result, &result); uerr != nil {
				callback(nil, fmt.Errorf("unmarshal result: %w", uerr))
				return
			}
		}
		callback(result, nil)
	})
}

// --- Helpers ---

// MatchesFile returns true if this server handles the given file.
func (s *Server) MatchesFile(path string) bool {
	// Check language ID
	langID := DetectLanguageID(path)
	for _, id := range s.config.LanguageIDs {
		if id == langID {
			return true
		}
	}

	// Check file patterns
	base := filepath.Base(path)
	for _, pattern := range s.config.FilePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
