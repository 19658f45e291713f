// Package lsp provides Language Server Protocol (LSP) client integration for Grim.
//
// The LSP layer enables intelligent code features by communicating with external
// language servers (gopls, rust-analyzer, typescript-language-server, etc.).
// It abstracts the complexity of JSON-RPC communication, server lifecycle management,
// and protocol negotiation while exposing a clean interface to the rest of Grim.
//
// # Architecture
//
// The package is organized around these core components:
//
//   - Client: High-level interface for LSP operations
//   - Manager: Manages multiple language server lifecycles
//   - Server: Single server connection and communication
//   - Transport: JSON-RPC 2.0 protocol implementation, driven by Poll
//
// # Concurrency model
//
// Transport never blocks waiting on the network: Send/Notify/Cancel return
// immediately, and Poll is the single suspension point that reads whatever
// is currently available, dispatches it, and returns. Every request method
// up through Server, Manager, and Client follows the same shape --
// (args..., callback) (requestID int64, err error) -- so a caller gets back
// either 0 (the callback already ran, e.g. from cache) or a pending request
// id to track. Nothing completes until a Poll/PollAll call drains the
// transport; there is no background reader goroutine.
//
// # Quick Start
//
// Create and start the LSP client:
//
//	client := lsp.NewClient(lsp.WithClientRequestTimeout(10 * time.Second))
//	client.RegisterServer("go", lsp.ServerConfig{Command: "gopls", Args: []string{"serve"}})
//
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Shutdown(ctx)
//
//	// Open a document
//	client.OpenDocument(ctx, "/path/to/file.go", content)
//
//	// Request completions; the callback fires from a later Poll/PollAll call
//	client.Complete(ctx, "/path/to/file.go", lsp.Position{Line: 10, Character: 5}, "", func(res *lsp.CompletionResult, err error) {
//	    // handle result
//	})
//	client.PollAll()
//
// # Server Configuration
//
// Servers are registered per-language via Manager.RegisterServer/Client.RegisterServer,
// or seeded in bulk from AutoDetectServers/DefaultServerConfigs:
//
//	client.RegisterServer("go", lsp.ServerConfig{Command: "gopls", Args: []string{"serve"}})
//	client.RegisterServer("rust", lsp.ServerConfig{Command: "rust-analyzer"})
//
// # Features
//
// The LSP client supports:
//   - Code completion with filtering and sorting
//   - Hover information
//   - Go-to-definition/type-definition
//   - Find references
//   - Document and workspace symbols
//   - Real-time diagnostics (errors, warnings)
//   - Code actions (quick fixes, refactorings)
//   - Document formatting
//   - Symbol renaming
//   - Signature help
//
// # Multi-Server Support
//
// The Manager handles multiple concurrent language servers. Servers are started
// lazily when files of that language are opened. Closing a language's last
// document leaves its server running; servers are stopped by Manager.Shutdown.
//
// # Crash Recovery
//
// A Manager created WithSupervision monitors its servers and restarts a
// crashed one with exponential backoff, re-opening the tracked documents on
// the new server instance. Without supervision a crashed server stays down.
//
// # Thread Safety
//
// The Client and Manager are safe for concurrent use. Individual Server instances
// use internal locking for thread safety. Request callbacks, however, all run
// synchronously on the goroutine that calls Poll/PollAll -- they are never
// invoked concurrently with each other or with Poll itself.
package lsp
