// Package plugin provides the plugin system for Grim.
//
// The plugin system allows extending the editor with sandboxed scripts
// (compiled and run by internal/script/host) that can:
//   - Define custom commands
//   - Create keybindings
//   - Subscribe to editor events
//   - Integrate with the buffer and cursor
//
// # Plugin Structure
//
// Plugins can be either single-file or directory-based:
//
// Single-file plugin:
//
//	~/.config/grim/plugins/myplugin.gza
//
// Directory plugin:
//
//	~/.config/grim/plugins/myplugin/
//	├── plugin.json      # Manifest (optional but recommended)
//	└── init.gza         # Entry point
//
// # Manifest
//
// The plugin.json manifest describes the plugin:
//
//	{
//	  "name": "my-plugin",
//	  "version": "1.0.0",
//	  "displayName": "My Plugin",
//	  "description": "A helpful plugin",
//	  "main": "init.gza",
//	  "capabilities": ["filesystem.read"],
//	  "commands": [
//	    {"id": "my-plugin.doThing", "title": "Do Thing"}
//	  ]
//	}
//
// # Capabilities
//
// Plugins must declare required capabilities in their manifest:
//   - filesystem.read: Read files
//   - filesystem.write: Write files
//   - network: Make network requests
//   - shell: Execute shell commands
//   - clipboard: Access clipboard
//   - process.spawn: Spawn processes
//   - unsafe: Disable sandbox restrictions
//
// Capabilities are translated into a internal/script/host.SandboxConfig
// for the plugin's runtime; see Host.sandboxConfig.
//
// # Plugin Lifecycle
//
// Plugins go through these states:
//
//	StateUnloaded -> Load() -> StateLoaded
//	StateLoaded -> Activate() -> StateActive
//	StateActive -> Deactivate() -> StateLoaded
//	StateLoaded -> Unload() -> StateUnloaded
//
// The Host type manages a single plugin's lifecycle and scripting runtime.
// The Manager type coordinates multiple plugins; System wires a Manager to
// an editor binding and action callbacks.
//
// # Security
//
// Plugins run inside the sandboxed bytecode VM in internal/script/vm, with:
//   - Capability-based filesystem/network access control
//   - Per-run file/network operation budgets
//   - A tracked memory allocator with a hard cap
//   - Cooperative wall-clock execution timeouts
//
// # Example Plugin
//
//	function activate() {
//	    register_command("my-plugin.hello", "my_plugin_hello")
//	}
//
//	function my_plugin_hello() {
//	    show_message("Hello from plugin!")
//	}
//
//	function deactivate() {
//	}
package plugin
