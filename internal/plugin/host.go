package plugin

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/grim-editor/grim/internal/plugin/security"
	scripthost "github.com/grim-editor/grim/internal/script/host"
)

// Host manages a single plugin's scripting runtime and lifecycle.
type Host struct {
	mu sync.RWMutex

	// Identity
	name     string
	manifest *Manifest

	// instanceID identifies one load cycle of this plugin. It is
	// regenerated on every successful Load, so log lines from a plugin
	// that crashed and reloaded can be told apart from the prior run even
	// though name stays the same.
	instanceID string

	// Scripting runtime
	runtime *scripthost.Host
	plugin  *scripthost.CompiledPlugin
	binding scripthost.EditorBinding
	cb      scripthost.Callbacks

	// State
	pluginState State
	err         error

	// Configuration
	config map[string]interface{}

	// Resource tracking
	commands      []string
	keymaps       []string
	subscriptions []string

	// Options
	limits security.ResourceLimits
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostResourceLimits sets the resource limits granted to the plugin's
// scripting runtime.
func WithHostResourceLimits(limits security.ResourceLimits) HostOption {
	return func(h *Host) {
		h.limits = limits
	}
}

// WithHostConfig sets the initial configuration for the plugin.
func WithHostConfig(config map[string]interface{}) HostOption {
	return func(h *Host) {
		h.config = config
	}
}

// WithHostEditorBinding wires the plugin's buffer/cursor builtins to ed.
func WithHostEditorBinding(ed scripthost.EditorBinding) HostOption {
	return func(h *Host) {
		h.binding = ed
	}
}

// WithHostCallbacks wires delivery of the plugin's registration actions
// (commands, keymaps, event handlers, themes, messages).
func WithHostCallbacks(cb scripthost.Callbacks) HostOption {
	return func(h *Host) {
		h.cb = cb
	}
}

// NewHost creates a new plugin host for the given manifest.
func NewHost(manifest *Manifest, opts ...HostOption) (*Host, error) {
	if manifest == nil {
		return nil, ErrNilManifest
	}

	h := &Host{
		name:        manifest.Name,
		manifest:    manifest,
		pluginState: StateUnloaded,
		config:      make(map[string]interface{}),
		limits:      security.DefaultResourceLimits(),
	}

	for _, opt := range opts {
		opt(h)
	}

	for key, prop := range manifest.ConfigSchema {
		if prop.Default != nil {
			h.config[key] = prop.Default
		}
	}

	return h, nil
}

// Name returns the plugin name.
func (h *Host) Name() string {
	return h.name
}

// InstanceID returns the identifier of the plugin's current load cycle, or
// "" if it has never been loaded.
func (h *Host) InstanceID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.instanceID
}

// Manifest returns the plugin manifest.
func (h *Host) Manifest() *Manifest {
	return h.manifest
}

// State returns the current plugin state.
func (h *Host) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pluginState
}

// Error returns any error that occurred.
func (h *Host) Error() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// Config returns the plugin configuration.
func (h *Host) Config() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	config := make(map[string]interface{}, len(h.config))
	for k, v := range h.config {
		config[k] = v
	}
	return config
}

// SetConfig sets a configuration value.
func (h *Host) SetConfig(key string, value interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.config[key] = value
}

// sandboxConfig derives the scripting sandbox configuration granted to this
// plugin from its manifest capabilities and resource limits.
func (h *Host) sandboxConfig() scripthost.SandboxConfig {
	cfg := scripthost.DefaultSandboxConfig()
	cfg.MaxExecutionTime = h.limits.ExecutionTimeout
	cfg.MaxMemoryBytes = h.limits.MemoryLimit
	cfg.MaxFileOps = h.limits.FileOpsPerSecond
	cfg.MaxNetworkOps = h.limits.NetworkReqPerSecond
	cfg.AllowFilesystem = h.manifest.HasCapability(security.CapabilityFileRead) ||
		h.manifest.HasCapability(security.CapabilityFileWrite)
	cfg.AllowNetwork = h.manifest.HasCapability(security.CapabilityNetwork)
	cfg.AllowSyscall = h.manifest.HasCapability(security.CapabilityShell) ||
		h.manifest.HasCapability(security.CapabilityProcess) ||
		h.manifest.HasCapability(security.CapabilityUnsafe)
	return cfg
}

// Load reads and compiles the plugin's entry script.
func (h *Host) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState != StateUnloaded {
		return ErrAlreadyLoaded
	}

	src, err := os.ReadFile(h.manifest.MainPath())
	if err != nil {
		h.pluginState = StateError
		h.err = err
		return err
	}

	h.runtime = scripthost.New(h.sandboxConfig(), h.binding)
	cp, err := h.runtime.CompilePluginScript(string(src), h.manifest.Main)
	if err != nil {
		h.pluginState = StateError
		h.err = err
		return err
	}

	h.plugin = cp
	h.instanceID = uuid.New().String()
	h.pluginState = StateLoaded
	h.err = nil
	return nil
}

// Activate runs the plugin's top-level script, delivering every
// registration action it produces, then invokes its optional activate()
// function.
func (h *Host) Activate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState != StateLoaded {
		return ErrNotLoaded
	}

	h.pluginState = StateActivating

	if err := h.plugin.ExecuteSetup(h.cb); err != nil {
		h.pluginState = StateError
		h.err = err
		return err
	}

	if err := h.plugin.CallVoid("activate"); err != nil && !errors.Is(err, scripthost.ErrUnknownFunction) {
		h.pluginState = StateError
		h.err = err
		return err
	}

	h.pluginState = StateActive
	h.err = nil
	return nil
}

// Deactivate calls the plugin's optional deactivate function.
func (h *Host) Deactivate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState != StateActive {
		return nil
	}

	h.pluginState = StateDeactivating

	if err := h.plugin.CallVoid("deactivate"); err != nil && !errors.Is(err, scripthost.ErrUnknownFunction) {
		h.err = err
	}

	h.pluginState = StateLoaded
	return nil
}

// Unload releases the plugin's scripting runtime and tracked resources.
func (h *Host) Unload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState == StateUnloaded {
		return nil
	}

	if h.pluginState == StateActive {
		h.pluginState = StateDeactivating
		if err := h.plugin.CallVoid("deactivate"); err != nil && !errors.Is(err, scripthost.ErrUnknownFunction) {
			h.err = err
		}
	}

	h.runtime = nil
	h.plugin = nil
	h.pluginState = StateUnloaded
	h.err = nil

	h.commands = nil
	h.keymaps = nil
	h.subscriptions = nil

	return nil
}

// Reload unloads and reloads the plugin.
func (h *Host) Reload(ctx context.Context) error {
	wasActive := h.State() == StateActive

	if err := h.Unload(ctx); err != nil {
		return err
	}

	if err := h.Load(ctx); err != nil {
		return err
	}

	if wasActive {
		return h.Activate(ctx)
	}

	return nil
}

// CallVoid invokes a named global function defined by the plugin script and
// discards its return value. It is a no-op (and returns nil) if the
// function isn't defined.
func (h *Host) CallVoid(name string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.plugin == nil {
		return ErrNotLoaded
	}
	if err := h.plugin.CallVoid(name); err != nil && !errors.Is(err, scripthost.ErrUnknownFunction) {
		return err
	}
	return nil
}

// TrackCommand records a command registered by this plugin.
func (h *Host) TrackCommand(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, id)
}

// TrackKeymap records a keymap registered by this plugin.
func (h *Host) TrackKeymap(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keymaps = append(h.keymaps, id)
}

// TrackSubscription records an event subscription by this plugin.
func (h *Host) TrackSubscription(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscriptions = append(h.subscriptions, id)
}

// TrackedCommands returns commands registered by this plugin.
func (h *Host) TrackedCommands() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string{}, h.commands...)
}

// TrackedKeymaps returns keymaps registered by this plugin.
func (h *Host) TrackedKeymaps() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string{}, h.keymaps...)
}

// TrackedSubscriptions returns event subscriptions by this plugin.
func (h *Host) TrackedSubscriptions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string{}, h.subscriptions...)
}

// Stats returns runtime statistics for the plugin.
func (h *Host) Stats() HostStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := HostStats{
		Name:          h.name,
		InstanceID:    h.instanceID,
		State:         h.pluginState,
		Commands:      len(h.commands),
		Keymaps:       len(h.keymaps),
		Subscriptions: len(h.subscriptions),
		HasError:      h.err != nil,
	}
	if h.runtime != nil {
		stats.Execution = h.runtime.Stats()
	}
	return stats
}

// HostStats contains runtime statistics for a plugin host.
type HostStats struct {
	Name          string
	InstanceID    string
	State         State
	Commands      int
	Keymaps       int
	Subscriptions int
	HasError      bool
	Execution     scripthost.ExecutionStats
}
