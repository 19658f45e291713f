package host

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grim-editor/grim/internal/script/compiler"
	"github.com/grim-editor/grim/internal/script/value"
	"github.com/grim-editor/grim/internal/script/vm"
)

// maxConfigSize caps how much of init.gza LoadConfig will read.
const maxConfigSize = 256 * 1024

// Host manages the lifecycle of a single VM engine: the configuration
// script, every compiled plugin's action buffer, and the sandbox/stats
// bookkeeping shared across both.
type Host struct {
	mu sync.Mutex

	cfg   SandboxConfig
	vm    *vm.VM
	stats ExecutionStats

	config        *vm.Proto
	setupInvoked  bool
	pendingErr    error
	currentPlugin *CompiledPlugin

	editor EditorBinding
}

// New creates a Host with the given sandbox configuration. If binding is
// non-nil, the editor buffer/cursor/selection builtins are registered
// against it; a nil binding leaves those builtins unregistered so callers
// that only need the configuration/plugin surface (e.g. tests) are not
// forced to wire an editor.
func New(cfg SandboxConfig, binding EditorBinding) *Host {
	h := &Host{
		cfg:    cfg,
		vm:     vm.New(cfg.MaxMemoryBytes),
		editor: binding,
	}
	registerBuiltins(h)
	return h
}

// Stats returns a snapshot of accumulated execution statistics.
func (h *Host) Stats() ExecutionStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// SetupInvoked reports whether CallSetup has completed successfully.
func (h *Host) SetupInvoked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.setupInvoked
}

// recordPendingError is called by host builtins that detect invalid
// argument types; the VM's call chain observes it after returning nil.
func (h *Host) recordPendingError(err error) {
	h.mu.Lock()
	h.pendingErr = err
	h.stats.Violations++
	h.mu.Unlock()
}

// takePendingError returns and clears any builtin-recorded error.
func (h *Host) takePendingError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := h.pendingErr
	h.pendingErr = nil
	return err
}

// LoadConfig reads init.gza from dir (size-capped), compiles it, and
// retains it as the configuration script.
func (h *Host) LoadConfig(dir string) error {
	path := filepath.Join(dir, "init.gza")
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() > maxConfigSize {
		return ErrConfigTooLarge
	}
	src, err := io.ReadAll(io.LimitReader(f, maxConfigSize+1))
	if err != nil {
		return err
	}
	if len(src) > maxConfigSize {
		return ErrConfigTooLarge
	}

	proto, err := compiler.Compile(string(src), "init.gza")
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.config = proto
	h.mu.Unlock()
	return nil
}

// CallSetup executes the configuration script once; on success it marks
// setup_invoked. Calling it again re-runs the script (the host does not
// enforce single-invocation itself; callers that want exactly-once
// semantics check SetupInvoked first).
func (h *Host) CallSetup() error {
	h.mu.Lock()
	proto := h.config
	h.mu.Unlock()
	if proto == nil {
		return ErrNoConfig
	}
	if _, err := h.guardedRun(proto, nil); err != nil {
		return err
	}
	h.mu.Lock()
	h.setupInvoked = true
	h.mu.Unlock()
	return nil
}

// CompiledPlugin owns a compiled plugin's bytecode and the action buffer
// its host builtins append to during setup.
type CompiledPlugin struct {
	host    *Host
	proto   *vm.Proto
	actions []Action
}

// CompilePluginScript compiles arbitrary source; the returned handle owns
// its parsed bytecode and a per-plugin action buffer.
func (h *Host) CompilePluginScript(source, name string) (*CompiledPlugin, error) {
	proto, err := compiler.Compile(source, name)
	if err != nil {
		return nil, err
	}
	return &CompiledPlugin{host: h, proto: proto}, nil
}

// recordAction appends a to the plugin's action buffer. It is called by
// host builtins while a CompiledPlugin's setup is executing; the plugin
// currently executing is tracked via Host.currentPlugin.
func (cp *CompiledPlugin) recordAction(a Action) {
	cp.actions = append(cp.actions, a)
}

// ExecuteSetup runs the plugin's top-level code with a thread-local
// pointer to the host so that host builtins can locate their context,
// then drains the plugin's accumulated actions to the matching callback
// slots.
func (cp *CompiledPlugin) ExecuteSetup(cb Callbacks) error {
	h := cp.host
	h.mu.Lock()
	prev := h.currentPlugin
	h.currentPlugin = cp
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.currentPlugin = prev
		h.mu.Unlock()
	}()

	if _, err := h.guardedRun(cp.proto, nil); err != nil {
		return err
	}

	actions := cp.actions
	cp.actions = nil
	for _, a := range actions {
		cb.deliver(a)
	}
	return nil
}

// CallVoid invokes the named global function and discards its return
// value.
func (cp *CompiledPlugin) CallVoid(name string) error {
	_, err := cp.call(name)
	return err
}

// CallBool invokes the named global function and interprets its return
// value via Value.Truthy.
func (cp *CompiledPlugin) CallBool(name string) (bool, error) {
	v, err := cp.call(name)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

func (cp *CompiledPlugin) call(name string) (value.Value, error) {
	h := cp.host
	if !h.vm.Globals.Has(name) {
		return value.Nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	fn := h.vm.Globals.Get(name)
	if !fn.IsFunction() {
		return value.Nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	h.mu.Lock()
	prev := h.currentPlugin
	h.currentPlugin = cp
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.currentPlugin = prev
		h.mu.Unlock()
	}()

	return h.guardedCall(fn.AsFunction(), nil)
}

// guardedRun wraps VM.Run with the resource-guard accounting described in
// spec.md §4.5: record start time, run, check end time vs budget,
// accumulate stats, return ExecutionTimeout on overrun.
func (h *Host) guardedRun(proto *vm.Proto, args []value.Value) (value.Value, error) {
	h.mu.Lock()
	timeout := h.cfg.MaxExecutionTime
	h.mu.Unlock()

	start := time.Now()
	var deadline time.Time
	if timeout > 0 {
		deadline = start.Add(timeout)
	}
	result, err := h.vm.Run(proto, args, deadline)
	h.recordGuard(start, err)
	if perr := h.takePendingError(); perr != nil && err == nil {
		err = perr
	}
	return result, err
}

func (h *Host) guardedCall(fn *value.Function, args []value.Value) (value.Value, error) {
	start := time.Now()
	result, err := h.vm.Call(fn, args)
	h.recordGuard(start, err)
	if perr := h.takePendingError(); perr != nil && err == nil {
		err = perr
	}
	return result, err
}

func (h *Host) recordGuard(start time.Time, err error) {
	elapsed := time.Since(start)
	h.mu.Lock()
	h.stats.CumulativeWallTime += elapsed
	if mem := h.vm.Alloc.Used(); mem > h.stats.PeakMemory {
		h.stats.PeakMemory = mem
	}
	if err != nil {
		h.stats.Violations++
	}
	h.mu.Unlock()
}
