package plugin

import (
	"context"
	"fmt"
	"sync"
)

// System provides a unified interface to the Grim plugin system.
// It coordinates the plugin manager and the editor bindings/callbacks every
// loaded plugin's scripting runtime is wired against.
//
// System is the primary entry point for the editor to interact with
// plugins. It handles:
//   - Plugin discovery, loading, and lifecycle management
//   - Propagating the editor binding and action callbacks to every plugin
//   - Resource cleanup on shutdown
type System struct {
	mu sync.RWMutex

	manager *Manager

	config SystemConfig

	initialized bool
}

// SystemConfig configures the plugin system.
type SystemConfig struct {
	// ManagerConfig for the plugin manager. EditorBinding, Callbacks, and
	// ResourceLimits on this value are what every loaded plugin's
	// scripting runtime is actually wired against.
	ManagerConfig ManagerConfig
}

// DefaultSystemConfig returns sensible default system configuration.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		ManagerConfig: DefaultManagerConfig(),
	}
}

// NewSystem creates a new plugin system with the given configuration.
func NewSystem(config SystemConfig) *System {
	return &System{
		config: config,
	}
}

// Initialize sets up the plugin system.
// This must be called before any other operations.
func (s *System) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return ErrAlreadyInitialized
	}

	s.manager = NewManager(s.config.ManagerConfig)
	s.initialized = true
	return nil
}

// Shutdown gracefully shuts down the plugin system.
// It deactivates and unloads all plugins.
func (s *System) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}

	if err := s.manager.UnloadAll(ctx); err != nil {
		return fmt.Errorf("failed to unload plugins: %w", err)
	}

	s.initialized = false
	return nil
}

// Manager returns the plugin manager for direct access.
func (s *System) Manager() *Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager
}

// IsInitialized returns true if the system is initialized.
func (s *System) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Discover discovers available plugins.
func (s *System) Discover() ([]*PluginInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}

	return s.manager.Discover()
}

// LoadPlugin loads a single plugin by name. The plugin's scripting runtime
// is sandboxed per its manifest capabilities and wired to the manager's
// configured editor binding and callbacks.
func (s *System) LoadPlugin(ctx context.Context, name string) (*Host, error) {
	s.mu.RLock()
	if !s.initialized {
		s.mu.RUnlock()
		return nil, ErrNotInitialized
	}
	manager := s.manager
	s.mu.RUnlock()

	return manager.Load(ctx, name)
}

// LoadAll loads all discovered plugins.
func (s *System) LoadAll(ctx context.Context) error {
	s.mu.RLock()
	if !s.initialized {
		s.mu.RUnlock()
		return ErrNotInitialized
	}
	s.mu.RUnlock()

	plugins, err := s.Discover()
	if err != nil {
		return err
	}

	var loadErrors []error
	for _, info := range plugins {
		if _, err := s.LoadPlugin(ctx, info.Name); err != nil {
			loadErrors = append(loadErrors, fmt.Errorf("%s: %w", info.Name, err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("failed to load %d plugins: %v", len(loadErrors), loadErrors)
	}
	return nil
}

// UnloadPlugin unloads a plugin by name.
func (s *System) UnloadPlugin(ctx context.Context, name string) error {
	s.mu.RLock()
	if !s.initialized {
		s.mu.RUnlock()
		return ErrNotInitialized
	}
	manager := s.manager
	s.mu.RUnlock()

	return manager.Unload(ctx, name)
}

// ReloadPlugin reloads a plugin by name.
func (s *System) ReloadPlugin(ctx context.Context, name string) error {
	s.mu.RLock()
	if !s.initialized {
		s.mu.RUnlock()
		return ErrNotInitialized
	}
	manager := s.manager
	s.mu.RUnlock()

	host, exists := manager.Get(name)
	if !exists {
		return fmt.Errorf("plugin %q: %w", name, ErrPluginNotFound)
	}
	wasActive := host.State() == StateActive

	if err := s.UnloadPlugin(ctx, name); err != nil {
		return fmt.Errorf("reload unload failed: %w", err)
	}

	newHost, err := s.LoadPlugin(ctx, name)
	if err != nil {
		return fmt.Errorf("reload load failed: %w", err)
	}

	if wasActive && newHost.State() == StateLoaded {
		if err := manager.Activate(ctx, name); err != nil {
			return fmt.Errorf("reload activate failed: %w", err)
		}
	}

	return nil
}

// GetPlugin returns a loaded plugin by name.
func (s *System) GetPlugin(name string) (*Host, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false
	}

	return s.manager.Get(name)
}

// ListPlugins returns all loaded plugins.
func (s *System) ListPlugins() []*Host {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil
	}

	return s.manager.List()
}

// ListActivePlugins returns all active plugins.
func (s *System) ListActivePlugins() []*Host {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil
	}

	return s.manager.ListActive()
}

// PluginCount returns the number of loaded plugins.
func (s *System) PluginCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return 0
	}

	return s.manager.Count()
}

// ActivePluginCount returns the number of active plugins.
func (s *System) ActivePluginCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return 0
	}

	return s.manager.CountActive()
}

// Subscribe subscribes to plugin manager events.
func (s *System) Subscribe(handler EventHandler) func() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized || s.manager == nil {
		return func() {}
	}

	return s.manager.Subscribe(handler)
}

// HasErrors returns true if any plugin has errors.
func (s *System) HasErrors() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return false
	}

	return s.manager.HasErrors()
}

// Errors returns all plugin errors.
func (s *System) Errors() map[string]error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil
	}

	return s.manager.Errors()
}

// Stats returns system-wide statistics.
func (s *System) Stats() SystemStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := SystemStats{
		Initialized: s.initialized,
	}

	if s.initialized && s.manager != nil {
		stats.TotalPlugins = s.manager.Count()
		stats.ActivePlugins = s.manager.CountActive()
		stats.HasErrors = s.manager.HasErrors()

		for _, host := range s.manager.List() {
			stats.PluginStats = append(stats.PluginStats, host.Stats())
		}
	}

	return stats
}

// SystemStats contains system-wide statistics.
type SystemStats struct {
	Initialized   bool
	TotalPlugins  int
	ActivePlugins int
	HasErrors     bool
	PluginStats   []HostStats
}
