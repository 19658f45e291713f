package plugin

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WriteLockfile writes a deterministic, sorted text lockfile capturing the
// name, version, and content hash of every successfully loaded plugin
// directory. It is non-load-bearing (spec.md §6 "Persisted state"): nothing
// in the plugin system reads it back to make a loading decision, it exists
// purely so an operator can diff what actually got loaded across runs.
//
// Each line has the form "name=version:sha256", sorted by name so the file
// is stable byte-for-byte given the same plugin set.
func (m *Manager) WriteLockfile(path string) error {
	m.mu.RLock()
	names := make([]string, 0, len(m.plugins))
	hosts := make(map[string]*Host, len(m.plugins))
	for name, host := range m.plugins {
		names = append(names, name)
		hosts[name] = host
	}
	m.mu.RUnlock()

	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		manifest := hosts[name].Manifest()
		sum, err := hashPluginDir(manifest.Path())
		if err != nil {
			return fmt.Errorf("lockfile: hash %q: %w", name, err)
		}
		fmt.Fprintf(&b, "%s=%s:%s\n", name, manifest.Version, sum)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lockfile: %w", err)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// hashPluginDir hashes the contents of every top-level ".gza" file in a
// plugin directory, in file-name order. Other files (such as plugin.json)
// and subdirectories are not hashed.
func hashPluginDir(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".gza") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ReadLockfile parses a lockfile previously written by WriteLockfile into a
// map of plugin name to (version, hash). It never fails the load path that
// consults it; callers use it only for informational drift detection.
func ReadLockfile(path string) (map[string]LockEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]LockEntry)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, rest, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		version, hash, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		entries[name] = LockEntry{Version: version, Hash: hash}
	}
	return entries, nil
}

// LockEntry is one parsed lockfile record.
type LockEntry struct {
	Version string
	Hash    string
}
