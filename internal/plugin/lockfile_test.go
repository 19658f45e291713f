package plugin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLockTestPlugin(t *testing.T, root, name, script string) *Host {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "init.gza"), []byte(script), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m := NewManifestMinimal(name, dir)
	m.Version = "1.0.0"
	host, err := NewHost(m)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	return host
}

func TestWriteLockfileDeterministic(t *testing.T) {
	root := t.TempDir()
	m := &Manager{plugins: map[string]*Host{}}
	m.plugins["zeta"] = writeLockTestPlugin(t, root, "zeta", "show_message(\"z\")")
	m.plugins["alpha"] = writeLockTestPlugin(t, root, "alpha", "show_message(\"a\")")

	lockPath := filepath.Join(root, "grim.lock")
	if err := m.WriteLockfile(lockPath); err != nil {
		t.Fatalf("WriteLockfile() error = %v", err)
	}

	data, err := os.ReadFile(lockPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lockfile lines = %d, want 2: %q", len(lines), string(data))
	}
	if !strings.HasPrefix(lines[0], "alpha=1.0.0:") {
		t.Errorf("line 0 = %q, want alpha entry first (sorted)", lines[0])
	}
	if !strings.HasPrefix(lines[1], "zeta=1.0.0:") {
		t.Errorf("line 1 = %q, want zeta entry second (sorted)", lines[1])
	}

	entries, err := ReadLockfile(lockPath)
	if err != nil {
		t.Fatalf("ReadLockfile() error = %v", err)
	}
	if entries["alpha"].Version != "1.0.0" {
		t.Errorf("entries[alpha].Version = %q, want 1.0.0", entries["alpha"].Version)
	}
	if entries["alpha"].Hash == "" {
		t.Error("entries[alpha].Hash is empty")
	}
}
