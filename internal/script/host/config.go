package host

import "time"

// SandboxConfig bounds what a plugin script is permitted to do and how much
// of the host's resources it may consume. Zero values for the numeric
// limits mean "unbounded" except where noted.
type SandboxConfig struct {
	// MaxExecutionTime bounds a single call into the VM (setup, a void
	// call, a bool call). Exceeding it surfaces ExecutionTimeout.
	MaxExecutionTime time.Duration

	// MaxMemoryBytes is the VM allocator's byte budget for this plugin.
	MaxMemoryBytes int64

	// MaxFileOps caps filesystem operations over the plugin's lifetime.
	MaxFileOps int

	// MaxNetworkOps caps network requests over the plugin's lifetime.
	MaxNetworkOps int

	// AllowedGlobs, if non-empty, restricts filesystem access to paths
	// matching at least one trailing-* glob in this list.
	AllowedGlobs []string

	// BlockedGlobs is checked first; a match always denies access
	// regardless of AllowedGlobs.
	BlockedGlobs []string

	// AllowFilesystem, AllowNetwork, and AllowSyscall are coarse capability
	// flags gating entire classes of host builtins before glob/rate
	// checks are even consulted.
	AllowFilesystem bool
	AllowNetwork    bool
	AllowSyscall    bool
}

// DefaultSandboxConfig returns a conservative default: no filesystem,
// network, or syscall access, a one-second execution budget, and a 16MB
// memory budget, matching the teacher's StrictResourceLimits posture.
func DefaultSandboxConfig() SandboxConfig {
	return SandboxConfig{
		MaxExecutionTime: time.Second,
		MaxMemoryBytes:   16 * 1024 * 1024,
		MaxFileOps:       0,
		MaxNetworkOps:    0,
	}
}

// ExecutionStats accumulates across every guarded call made through a
// single Host.
type ExecutionStats struct {
	// CumulativeWallTime sums the wall-clock duration of every guarded
	// call, including ones that timed out.
	CumulativeWallTime time.Duration

	// PeakMemory is the highest byte count the VM allocator reported
	// charged at any point.
	PeakMemory int64

	// Violations counts resource-guard and file-access failures.
	Violations int

	FileOps    int
	NetworkOps int
}
