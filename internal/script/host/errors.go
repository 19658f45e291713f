package host

import "errors"

// Errors surfaced by Host operations, matching the taxonomy in spec §6/§7.
var (
	// ErrInvalidScript is recorded when a builtin receives argument types it
	// cannot handle; the builtin returns nil and the VM propagates this
	// error once the current call chain unwinds.
	ErrInvalidScript = errors.New("invalid script")

	// ErrUnauthorizedFileAccess is returned when a host filesystem
	// operation's path fails glob validation, the filesystem capability
	// flag is off, or the plugin's file-operation budget is exhausted.
	ErrUnauthorizedFileAccess = errors.New("unauthorized file access")

	// ErrUnauthorizedNetworkAccess is returned when a host network
	// operation runs with the network capability flag off, or the
	// plugin's network-operation budget is exhausted.
	ErrUnauthorizedNetworkAccess = errors.New("unauthorized network access")

	// ErrConfigTooLarge is returned by LoadConfig when init.gza exceeds the
	// configured size cap.
	ErrConfigTooLarge = errors.New("configuration script too large")

	// ErrNoConfig is returned by CallSetup when LoadConfig has not
	// succeeded yet.
	ErrNoConfig = errors.New("no configuration script loaded")

	// ErrUnknownFunction is returned by CallVoid/CallBool when the named
	// global is not a function.
	ErrUnknownFunction = errors.New("unknown function")
)
