// Package host manages the lifecycle of the script VM on behalf of the
// plugin system: loading and running the configuration script, compiling
// and running plugin scripts under a sandbox, draining the actions a
// plugin accumulates during setup into the editor/UI registry, and
// exposing the builtin functions scripts call into.
//
// One Host owns exactly one vm.VM and therefore one global table; plugins
// share globals the way Lua plugins in the teacher's model share a single
// LState unless given their own.
package host
