// Package vm implements a stack-based bytecode interpreter for the plugin
// language: a compiled Proto (code + constants), a call-frame stack, a
// tracked allocator enforcing a byte budget, and an interpreter loop that
// checks a cooperative wall-clock deadline between opcodes.
package vm
