package vm

import "github.com/grim-editor/grim/internal/script/value"

// Proto is a compiled script function: its bytecode, constant pool, and
// frame shape. The compiler package is the sole producer of Protos.
type Proto struct {
	Name      string
	NumParams int
	NumLocals int // includes params; locals beyond params start at zero value
	Code      []Instruction
	Constants []value.Value
	Source    string // source file or plugin name, for error messages
}
