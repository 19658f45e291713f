package host

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/grim-editor/grim/internal/script/value"
)

// registerBuiltins installs every builtin named in spec.md §4.5/§6 into
// h's VM global table.
func registerBuiltins(h *Host) {
	h.vm.RegisterBuiltin("show_message", h.builtinShowMessage)
	h.vm.RegisterBuiltin("register_command", h.builtinRegisterCommand)
	h.vm.RegisterBuiltin("register_keymap", h.builtinRegisterKeymap)
	h.vm.RegisterBuiltin("register_event_handler", h.builtinRegisterEventHandler)
	h.vm.RegisterBuiltin("register_theme", h.builtinRegisterTheme)

	h.vm.RegisterBuiltin("len", builtinLen)
	h.vm.RegisterBuiltin("print", builtinPrint)
	h.vm.RegisterBuiltin("type", builtinType)
	h.vm.RegisterBuiltin("to_upper", builtinToUpper)
	h.vm.RegisterBuiltin("to_lower", builtinToLower)

	h.vm.RegisterBuiltin("buffer_text", h.builtinBufferText)
	h.vm.RegisterBuiltin("cursor_offset", h.builtinCursorOffset)
	h.vm.RegisterBuiltin("set_cursor_offset", h.builtinSetCursorOffset)
	h.vm.RegisterBuiltin("selection_range", h.builtinSelectionRange)
	h.vm.RegisterBuiltin("insert_text", h.builtinInsertText)

	h.vm.RegisterBuiltin("read_file", h.builtinReadFile)
	h.vm.RegisterBuiltin("write_file", h.builtinWriteFile)
	h.vm.RegisterBuiltin("http_get", h.builtinHTTPGet)
}

// chargeFileOp enforces MaxFileOps (0 == unbounded, per SandboxConfig's
// doc comment); it does not check AllowFilesystem, which callers check
// first so the violation reported is the more specific one.
func (h *Host) chargeFileOp() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg.MaxFileOps > 0 && h.stats.FileOps >= h.cfg.MaxFileOps {
		return false
	}
	h.stats.FileOps++
	return true
}

func (h *Host) chargeNetworkOp() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg.MaxNetworkOps > 0 && h.stats.NetworkOps >= h.cfg.MaxNetworkOps {
		return false
	}
	h.stats.NetworkOps++
	return true
}

// builtinReadFile implements the filesystem half of spec.md §4.5's
// file-access validation: the capability flag gates the operation first,
// then the path is matched against the blocked/allowed glob lists, then
// the per-run operation budget is charged.
func (h *Host) builtinReadFile(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return h.invalid()
	}
	h.mu.Lock()
	cfg := h.cfg
	h.mu.Unlock()
	path := args[0].AsString()
	if !cfg.AllowFilesystem {
		h.recordPendingError(ErrUnauthorizedFileAccess)
		return value.Nil, nil
	}
	if err := checkFileAccess(cfg, path); err != nil {
		h.recordPendingError(err)
		return value.Nil, nil
	}
	if !h.chargeFileOp() {
		h.recordPendingError(ErrUnauthorizedFileAccess)
		return value.Nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Nil, nil
	}
	return value.String(string(data)), nil
}

func (h *Host) builtinWriteFile(args []value.Value) (value.Value, error) {
	if len(args) != 2 || !args[0].IsString() || !args[1].IsString() {
		return h.invalid()
	}
	h.mu.Lock()
	cfg := h.cfg
	h.mu.Unlock()
	path := args[0].AsString()
	if !cfg.AllowFilesystem {
		h.recordPendingError(ErrUnauthorizedFileAccess)
		return value.Nil, nil
	}
	if err := checkFileAccess(cfg, path); err != nil {
		h.recordPendingError(err)
		return value.Nil, nil
	}
	if !h.chargeFileOp() {
		h.recordPendingError(ErrUnauthorizedFileAccess)
		return value.Nil, nil
	}
	if err := os.WriteFile(path, []byte(args[1].AsString()), 0o644); err != nil {
		return value.Nil, nil
	}
	return value.Nil, nil
}

// builtinHTTPGet is the sole network-capable builtin; with
// AllowNetwork=false (the default) it always fails closed with
// ErrUnauthorizedNetworkAccess before any request is attempted.
func (h *Host) builtinHTTPGet(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return h.invalid()
	}
	h.mu.Lock()
	allowed := h.cfg.AllowNetwork
	h.mu.Unlock()
	if !allowed {
		h.recordPendingError(ErrUnauthorizedNetworkAccess)
		return value.Nil, nil
	}
	if !h.chargeNetworkOp() {
		h.recordPendingError(ErrUnauthorizedNetworkAccess)
		return value.Nil, nil
	}
	resp, err := http.Get(args[0].AsString())
	if err != nil {
		return value.Nil, nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return value.Nil, nil
	}
	return value.String(string(body)), nil
}

// invalid records ErrInvalidScript on h and returns the builtin's required
// (nil, nil) shape: the VM sees no Go error from the call itself, but the
// host's pending error surfaces once the call chain unwinds, per spec.md
// §4.5's "invalid argument types" contract.
func (h *Host) invalid() (value.Value, error) {
	h.recordPendingError(ErrInvalidScript)
	return value.Nil, nil
}

func (h *Host) builtinShowMessage(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return h.invalid()
	}
	if h.currentPlugin != nil {
		h.currentPlugin.recordAction(Action{Kind: ActionShowMessage, Message: args[0].AsString()})
	}
	return value.Nil, nil
}

func (h *Host) builtinRegisterCommand(args []value.Value) (value.Value, error) {
	if len(args) < 2 || len(args) > 3 || !args[0].IsString() || !args[1].IsString() {
		return h.invalid()
	}
	desc := ""
	if len(args) == 3 {
		if !args[2].IsString() {
			return h.invalid()
		}
		desc = args[2].AsString()
	}
	if h.currentPlugin != nil {
		h.currentPlugin.recordAction(Action{
			Kind:           ActionRegisterCommand,
			CommandName:    args[0].AsString(),
			CommandHandler: args[1].AsString(),
			CommandDesc:    desc,
		})
	}
	return value.Nil, nil
}

func (h *Host) builtinRegisterKeymap(args []value.Value) (value.Value, error) {
	if len(args) < 2 || len(args) > 4 || !args[0].IsString() || !args[1].IsString() {
		return h.invalid()
	}
	mode, desc := "", ""
	if len(args) >= 3 {
		if !args[2].IsString() {
			return h.invalid()
		}
		mode = args[2].AsString()
	}
	if len(args) == 4 {
		if !args[3].IsString() {
			return h.invalid()
		}
		desc = args[3].AsString()
	}
	if h.currentPlugin != nil {
		h.currentPlugin.recordAction(Action{
			Kind:          ActionRegisterKeymap,
			Keys:          args[0].AsString(),
			KeymapHandler: args[1].AsString(),
			KeymapMode:    mode,
			KeymapDesc:    desc,
		})
	}
	return value.Nil, nil
}

func (h *Host) builtinRegisterEventHandler(args []value.Value) (value.Value, error) {
	if len(args) != 2 || !args[0].IsString() || !args[1].IsString() {
		return h.invalid()
	}
	if h.currentPlugin != nil {
		h.currentPlugin.recordAction(Action{
			Kind:         ActionRegisterEventHandler,
			Event:        args[0].AsString(),
			EventHandler: args[1].AsString(),
		})
	}
	return value.Nil, nil
}

func (h *Host) builtinRegisterTheme(args []value.Value) (value.Value, error) {
	if len(args) != 2 || !args[0].IsString() || !args[1].IsString() {
		return h.invalid()
	}
	if h.currentPlugin != nil {
		h.currentPlugin.recordAction(Action{
			Kind:        ActionRegisterTheme,
			ThemeName:   args[0].AsString(),
			ThemeColors: args[1].AsString(),
		})
	}
	return value.Nil, nil
}

func builtinLen(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Nil, nil
	}
	switch {
	case args[0].IsString():
		return value.Number(float64(len(args[0].AsString()))), nil
	case args[0].IsArray():
		return value.Number(float64(args[0].AsArray().Len())), nil
	case args[0].IsTable():
		return value.Number(float64(args[0].AsTable().Len())), nil
	default:
		return value.Nil, nil
	}
}

func builtinPrint(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	_ = strings.Join(parts, " ") // host surfaces this via a log sink, not stdout
	return value.Nil, nil
}

func builtinType(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.String("nil"), nil
	}
	return value.String(args[0].Kind().String()), nil
}

func builtinToUpper(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return value.Nil, nil
	}
	return value.String(strings.ToUpper(args[0].AsString())), nil
}

func builtinToLower(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return value.Nil, nil
	}
	return value.String(strings.ToLower(args[0].AsString())), nil
}

func (h *Host) builtinBufferText(args []value.Value) (value.Value, error) {
	if h.editor == nil {
		return value.Nil, nil
	}
	return value.String(h.editor.BufferText()), nil
}

func (h *Host) builtinCursorOffset(args []value.Value) (value.Value, error) {
	if h.editor == nil {
		return value.Nil, nil
	}
	return value.Number(float64(h.editor.CursorOffset())), nil
}

func (h *Host) builtinSetCursorOffset(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsNumber() {
		return h.invalid()
	}
	if h.editor != nil {
		h.editor.SetCursorOffset(int64(args[0].AsNumber()))
	}
	return value.Nil, nil
}

func (h *Host) builtinSelectionRange(args []value.Value) (value.Value, error) {
	if h.editor == nil {
		return value.FromArray(value.NewArray([]value.Value{value.Number(0), value.Number(0)})), nil
	}
	start, end := h.editor.SelectionRange()
	return value.FromArray(value.NewArray([]value.Value{value.Number(float64(start)), value.Number(float64(end))})), nil
}

func (h *Host) builtinInsertText(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return h.invalid()
	}
	if h.editor == nil {
		return value.Nil, nil
	}
	if err := h.editor.InsertText(args[0].AsString()); err != nil {
		h.recordPendingError(err)
		return value.Nil, nil
	}
	return value.Nil, nil
}
