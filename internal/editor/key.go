package editor

// Special identifies a non-printable key. KeyRune carries its payload in
// Key.Rune instead.
type Special uint8

const (
	KeyNone Special = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyTab
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Key is a single input event fed to Editor.HandleKey. For printable
// characters, Special is KeyRune and Rune carries the character; for
// everything else Special names the key and Rune is zero.
type Key struct {
	Special Special
	Rune    rune
}

// Ch constructs a printable-character key event.
func Ch(r rune) Key { return Key{Special: KeyRune, Rune: r} }

// Sp constructs a special-key event.
func Sp(s Special) Key { return Key{Special: s} }

// IsRune reports whether this event carries a printable character.
func (k Key) IsRune() bool { return k.Special == KeyRune }
