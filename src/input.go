package main

import (
	"fmt"
	"strings"
	"time"
)

// Key codes match GLFW's so the desktop backend can convert directly.
type Key int

type ModifierKey int

const (
	ModShift ModifierKey = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

var modifierNames = [...]string{"SHIFT", "CTRL", "ALT", "SUPER"}

// String joins the held modifiers with '+' in the order SHIFT, CTRL, ALT,
// SUPER.
func (m ModifierKey) String() string {
	var held []string
	for i, name := range modifierNames {
		if m&(1<<i) != 0 {
			held = append(held, name)
		}
	}
	return strings.Join(held, "+")
}

const (
	KeyUnknown   Key = -1
	KeySpace     Key = 32
	KeyComma     Key = 44
	KeyMinus     Key = 45
	KeyPeriod    Key = 46
	KeySlash     Key = 47
	Key0         Key = 48
	KeySemicolon Key = 59
	KeyEqual     Key = 61
	KeyA         Key = 65
	KeyEscape    Key = 256
	KeyEnter     Key = 257
	KeyTab       Key = 258
	KeyBackspace Key = 259
	KeyInsert    Key = 260
	KeyDelete    Key = 261
	KeyRight     Key = 262
	KeyLeft      Key = 263
	KeyDown      Key = 264
	KeyUp        Key = 265
	KeyF1        Key = 290
)

// Letter returns the key for an ASCII letter, case-insensitive.
func Letter(r rune) Key {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return KeyUnknown
	}
	return KeyA + Key(r-'A')
}

var KeyToStringLUT = map[Key]string{
	KeySpace:     "SPACE",
	KeyComma:     "COMMA",
	KeyMinus:     "MINUS",
	KeyPeriod:    "PERIOD",
	KeySlash:     "SLASH",
	KeySemicolon: "SEMICOLON",
	KeyEqual:     "EQUALS",
	KeyEscape:    "ESCAPE",
	KeyEnter:     "RETURN",
	KeyTab:       "TAB",
	KeyBackspace: "BACKSPACE",
	KeyInsert:    "INSERT",
	KeyDelete:    "DELETE",
	KeyRight:     "RIGHT",
	KeyLeft:      "LEFT",
	KeyDown:      "DOWN",
	KeyUp:        "UP",
}

var StringToKeyLUT = map[string]Key{}

func init() {
	for i := 0; i < 10; i++ {
		KeyToStringLUT[Key0+Key(i)] = string(rune('0' + i))
	}
	for i := 0; i < 26; i++ {
		KeyToStringLUT[KeyA+Key(i)] = string(rune('A' + i))
	}
	for i := 0; i < 12; i++ {
		KeyToStringLUT[KeyF1+Key(i)] = fmt.Sprintf("F%d", i+1)
	}
	for k, v := range KeyToStringLUT {
		StringToKeyLUT[v] = k
	}
	StringToKeyLUT["ENTER"] = KeyEnter
}

func StringToKey(s string) Key {
	if key, ok := StringToKeyLUT[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return key
	}
	return KeyUnknown
}

func KeyToString(k Key) string {
	if s, ok := KeyToStringLUT[k]; ok {
		return s
	}
	return ""
}

type InputKind int

const (
	InputPress InputKind = iota
	InputRelease
)

func (k InputKind) String() string {
	if k == InputRelease {
		return "release"
	}
	return "press"
}

// InputEvent is one key transition, delivered one per update tick in the
// order it happened.
type InputEvent struct {
	Kind InputKind
	Key  Key
	Mod  ModifierKey
	At   time.Time
}

func (e *InputEvent) Pressed(k Key) bool {
	return e != nil && e.Kind == InputPress && e.Key == k
}

// ButtonRole is a gameplay meaning a key can be bound to.
type ButtonRole int

const (
	BT_A ButtonRole = iota
	BT_B
	BT_C
	BT_D
	FX_L
	FX_R
	KN_L_CW
	KN_L_CCW
	KN_R_CW
	KN_R_CCW
	BT_Start
	BT_Back
	ButtonRoleCount
)

var buttonRoleNames = [ButtonRoleCount]string{
	"BT_A", "BT_B", "BT_C", "BT_D", "FX_L", "FX_R",
	"KN_L_CW", "KN_L_CCW", "KN_R_CW", "KN_R_CCW", "Start", "Back",
}

func (b ButtonRole) String() string {
	if b >= 0 && b < ButtonRoleCount {
		return buttonRoleNames[b]
	}
	return fmt.Sprintf("ButtonRole(%d)", int(b))
}

// KeyBindings maps keyboard keys to button roles.
type KeyBindings struct {
	keys  [ButtonRoleCount]Key
	roles map[Key]ButtonRole
}

func DefaultKeyBindings() *KeyBindings {
	kb := &KeyBindings{}
	kb.Set(BT_A, Letter('D'))
	kb.Set(BT_B, Letter('F'))
	kb.Set(BT_C, Letter('J'))
	kb.Set(BT_D, Letter('K'))
	kb.Set(FX_L, Letter('V'))
	kb.Set(FX_R, Letter('N'))
	kb.Set(KN_L_CW, Letter('R'))
	kb.Set(KN_L_CCW, Letter('E'))
	kb.Set(KN_R_CW, Letter('I'))
	kb.Set(KN_R_CCW, Letter('U'))
	kb.Set(BT_Start, KeyEnter)
	kb.Set(BT_Back, KeyEscape)
	return kb
}

// Set binds role to key, unbinding whatever the key was bound to before.
func (kb *KeyBindings) Set(role ButtonRole, key Key) {
	if kb.roles == nil {
		kb.roles = make(map[Key]ButtonRole)
	}
	if old, ok := kb.roles[key]; ok {
		kb.keys[old] = KeyUnknown
	}
	delete(kb.roles, kb.keys[role])
	kb.keys[role] = key
	if key != KeyUnknown {
		kb.roles[key] = role
	}
}

func (kb *KeyBindings) Key(role ButtonRole) Key {
	return kb.keys[role]
}

func (kb *KeyBindings) Role(key Key) (ButtonRole, bool) {
	role, ok := kb.roles[key]
	return role, ok
}
