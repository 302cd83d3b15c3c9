package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyNames(t *testing.T) {
	for k, name := range KeyToStringLUT {
		assert.Equal(t, k, StringToKey(name), name)
	}
	assert.Equal(t, KeyEnter, StringToKey("return"))
	assert.Equal(t, KeyEnter, StringToKey(" Enter "))
	assert.Equal(t, Letter('q'), StringToKey("Q"))
	assert.Equal(t, KeyF1+11, StringToKey("F12"))
	assert.Equal(t, "7", KeyToString(Key0+7))
	assert.Equal(t, KeyUnknown, StringToKey("hyper"))
	assert.Equal(t, "", KeyToString(KeyUnknown))
	assert.Equal(t, KeyUnknown, Letter('1'))
}

func TestButtonRoleNames(t *testing.T) {
	assert.Equal(t, "BT_A", BT_A.String())
	assert.Equal(t, "Start", BT_Start.String())
	assert.Equal(t, "Back", BT_Back.String())
	assert.Equal(t, "ButtonRole(99)", ButtonRole(99).String())
}

func TestKeyBindingsRebind(t *testing.T) {
	kb := DefaultKeyBindings()
	role, ok := kb.Role(Letter('D'))
	assert.True(t, ok)
	assert.Equal(t, BT_A, role)

	// Taking a key away from another role leaves that role unbound.
	kb.Set(BT_B, Letter('D'))
	role, _ = kb.Role(Letter('D'))
	assert.Equal(t, BT_B, role)
	assert.Equal(t, KeyUnknown, kb.Key(BT_A))
	_, ok = kb.Role(Letter('F'))
	assert.False(t, ok)
}

func TestInputEventPressed(t *testing.T) {
	ev := &InputEvent{Kind: InputPress, Key: KeyEnter}
	assert.True(t, ev.Pressed(KeyEnter))
	assert.False(t, ev.Pressed(KeyEscape))
	ev.Kind = InputRelease
	assert.False(t, ev.Pressed(KeyEnter))
	var none *InputEvent
	assert.False(t, none.Pressed(KeyEnter))
}

func TestModifierKeyString(t *testing.T) {
	assert.Equal(t, "", ModifierKey(0).String())
	assert.Equal(t, "SHIFT", ModShift.String())
	assert.Equal(t, "SHIFT+ALT", (ModAlt | ModShift).String())
	assert.Equal(t, "CTRL+SUPER", (ModControl | ModSuper).String())
}
