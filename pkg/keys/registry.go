// Package keys holds the fixed table of keys that can be auto-pressed.
//
// The registry covers the digit row (0-9) and the function keys (F1-F12),
// which is what game hotbars bind skills to. Each entry carries the legacy
// DOM keyCode and the KeyboardEvent.code name so a synthetic event looks
// like one produced by a real keyboard.
package keys

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("keys: key not found")

// Descriptor identifies a key by its display name, platform key code and
// symbolic (KeyboardEvent.code) name.
type Descriptor struct {
	DisplayKey   string `json:"key" yaml:"key"`
	PlatformCode int    `json:"code" yaml:"code"`
	SymbolicName string `json:"name" yaml:"name"`
}

// NotFoundError reports a display key that is not in the registry.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("keys: unknown key %q", e.Key)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

var registry = []Descriptor{
	{"0", 48, "Digit0"},
	{"1", 49, "Digit1"},
	{"2", 50, "Digit2"},
	{"3", 51, "Digit3"},
	{"4", 52, "Digit4"},
	{"5", 53, "Digit5"},
	{"6", 54, "Digit6"},
	{"7", 55, "Digit7"},
	{"8", 56, "Digit8"},
	{"9", 57, "Digit9"},
	{"F1", 112, "F1"},
	{"F2", 113, "F2"},
	{"F3", 114, "F3"},
	{"F4", 115, "F4"},
	{"F5", 116, "F5"},
	{"F6", 117, "F6"},
	{"F7", 118, "F7"},
	{"F8", 119, "F8"},
	{"F9", 120, "F9"},
	{"F10", 121, "F10"},
	{"F11", 122, "F11"},
	{"F12", 123, "F12"},
}

var byDisplayKey = func() map[string]int {
	idx := make(map[string]int, len(registry))
	for i, d := range registry {
		idx[d.DisplayKey] = i
	}
	return idx
}()

// Lookup returns the descriptor registered for displayKey.
func Lookup(displayKey string) (Descriptor, error) {
	i, ok := byDisplayKey[displayKey]
	if !ok {
		return Descriptor{}, &NotFoundError{Key: displayKey}
	}
	return registry[i], nil
}

// MustLookup is like Lookup but panics on unknown keys.
// Only use it with literal key names.
func MustLookup(displayKey string) Descriptor {
	d, err := Lookup(displayKey)
	if err != nil {
		panic(err)
	}
	return d
}

// All returns every registered key, digits first, then function keys.
func All() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Next returns the key step positions away from displayKey, wrapping
// around the registry. An unknown displayKey starts from the first entry.
func Next(displayKey string, step int) Descriptor {
	i, ok := byDisplayKey[displayKey]
	if !ok {
		return registry[0]
	}
	n := len(registry)
	return registry[((i+step)%n+n)%n]
}
