// Package platform defines the fixed set of AI assistant platforms that
// content is scored against.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Platform identifies a target AI assistant.
type Platform string

const (
	ChatGPT Platform = "chatgpt"
	Claude  Platform = "claude"
	Gemini  Platform = "gemini"
	Bing    Platform = "bing"
)

// ErrUnknownPlatform is returned when a platform name is not recognized.
var ErrUnknownPlatform = errors.New("unknown platform")

// all is the enumeration order. Tie-breaking in rankings follows it.
var all = []Platform{ChatGPT, Claude, Gemini, Bing}

// All returns every supported platform in enumeration order.
func All() []Platform {
	out := make([]Platform, len(all))
	copy(out, all)
	return out
}

// Names returns the string names of all platforms in enumeration order.
func Names() []string {
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = string(p)
	}
	return names
}

// Parse resolves a platform name. Matching is case-insensitive and ignores
// surrounding whitespace.
func Parse(name string) (Platform, error) {
	n := Platform(strings.ToLower(strings.TrimSpace(name)))
	for _, p := range all {
		if p == n {
			return p, nil
		}
	}
	return "", &UnknownError{Name: name}
}

// Ordinal returns the position of p in the enumeration, or -1.
func (p Platform) Ordinal() int {
	for i, q := range all {
		if q == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool { return p.Ordinal() >= 0 }

// DisplayName returns the human-readable platform label.
func (p Platform) DisplayName() string {
	switch p {
	case ChatGPT:
		return "ChatGPT"
	case Claude:
		return "Claude"
	case Gemini:
		return "Gemini"
	case Bing:
		return "Bing Copilot"
	default:
		return string(p)
	}
}

// UnknownError carries the unrecognized platform name.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("Unknown platform: %s", e.Name)
}

// Is makes errors.Is(err, ErrUnknownPlatform) hold for *UnknownError.
func (e *UnknownError) Is(target error) bool {
	return target == ErrUnknownPlatform
}
