package platform

import (
	"fmt"
	"strings"
)

// Platform identifies one of the supported export targets.
// The set is closed: code that dispatches on Platform switches over all
// four constants so a new target shows up everywhere it must be handled.
type Platform string

const (
	Web     Platform = "web"
	IOS     Platform = "ios"
	Android Platform = "android"
	Desktop Platform = "desktop"
)

// All returns every supported platform in canonical order.
func All() []Platform {
	return []Platform{Web, IOS, Android, Desktop}
}

// Parse converts a user-supplied string into a Platform.
func Parse(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case Web:
		return Web, nil
	case IOS:
		return IOS, nil
	case Android:
		return Android, nil
	case Desktop:
		return Desktop, nil
	default:
		return "", fmt.Errorf("unknown platform %q (expected one of: web, ios, android, desktop)", s)
	}
}

// ParseList converts a list of strings into platforms, rejecting duplicates.
func ParseList(names []string) ([]Platform, error) {
	seen := make(map[Platform]bool, len(names))
	out := make([]Platform, 0, len(names))
	for _, n := range names {
		p, err := Parse(n)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// Valid reports whether p is one of the four supported targets.
func (p Platform) Valid() bool {
	switch p {
	case Web, IOS, Android, Desktop:
		return true
	default:
		return false
	}
}

// Language returns the source language the platform's component files are
// emitted in. Desktop reuses web-convention UI files; its shell file is Rust
// (see ShellLanguage).
func (p Platform) Language() string {
	switch p {
	case Web:
		return "javascript"
	case IOS:
		return "swift"
	case Android:
		return "kotlin"
	case Desktop:
		return "javascript"
	default:
		return ""
	}
}

// ShellLanguage returns the language of the platform's shell-layer file, or
// "" when the platform has none.
func (p Platform) ShellLanguage() string {
	if p == Desktop {
		return "rust"
	}
	return ""
}

// FileExtension returns the extension (without dot) for component files.
func (p Platform) FileExtension() string {
	switch p {
	case Web:
		return "jsx"
	case IOS:
		return "swift"
	case Android:
		return "kt"
	case Desktop:
		return "jsx"
	default:
		return ""
	}
}

// EntryFileName returns the name of the app-entry file for the platform.
func (p Platform) EntryFileName() string {
	switch p {
	case Web:
		return "App.jsx"
	case IOS:
		return "ContentView.swift"
	case Android:
		return "MainActivity.kt"
	case Desktop:
		return "App.jsx"
	default:
		return ""
	}
}

// ShellFileName returns the name of the shell-layer file, or "" when the
// platform has none. Desktop's shell is a Tauri-style Rust entry point.
func (p Platform) ShellFileName() string {
	if p == Desktop {
		return "src-tauri/main.rs"
	}
	return ""
}

// Casing identifies an identifier casing rule.
type Casing int

const (
	PascalCase Casing = iota
	CamelCase
	SnakeCase
)

// TypeCasing returns the casing rule for component/type identifiers.
func (p Platform) TypeCasing() Casing {
	switch p {
	case Web, IOS, Android, Desktop:
		return PascalCase
	default:
		return PascalCase
	}
}

// VariableCasing returns the casing rule for variable/prop identifiers.
// Desktop's UI layer follows the web convention, so its usage sites and
// action references are camelCased; the Rust shell uses ShellVariableCasing.
func (p Platform) VariableCasing() Casing {
	switch p {
	case Web, IOS, Android, Desktop:
		return CamelCase
	default:
		return CamelCase
	}
}

// ShellVariableCasing returns the casing rule for identifiers emitted into
// the shell-layer file. Only Desktop has one.
func (p Platform) ShellVariableCasing() Casing {
	if p == Desktop {
		return SnakeCase
	}
	return CamelCase
}

// ComponentFileName derives the file name for a component identifier that has
// already been sanitized for the platform.
func (p Platform) ComponentFileName(ident string) string {
	return ident + "." + p.FileExtension()
}
