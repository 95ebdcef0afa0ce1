// Package toolchain maps a compiler identity to the command line used to
// build a single C/C++ source file.
package toolchain

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Identity names a supported compiler.
type Identity string

const (
	GCC   Identity = "g++"
	MinGW Identity = "mingw-g++"
	Clang Identity = "clang++"
	MSVC  Identity = "cl"
)

// Style is the flag dialect a toolchain speaks.
type Style int

const (
	StyleGNU Style = iota
	StyleMSVC
)

var gnuFlags = []string{"-std=c++17", "-Wall", "-Wextra", "-g"}
var msvcFlags = []string{"/EHsc", "/W4", "/std:c++17"}

// Toolchain is the resolved command and flags for an Identity.
type Toolchain struct {
	Identity Identity
	Command  string
	Flags    []string
	Style    Style
}

// Identities lists the selectable compilers in display order.
func Identities() []Identity {
	return []Identity{GCC, Clang, MSVC, MinGW}
}

// Label is a human readable name for the identity.
func (id Identity) Label() string {
	switch id {
	case GCC:
		return "GCC (g++)"
	case Clang:
		return "Clang (clang++)"
	case MSVC:
		return "MSVC (cl)"
	case MinGW:
		return "MinGW (mingw-g++)"
	default:
		return string(id)
	}
}

// ParseIdentity accepts both the command form ("clang++") and the family
// name ("clang"). Anything unrecognised is GCC.
func ParseIdentity(s string) Identity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g++", "gcc", "gnu":
		return GCC
	case "mingw-g++", "mingw":
		return MinGW
	case "clang++", "clang":
		return Clang
	case "cl", "msvc":
		return MSVC
	default:
		return GCC
	}
}

// Resolve never fails: unknown identities resolve like GCC.
func Resolve(id Identity) Toolchain {
	switch id {
	case Clang:
		return Toolchain{Identity: Clang, Command: "clang++", Flags: clone(gnuFlags), Style: StyleGNU}
	case MSVC:
		return Toolchain{Identity: MSVC, Command: "cl", Flags: clone(msvcFlags), Style: StyleMSVC}
	case MinGW:
		return Toolchain{Identity: MinGW, Command: "g++", Flags: clone(gnuFlags), Style: StyleGNU}
	default:
		return Toolchain{Identity: GCC, Command: "g++", Flags: clone(gnuFlags), Style: StyleGNU}
	}
}

// Args returns the full argument vector for compiling src into out.
func (t Toolchain) Args(src, out string) []string {
	args := clone(t.Flags)
	if t.Style == StyleMSVC {
		return append(args, "/Fe:"+out, src)
	}
	return append(args, "-o", out, src)
}

// StandardFlag returns the language-standard flag in this toolchain's dialect.
func (t Toolchain) StandardFlag() string {
	prefix := "-std="
	if t.Style == StyleMSVC {
		prefix = "/std:"
	}
	for _, f := range t.Flags {
		if strings.HasPrefix(f, prefix) {
			return f
		}
	}
	return ""
}

// CommandLine renders the invocation for display.
func (t Toolchain) CommandLine(src, out string) string {
	return strings.Join(append([]string{t.Command}, t.Args(src, out)...), " ")
}

// OutputPath is where the executable for src is written on this platform.
func OutputPath(src string) string {
	return OutputPathFor(src, runtime.GOOS)
}

// OutputPathFor places the executable next to src, named after its base name
// without the final extension, with ".exe" on windows.
func OutputPathFor(src, goos string) string {
	dir := filepath.Dir(src)
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if goos == "windows" {
		base += ".exe"
	}
	return filepath.Join(dir, base)
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
