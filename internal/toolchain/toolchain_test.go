package toolchain

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		id       Identity
		command  string
		style    Style
		standard string
	}{
		{GCC, "g++", StyleGNU, "-std=c++17"},
		{MinGW, "g++", StyleGNU, "-std=c++17"},
		{Clang, "clang++", StyleGNU, "-std=c++17"},
		{MSVC, "cl", StyleMSVC, "/std:c++17"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			tc := Resolve(tt.id)
			assert.Equal(t, tt.command, tc.Command)
			assert.Equal(t, tt.style, tc.Style)
			assert.Contains(t, tc.Flags, tt.standard)
			assert.Equal(t, tt.standard, tc.StandardFlag())
		})
	}
}

func TestResolve_EveryIdentityHasCommandAndStandard(t *testing.T) {
	for _, id := range Identities() {
		tc := Resolve(id)
		assert.NotEmpty(t, tc.Command, id)
		assert.NotEmpty(t, tc.StandardFlag(), id)
	}
}

func TestResolve_UnknownFallsBackToGCC(t *testing.T) {
	tc := Resolve(Identity("tcc"))
	assert.Equal(t, GCC, tc.Identity)
	assert.Equal(t, "g++", tc.Command)
	assert.Equal(t, []string{"-std=c++17", "-Wall", "-Wextra", "-g"}, tc.Flags)
}

func TestResolve_FlagsAreNotShared(t *testing.T) {
	a := Resolve(GCC)
	a.Flags[0] = "-std=c++20"
	assert.Equal(t, "-std=c++17", Resolve(GCC).Flags[0])
}

func TestArgs(t *testing.T) {
	gnu := Resolve(Clang).Args("/src/main.cpp", "/src/main")
	assert.Equal(t, []string{"-std=c++17", "-Wall", "-Wextra", "-g", "-o", "/src/main", "/src/main.cpp"}, gnu)

	msvc := Resolve(MSVC).Args(`C:\src\main.cpp`, `C:\src\main.exe`)
	assert.Equal(t, []string{"/EHsc", "/W4", "/std:c++17", `/Fe:C:\src\main.exe`, `C:\src\main.cpp`}, msvc)
}

func TestCommandLine(t *testing.T) {
	got := Resolve(GCC).CommandLine("a.cpp", "a")
	assert.Equal(t, "g++ -std=c++17 -Wall -Wextra -g -o a a.cpp", got)
}

func TestParseIdentity(t *testing.T) {
	cases := map[string]Identity{
		"g++":       GCC,
		"GCC":       GCC,
		"mingw-g++": MinGW,
		"mingw":     MinGW,
		"clang":     Clang,
		" clang++ ": Clang,
		"msvc":      MSVC,
		"cl":        MSVC,
		"":          GCC,
		"zig":       GCC,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseIdentity(in), in)
	}
}

func TestOutputPathFor(t *testing.T) {
	src := filepath.Join("/a", "b", "prog.cpp")

	unix := OutputPathFor(src, "linux")
	assert.Equal(t, filepath.Join("/a", "b"), filepath.Dir(unix))
	assert.Equal(t, "prog", filepath.Base(unix))

	win := OutputPathFor(src, "windows")
	assert.Equal(t, filepath.Join("/a", "b"), filepath.Dir(win))
	assert.Equal(t, "prog.exe", filepath.Base(win))
}

func TestOutputPathFor_OnlyLastExtensionDropped(t *testing.T) {
	got := OutputPathFor(filepath.Join("dir", "my.test.cc"), "darwin")
	assert.Equal(t, "my.test", filepath.Base(got))
}

func TestOutputPath_CurrentPlatform(t *testing.T) {
	got := OutputPath(filepath.Join("/a", "b", "prog.cpp"))
	require.True(t, strings.HasPrefix(filepath.Base(got), "prog"))
	assert.Equal(t, filepath.Join("/a", "b"), filepath.Dir(got))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "MSVC (cl)", MSVC.Label())
	assert.Equal(t, "tcc", Identity("tcc").Label())
}
