package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiedit/internal/ai"
)

// execute runs the CLI in an isolated working and home directory. Flag
// values persist on the package-level commands, so they are reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range []interface{ Flags() *pflag.FlagSet }{askCmd, highlightCmd} {
		c.Flags().VisitAll(reset)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "aiedit "+version+"\n", out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	require.FileExists(t, path)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigShow_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "ai:\n  model: llama3\ncompiler: clang++\n")

	out, err := execute(t, "--config", path, "--endpoint", "http://example.test/api/generate", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "model: llama3")
	assert.Contains(t, out, "endpoint: http://example.test/api/generate")
	assert.Contains(t, out, "compiler: clang++")
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", "editor:\n  tab_width: 0\n")

	_, err := execute(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab_width")
}

func TestHighlight_PlainWhenNotATerminal(t *testing.T) {
	src := writeFile(t, "main.cpp", "/* a\nb */ int x;")

	out, err := execute(t, "highlight", "-n", src)
	require.NoError(t, err)
	assert.Equal(t, "1 /* a\n2 b */ int x;\n", out)
}

func TestHighlight_TrailingNewline(t *testing.T) {
	src := writeFile(t, "main.cpp", "int x;\nreturn x;\n")

	out, err := execute(t, "highlight", "-n", src)
	require.NoError(t, err)
	assert.Equal(t, "1 int x;\n2 return x;\n", out)

	empty := writeFile(t, "empty.cpp", "")
	out, err = execute(t, "highlight", empty)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHighlight_ForcedColor(t *testing.T) {
	src := writeFile(t, "main.cpp", "return 0;")

	out, err := execute(t, "highlight", "--color", src)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "return")
}

func TestAsk(t *testing.T) {
	var got ai.GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"use a reference"}`))
	}))
	defer srv.Close()
	code := writeFile(t, "main.cpp", "void f(int x);")

	out, err := execute(t, "--endpoint", srv.URL, "--model", "tiny", "ask", "--code", code, "how", "do", "I", "avoid", "copies?")
	require.NoError(t, err)
	assert.Equal(t, "use a reference\n", out)
	assert.Equal(t, "tiny", got.Model)
	assert.Contains(t, got.Prompt, "how do I avoid copies?")
	assert.Contains(t, got.Prompt, "void f(int x);")
}

func TestSuggest_EmptyFile(t *testing.T) {
	src := writeFile(t, "empty.cpp", "   \n")

	out, err := execute(t, "--endpoint", "http://127.0.0.1:1/api/generate", "suggest", src)
	require.NoError(t, err)
	assert.Equal(t, ai.EmptyCodeSuggestion+"\n", out)
}

func TestRun_WithGpp(t *testing.T) {
	if _, err := exec.LookPath("g++"); err != nil {
		t.Skip("g++ not installed")
	}
	src := writeFile(t, "hello.cpp", "#include <cstdio>\nint main() { std::puts(\"hello\"); return 3; }\n")

	out, err := execute(t, "run", src)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compilation successful")
	assert.Contains(t, out, "Program output:\nhello\n")
	assert.Contains(t, out, "[Process exited with code 3]")
}

func TestBuild_Failure(t *testing.T) {
	if _, err := exec.LookPath("g++"); err != nil {
		t.Skip("g++ not installed")
	}
	src := writeFile(t, "broken.cpp", "int main( {\n")

	out, err := execute(t, "build", src)
	require.ErrorIs(t, err, errBuildFailed)
	assert.Contains(t, out, "✗ Compilation failed:")
}
