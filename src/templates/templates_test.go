package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakzo/aoc/src/config"
)

func TestBuiltinsAllHaveFiles(t *testing.T) {
	for name := range builtinCommands {
		t.Run(name, func(t *testing.T) {
			tmpl := Builtin(name)
			require.NotNil(t, tmpl)
			files, err := tmpl.Files()
			assert.NoError(t, err)
			require.Len(t, files, 1)
			assert.Regexp(t, `(^|\.)wip\.`, files[0])
			assert.True(t, tmpl.HasCommands())
		})
	}
}

func TestBuiltinMissing(t *testing.T) {
	assert.Nil(t, Builtin("cobol"))
}

func TestNames(t *testing.T) {
	configured := map[string]*config.Template{
		"kotlin": {Path: "/tmp/kotlin"},
		"go":     {Path: "/tmp/go"},
	}
	assert.Equal(t, []string{"assembly-x86-mac", "c", "go", "java", "js", "kotlin", "python", "ruby", "rust"}, Names(configured))
	assert.Equal(t, []string{"assembly-x86-mac", "c", "go", "java", "js", "python", "ruby", "rust"}, Names(nil))
}

func TestLookupBuiltin(t *testing.T) {
	tmpl, err := Lookup("rust", nil)
	require.NoError(t, err)
	assert.Equal(t, "rust", tmpl.Name)
	assert.Equal(t, "", tmpl.Path)
}

func TestLookupConfiguredOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	configured := map[string]*config.Template{
		"go": {Path: dir, Command: []string{"go run ."}},
	}
	tmpl, err := Lookup("go", configured)
	require.NoError(t, err)
	assert.Equal(t, dir, tmpl.Path)
	cmds, cleanup, err := tmpl.Commands("day01")
	defer cleanup()
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, []string{"go", "run", "."}, cmds[0].Args)
	assert.Equal(t, "day01", cmds[0].Dir)
}

func TestLookupDirectory(t *testing.T) {
	dir := t.TempDir()
	tmpl, err := Lookup(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, dir, tmpl.Path)
	assert.False(t, tmpl.HasCommands())
}

func TestLookupUnknownSuggests(t *testing.T) {
	_, err := Lookup("rusty", nil)
	require.Error(t, err)
	assert.Equal(t, "unknown template rusty; maybe you meant rust or ruby?", err.Error())
}

func TestLookupUnknownNoSuggestion(t *testing.T) {
	_, err := Lookup("haskell-with-extensions", nil)
	require.Error(t, err)
	assert.Equal(t, "unknown template haskell-with-extensions", err.Error())
}

func TestCommandsTempDir(t *testing.T) {
	tmpl := Builtin("rust")
	cmds, cleanup, err := tmpl.Commands("day03")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	bin := cmds[1].Args[0]
	assert.Equal(t, "wip", filepath.Base(bin))
	assert.Equal(t, []string{"rustc", "-o", bin, "wip.rs"}, cmds[0].Args)
	tempDir := filepath.Dir(bin)
	assert.DirExists(t, tempDir)
	cleanup()
	assert.NoDirExists(t, tempDir)
}

func TestCommandsShareTempDir(t *testing.T) {
	cmds, cleanup, err := Builtin("java").Commands("day04")
	defer cleanup()
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	tempDir := cmds[0].Args[2]
	assert.Equal(t, []string{"javac", "-d", tempDir, "Main.wip.java"}, cmds[0].Args)
	assert.Equal(t, []string{"java", "-classpath", tempDir, "Main"}, cmds[1].Args)
}

func TestCommandsNoTempDir(t *testing.T) {
	cmds, cleanup, err := Builtin("python").Commands("day03")
	defer cleanup()
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "wip.py"}, cmds[0].Args)
}

func TestCopyBuiltin(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "day01")
	written, err := Copy(Builtin("go"), dest)
	assert.NoError(t, err)
	assert.Equal(t, []string{"wip.go"}, written)
	b, err := os.ReadFile(filepath.Join(dest, "wip.go"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "input.txt")
}

func TestCopyDoesNotOverwrite(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "wip.py"), []byte("my solution"), 0644))
	written, err := Copy(Builtin("python"), dest)
	assert.NoError(t, err)
	assert.Empty(t, written)
	b, err := os.ReadFile(filepath.Join(dest, "wip.py"))
	require.NoError(t, err)
	assert.Equal(t, "my solution", string(b))
}

func TestCopyDirectoryTemplate(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "wip.kt"), []byte("fun main() {}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "lib", "util.kt"), []byte("// util"), 0644))

	dest := t.TempDir()
	written, err := Copy(FromDir("kotlin", src, nil), dest)
	assert.NoError(t, err)
	assert.Equal(t, []string{"lib/util.kt", "wip.kt"}, written)
	assert.FileExists(t, filepath.Join(dest, "lib", "util.kt"))
}

func TestCopyDirectoryTemplateSkipsHidden(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, ".git", "objects"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref: refs/heads/main"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "wip.kt"), []byte("fun main() {}"), 0644))

	dest := t.TempDir()
	written, err := Copy(FromDir("kotlin", src, nil), dest)
	assert.NoError(t, err)
	assert.Equal(t, []string{"wip.kt"}, written)
	assert.NoDirExists(t, filepath.Join(dest, ".git"))
}

func TestPromote(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wip.go"), []byte("solution"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "WIP.test.js"), []byte("tests"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wipe.go"), []byte("unrelated"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input.txt"), []byte("1 2 3"), 0644))

	promoted, err := Promote(dir, 2)
	assert.NoError(t, err)
	assert.Equal(t, []string{"part2.test.js", "part2.go"}, promoted)
	b, err := os.ReadFile(filepath.Join(dir, "part2.go"))
	require.NoError(t, err)
	assert.Equal(t, "solution", string(b))
	assert.NoFileExists(t, filepath.Join(dir, "parte.go"))
	assert.FileExists(t, filepath.Join(dir, "wip.go"))
}

func TestPromoteReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wip.rs"), []byte("new"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part1.rs"), []byte("old"), 0644))
	_, err := Promote(dir, 1)
	assert.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "part1.rs"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))
}

func TestPromoteJava(t *testing.T) {
	dir := t.TempDir()
	_, err := Copy(Builtin("java"), dir)
	require.NoError(t, err)
	promoted, err := Promote(dir, 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Main.part1.java"}, promoted)
}

func TestPromoteMissingDir(t *testing.T) {
	_, err := Promote(filepath.Join(t.TempDir(), "day09"), 1)
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, []string{"rust"}, Suggest("rsut", []string{"c", "go", "js", "python", "rust"}, 2))
	assert.Equal(t, "; maybe you meant go or js?", PrettyPrintSuggestion("gs", []string{"go", "js"}, 2))
	assert.Equal(t, "", PrettyPrintSuggestion("zzzzzz", []string{"go"}, 2))
}
