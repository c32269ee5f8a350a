// Package templates contains the solution templates that new puzzles start from.
//
// Each built-in template is a placeholder solution in some language: it reads input.txt
// in full and prints "Result: 0". Users can add their own in config.
package templates

import (
	"embed"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/jakzo/aoc/src/cli/logging"
	"github.com/jakzo/aoc/src/config"
	"github.com/jakzo/aoc/src/fs"
	"github.com/jakzo/aoc/src/process"
)

var log = logging.Log

//go:embed files
var builtinFiles embed.FS

// tempDirPlaceholder is replaced in commands by a temporary directory to put build outputs in.
const tempDirPlaceholder = "{{tempdir}}"

// maxSuggestionDistance is how different a name can be from a template to be suggested instead.
const maxSuggestionDistance = 3

// builtinCommands are the commands that build & run each built-in template.
var builtinCommands = map[string][][]string{
	"go": {
		{"go", "run", "wip.go"},
	},
	"rust": {
		{"rustc", "-o", tempDirPlaceholder + "/wip", "wip.rs"},
		{tempDirPlaceholder + "/wip"},
	},
	"c": {
		{"clang", "-o", tempDirPlaceholder + "/wip", "wip.c"},
		{tempDirPlaceholder + "/wip"},
	},
	"python": {
		{"python", "wip.py"},
	},
	"js": {
		{"node", "wip.js"},
	},
	"java": {
		{"javac", "-d", tempDirPlaceholder, "Main.wip.java"},
		{"java", "-classpath", tempDirPlaceholder, "Main"},
	},
	"ruby": {
		{"ruby", "wip.rb"},
	},
	"assembly-x86-mac": {
		{"nasm", "-f", "macho64", "-g", "-F", "dwarf", "-o", tempDirPlaceholder + "/wip.o", "wip.asm"},
		{"ld", "-macosx_version_min", "10.8", "-no_pie", "-lc", "-o", tempDirPlaceholder + "/wip", tempDirPlaceholder + "/wip.o"},
		{tempDirPlaceholder + "/wip"},
	},
}

// A Template is a set of files to start a solution from, plus the commands that run it.
type Template struct {
	Name string
	// Path is where the template's files live on disk. It's empty for built-in templates.
	Path     string
	files    iofs.FS
	commands [][]string
}

// Builtin returns the named built-in template, or nil if there isn't one.
func Builtin(name string) *Template {
	cmds, present := builtinCommands[name]
	if !present {
		return nil
	}
	sub, err := iofs.Sub(builtinFiles, "files/"+name)
	if err != nil {
		panic(err) // Can only happen if the embedded files are out of sync with builtinCommands
	}
	return &Template{Name: name, files: sub, commands: cmds}
}

// FromDir returns a template for the files in a directory on disk.
func FromDir(name, dir string, commands [][]string) *Template {
	return &Template{Name: name, Path: dir, files: os.DirFS(dir), commands: commands}
}

// Lookup finds a template by name. The name can be a built-in template, one defined in config,
// or the path to a directory (which then has no commands to run it).
func Lookup(name string, configured map[string]*config.Template) (*Template, error) {
	if t, present := configured[name]; present {
		cmds, err := t.Commands()
		if err != nil {
			return nil, err
		}
		return FromDir(name, t.Path, cmds), nil
	} else if t := Builtin(name); t != nil {
		return t, nil
	} else if fs.IsDirectory(name) {
		log.Debug("Using template directory %s", name)
		return FromDir(filepath.Base(name), name, nil), nil
	}
	return nil, fmt.Errorf("unknown template %s%s", name, PrettyPrintSuggestion(name, Names(configured), maxSuggestionDistance))
}

// Names returns the names of all templates available, in sorted order.
func Names(configured map[string]*config.Template) []string {
	names := maps.Keys(builtinCommands)
	for name := range configured {
		if _, present := builtinCommands[name]; !present {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Files returns the paths of all the files in this template, relative to its root.
// Hidden files and directories in template directories (e.g. .git) are left out.
func (t *Template) Files() ([]string, error) {
	if t.Path != "" {
		return fs.Glob(t.Path, []string{"**"})
	}
	var files []string
	err := iofs.WalkDir(t.files, ".", func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		} else if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// HasCommands returns true if this template knows how to run itself.
func (t *Template) HasCommands() bool {
	return len(t.commands) > 0
}

// Commands returns the commands that run this template's solution in the given directory.
// If any need a temporary directory it's created; the returned function removes it again.
func (t *Template) Commands(dir string) ([]process.Command, func(), error) {
	cleanup := func() {}
	tempDir := ""
	ret := make([]process.Command, len(t.commands))
	for i, args := range t.commands {
		cmd := process.Command{Args: make([]string, len(args)), Dir: dir}
		for j, arg := range args {
			if strings.Contains(arg, tempDirPlaceholder) && tempDir == "" {
				d, err := os.MkdirTemp("", "aoc")
				if err != nil {
					return nil, cleanup, err
				}
				tempDir = d
				cleanup = func() {
					if err := os.RemoveAll(d); err != nil {
						log.Warning("Failed to remove %s: %s", d, err)
					}
				}
			}
			cmd.Args[j] = strings.ReplaceAll(arg, tempDirPlaceholder, tempDir)
		}
		ret[i] = cmd
	}
	return ret, cleanup, nil
}
