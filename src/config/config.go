// Package config reads the .aocconfig files that configure aoc.
//
// The format is the same git-config-like INI format Please uses, e.g.
//
//	[aoc]
//	year = 2022
//	inputfile = input.txt
//
//	[start]
//	language = go
//
//	[template "kotlin"]
//	path = ~/aoc-templates/kotlin
//	command = kotlinc wip.kt -include-runtime -d {{tempdir}}/wip.jar
//	command = java -jar {{tempdir}}/wip.jar
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/please-build/gcfg"

	"github.com/jakzo/aoc/src/cli/logging"
	"github.com/jakzo/aoc/src/fs"
)

var log = logging.Log

// FileName is the name of the config file, both in the working directory and the user's home.
const FileName = ".aocconfig"

// SessionEnvVar overrides the session token from any config file.
const SessionEnvVar = "AOC_SESSION"

// DefaultBaseURL is where puzzles are fetched from.
const DefaultBaseURL = "https://adventofcode.com"

// A Configuration is the merged contents of all config files read.
type Configuration struct {
	Aoc struct {
		Session   string
		Year      int
		InputFile string
		DayDir    string
		BaseURL   string
	}
	Start struct {
		Language string
		Watch    []string
	}
	Template map[string]*Template
}

// A Template is a user-defined solution template.
type Template struct {
	Path    string
	Command []string
}

// DefaultConfiguration returns the configuration used when no files set anything.
func DefaultConfiguration() *Configuration {
	config := &Configuration{}
	config.Aoc.InputFile = "input.txt"
	config.Aoc.DayDir = "day%02d"
	config.Aoc.BaseURL = DefaultBaseURL
	config.Start.Language = "go"
	return config
}

// UserConfigFile returns the path to the config file in the user's home directory.
func UserConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warning("Can't determine home directory: %s", err)
		return FileName
	}
	return filepath.Join(home, FileName)
}

// DefaultConfigFiles returns the config files that are read in order if they exist.
// Later files override earlier ones.
func DefaultConfigFiles() []string {
	return []string{UserConfigFile(), FileName}
}

// ReadConfigFiles reads the given config files in order, then applies overrides from the environment.
// It is not an error for any of them not to exist.
func ReadConfigFiles(filenames []string) (*Configuration, error) {
	config := DefaultConfiguration()
	for _, filename := range filenames {
		if err := readConfigFile(config, filename); err != nil {
			return config, err
		}
	}
	if session := os.Getenv(SessionEnvVar); session != "" {
		log.Debug("Using session token from $%s", SessionEnvVar)
		config.Aoc.Session = session
	}
	if err := validateDayDir(config.Aoc.DayDir); err != nil {
		return config, err
	}
	for name, t := range config.Template {
		if t.Path == "" {
			return config, fmt.Errorf("template %s has no path set", name)
		}
		t.Path = expandHome(t.Path)
	}
	return config, nil
}

func readConfigFile(config *Configuration, filename string) error {
	if err := gcfg.ReadFileInto(config, filename); err != nil && os.IsNotExist(err) {
		return nil // It's not an error to not have the file at all.
	} else if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	log.Debug("Read config from %s", filename)
	return nil
}

// DirForDay returns the directory a day's solution lives in.
func (config *Configuration) DirForDay(day int) string {
	return fmt.Sprintf(config.Aoc.DayDir, day)
}

// Redacted returns a copy of this configuration that's safe to print, without the session token.
func (config *Configuration) Redacted() *Configuration {
	c := *config
	if c.Aoc.Session != "" {
		c.Aoc.Session = "<redacted>"
	}
	return &c
}

// validateDayDir checks that a daydir pattern formats each day number to a different directory.
func validateDayDir(dayDir string) error {
	first := fmt.Sprintf(dayDir, 1)
	if strings.Contains(first, "%!") || first == fmt.Sprintf(dayDir, 2) {
		return fmt.Errorf("invalid daydir %q: it must contain a single verb for the day number, e.g. day%%02d", dayDir)
	}
	return nil
}

// Commands returns the commands for this template, each split into its arguments.
func (t *Template) Commands() ([][]string, error) {
	ret := make([][]string, 0, len(t.Command))
	for _, cmd := range t.Command {
		parts, err := shlex.Split(cmd)
		if err != nil {
			return nil, fmt.Errorf("invalid command %q: %w", cmd, err)
		} else if len(parts) == 0 {
			continue
		}
		ret = append(ret, parts)
	}
	return ret, nil
}

// SaveSession stores the session token in the given config file, replacing any previous one
// and preserving everything else in it. The file is only readable by the current user.
func SaveSession(filename, session string) error {
	var buf bytes.Buffer
	if b, err := os.ReadFile(filename); err == nil {
		scanner := bufio.NewScanner(bytes.NewReader(b))
		for scanner.Scan() {
			if line := scanner.Text(); !isSessionLine(line) {
				buf.WriteString(line)
				buf.WriteByte('\n')
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	fmt.Fprintf(&buf, "[aoc]\nsession = %q\n", session)
	if err := fs.EnsureDir(filename); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0600); err != nil {
		return err
	}
	return os.Chmod(filename, 0600)
}

func isSessionLine(line string) bool {
	key, _, found := strings.Cut(strings.TrimSpace(line), "=")
	return found && strings.EqualFold(strings.TrimSpace(key), "session")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
