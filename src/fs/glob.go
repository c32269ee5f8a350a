package fs

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

type matcher interface {
	Match(name string) (bool, error)
}

type builtInGlob string

func (p builtInGlob) Match(name string) (bool, error) {
	matched, err := filepath.Match(string(p), name)
	if err != nil {
		return false, fmt.Errorf("failed to glob, invalid pattern: %v, %w", string(p), err)
	}
	return matched, nil
}

type regexGlob struct {
	regex *regexp.Regexp
}

func (r regexGlob) Match(name string) (bool, error) {
	return r.regex.MatchString("/" + name), nil
}

// patternToMatcher converts the string pattern into a matcher. A matcher can either be one of our homebrew compiled
// regexes that support ** or a matcher that uses the built in filepath.Match functionality.
func patternToMatcher(pattern string) (matcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("cannot use an empty string as a glob")
	}
	// Use the built in filepath.Match globs when not using double star as it's far more efficient
	if !strings.Contains(pattern, "**") {
		return builtInGlob(pattern), nil
	}
	regex, err := regexp.Compile(toRegexString("/" + pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to compile glob pattern %s, %w", pattern, err)
	}
	return regexGlob{regex: regex}, nil
}

func toRegexString(pattern string) string {
	pattern = "^" + pattern + "$"
	pattern = strings.ReplaceAll(pattern, "+", "\\+")         // escape +
	pattern = strings.ReplaceAll(pattern, ".", "\\.")         // escape .
	pattern = strings.ReplaceAll(pattern, "(", "\\(")         // escape (
	pattern = strings.ReplaceAll(pattern, ")", "\\)")         // escape )
	pattern = strings.ReplaceAll(pattern, "?", "[^/]")        // match ? as any single char
	pattern = strings.ReplaceAll(pattern, "*", "[^/]*")       // handle single (all) * components
	pattern = strings.ReplaceAll(pattern, "[^/]*[^/]*", ".*") // handle ** components
	pattern = strings.ReplaceAll(pattern, "/.*/", "/(.*/)?")  // Allow ** to match zero directories
	return pattern
}

// IsGlob returns true if the given pattern requires globbing (i.e. contains characters that would be expanded by it)
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// Match returns true if the given slash-separated relative path matches the glob.
// Globs support Ant-style ** to match any number of directories.
func Match(glob, path string) (bool, error) {
	m, err := patternToMatcher(glob)
	if err != nil {
		return false, err
	}
	return m.Match(path)
}

// Glob returns all the files under rootPath that match any of the given patterns, relative to rootPath
// and in sorted order. Hidden files are never matched.
func Glob(rootPath string, patterns []string) ([]string, error) {
	matchers := make([]matcher, len(patterns))
	for i, pattern := range patterns {
		m, err := patternToMatcher(pattern)
		if err != nil {
			return nil, err
		}
		matchers[i] = m
	}
	var ret []string
	err := Walk(rootPath, func(name string, isDir bool) error {
		rel, err := filepath.Rel(rootPath, name)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if IsHidden(rel) {
			if isDir {
				return SkipDir
			}
			return nil
		} else if isDir {
			return nil
		}
		for _, m := range matchers {
			if match, err := m.Match(rel); err != nil {
				return err
			} else if match {
				ret = append(ret, rel)
				break
			}
		}
		return nil
	})
	sort.Strings(ret)
	return ret, err
}

// IsHidden returns true if any component of the given relative path is hidden, i.e. starts with .
// or starts and ends with #. The current and parent directory components don't count.
func IsHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		} else if strings.HasPrefix(part, ".") || (strings.HasPrefix(part, "#") && strings.HasSuffix(part, "#")) {
			return true
		}
	}
	return false
}
