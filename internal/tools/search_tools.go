package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const maxGrepMatches = 50

// globToRegexp translates a glob pattern into an anchored regexp over
// slash-separated relative paths: "**" crosses separators, "*" stays within
// one segment, "?" matches a single character.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				sb.WriteString(".*")
				i++
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// searchRoot resolves the optional path parameter for the search tools.
func searchRoot(params map[string]interface{}, workingDir string) string {
	root := "."
	if p, ok := params["path"].(string); ok && p != "" {
		root = p
	}
	return resolvePath(root, workingDir)
}

type globMatch struct {
	path    string
	modTime time.Time
}

func Glob(params map[string]interface{}, workingDir string) (string, error) {
	pattern, ok := params["pattern"].(string)
	if !ok {
		return "", fmt.Errorf("pattern parameter is required")
	}
	re, err := globToRegexp(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid glob pattern: %w", err)
	}
	root := searchRoot(params, workingDir)

	var matches []globMatch
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		// Unreadable entries are skipped, not fatal.
		if err != nil {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if re.MatchString(filepath.ToSlash(rel)) {
			matches = append(matches, globMatch{path: rel, modTime: info.ModTime()})
		}
		return nil
	})

	if len(matches) == 0 {
		return "none", nil
	}

	// Most recently modified first.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].modTime.After(matches[j].modTime)
	})

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.path
	}
	return strings.Join(paths, "\n"), nil
}

var errTooManyMatches = errors.New("match limit reached")

func Grep(params map[string]interface{}, workingDir string) (string, error) {
	pattern, ok := params["pattern"].(string)
	if !ok {
		return "", fmt.Errorf("pattern parameter is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex pattern: %w", err)
	}
	root := searchRoot(params, workingDir)

	var hits []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		for i, line := range strings.Split(string(content), "\n") {
			if re.MatchString(line) {
				hits = append(hits, fmt.Sprintf("%s:%d:%s", rel, i+1, strings.TrimRight(line, " \t\r")))
				if len(hits) >= maxGrepMatches {
					return errTooManyMatches
				}
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errTooManyMatches) {
		return "", fmt.Errorf("failed to walk %s: %w", root, err)
	}

	if len(hits) == 0 {
		return "none", nil
	}
	return strings.Join(hits, "\n"), nil
}
