package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// projectFiles lists files under dir relative to it, skipping hidden and
// dependency directories.
func projectFiles(dir string) []string {
	var files []string
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		base := filepath.Base(path)
		if info.IsDir() {
			if path != dir && (strings.HasPrefix(base, ".") || skipDirs[base]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	return files
}

// ReplCompleter implements readline.AutoCompleter for slash commands and
// @ file references.
type ReplCompleter struct {
	workingDir string
}

func NewReplCompleter(workingDir string) *ReplCompleter {
	return &ReplCompleter{workingDir: workingDir}
}

var replCommands = []string{"/clear", "/tools", "/help", "/quit"}

// Do implements the readline.AutoCompleter interface.
func (c *ReplCompleter) Do(line []rune, pos int) ([][]rune, int) {
	lineStr := string(line[:pos])

	if strings.HasPrefix(lineStr, "/") && !strings.Contains(lineStr, " ") {
		var candidates [][]rune
		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, lineStr) {
				candidates = append(candidates, []rune(cmd[len(lineStr):]))
			}
		}
		return candidates, len(lineStr)
	}

	atIdx := strings.LastIndex(lineStr, "@")
	if atIdx == -1 {
		return nil, 0
	}
	prefix := lineStr[atIdx+1:]

	var candidates [][]rune
	for _, file := range projectFiles(c.workingDir) {
		if strings.HasPrefix(file, prefix) {
			candidates = append(candidates, []rune(file[len(prefix):]))
		}
	}
	return candidates, len(prefix)
}

// selectFile opens a fuzzy picker over the project's files.
func selectFile(workingDir string) (string, error) {
	files := projectFiles(workingDir)
	if len(files) == 0 {
		return "", fmt.Errorf("no files found in %s", workingDir)
	}

	searcher := func(input string, index int) bool {
		return strings.Contains(strings.ToLower(files[index]), strings.ToLower(input))
	}

	prompt := promptui.Select{
		Label:             "Select a file",
		Items:             files,
		Size:              20,
		Searcher:          searcher,
		StartInSearchMode: true,
		HideSelected:      true,
	}
	_, result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return result, nil
}

// expandFileReferences replaces @path tokens with the referenced file's
// content in a fenced code block. A bare trailing @ opens the picker.
func expandFileReferences(message, workingDir string) (string, error) {
	parts := strings.Split(message, "@")
	if len(parts) == 1 {
		return message, nil
	}

	var sb strings.Builder
	sb.WriteString(parts[0])

	for _, part := range parts[1:] {
		words := strings.Fields(part)

		var path, rest string
		if len(words) == 0 {
			selected, err := selectFile(workingDir)
			if err != nil {
				return "", fmt.Errorf("file selection cancelled: %w", err)
			}
			path = selected
		} else {
			path = words[0]
			rest = strings.TrimPrefix(part, path)
		}

		content, err := os.ReadFile(filepath.Join(workingDir, path))
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}

		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		sb.WriteString(fmt.Sprintf("\n\nFile: `%s`\n```%s\n%s\n```%s", path, ext, string(content), rest))
	}

	return sb.String(), nil
}
