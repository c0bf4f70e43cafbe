package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolvePath makes a tool-supplied path absolute against the working directory.
func resolvePath(path, workingDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDir, path)
}

// intParam reads a numeric parameter. JSON unmarshaling yields float64, but
// handlers also accept int so tests can pass literals.
func intParam(params map[string]interface{}, name string) (int, bool, error) {
	v, ok := params[name]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case float64:
		return int(n), true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number", name)
	}
}

func Read(params map[string]interface{}, workingDir string) (string, error) {
	path, ok := params["path"].(string)
	if !ok {
		return "", fmt.Errorf("path parameter is required")
	}
	path = resolvePath(path, workingDir)

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	lines := strings.Split(string(content), "\n")

	offset, _, err := intParam(params, "offset")
	if err != nil {
		return "", err
	}
	if offset < 0 || offset > len(lines) {
		return "", fmt.Errorf("offset %d is out of range (file has %d lines)", offset, len(lines))
	}

	limit, hasLimit, err := intParam(params, "limit")
	if err != nil {
		return "", err
	}
	end := len(lines)
	if hasLimit && offset+limit < end {
		end = offset + limit
	}

	var sb strings.Builder
	for i, line := range lines[offset:end] {
		sb.WriteString(fmt.Sprintf("%-4d%s\n", offset+i+1, line))
	}
	return sb.String(), nil
}

func Write(params map[string]interface{}, workingDir string) (string, error) {
	path, ok := params["path"].(string)
	if !ok {
		return "", fmt.Errorf("path parameter is required")
	}
	content, ok := params["content"].(string)
	if !ok {
		return "", fmt.Errorf("content parameter is required")
	}
	path = resolvePath(path, workingDir)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("wrote %s", path), nil
}

func Edit(params map[string]interface{}, workingDir string) (string, error) {
	path, ok := params["path"].(string)
	if !ok {
		return "", fmt.Errorf("path parameter is required")
	}
	old, ok := params["old"].(string)
	if !ok {
		return "", fmt.Errorf("old parameter is required")
	}
	if old == "" {
		return "", fmt.Errorf("old cannot be empty; use write to replace a whole file")
	}
	newStr, ok := params["new"].(string)
	if !ok {
		return "", fmt.Errorf("new parameter is required")
	}
	all, _ := params["all"].(bool)

	path = resolvePath(path, workingDir)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	text := string(content)

	count := strings.Count(text, old)
	if count == 0 {
		return "", fmt.Errorf("old string not found in %s", path)
	}

	var edited string
	if all {
		edited = strings.ReplaceAll(text, old, newStr)
	} else {
		if count > 1 {
			return "", fmt.Errorf("old string appears %d times in %s; pass all=true to replace every occurrence", count, path)
		}
		edited = strings.Replace(text, old, newStr, 1)
	}

	if err := os.WriteFile(path, []byte(edited), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if all && count > 1 {
		return fmt.Sprintf("replaced %d occurrences in %s", count, path), nil
	}
	return fmt.Sprintf("edited %s", path), nil
}
