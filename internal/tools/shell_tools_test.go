package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBash(t *testing.T) {
	dir := setupTestDir(t)

	result, err := Bash(map[string]interface{}{"cmd": "echo hello"}, dir)
	if err != nil {
		t.Fatalf("Bash failed: %v", err)
	}
	if result != "hello" {
		t.Errorf("Expected trimmed stdout, got: %q", result)
	}
}

func TestBashEmptyOutput(t *testing.T) {
	dir := setupTestDir(t)

	result, err := Bash(map[string]interface{}{"cmd": "true"}, dir)
	if err != nil {
		t.Fatalf("Bash failed: %v", err)
	}
	if result != "(empty)" {
		t.Errorf("Expected the (empty) token, got: %q", result)
	}
}

func TestBashFailure(t *testing.T) {
	dir := setupTestDir(t)

	// A failing command still returns its captured output, not an error.
	result, err := Bash(map[string]interface{}{"cmd": "echo out; echo err >&2; exit 3"}, dir)
	if err != nil {
		t.Fatalf("Bash should not error on non-zero exit: %v", err)
	}
	if !strings.Contains(result, "out") || !strings.Contains(result, "err") {
		t.Errorf("Expected combined stdout and stderr, got: %q", result)
	}

	result, err = Bash(map[string]interface{}{"cmd": "exit 1"}, dir)
	if err != nil {
		t.Fatalf("Bash should not error on non-zero exit: %v", err)
	}
	if result != "(empty)" {
		t.Errorf("Expected the (empty) token for silent failure, got: %q", result)
	}
}

func TestBashWorkingDir(t *testing.T) {
	dir := setupTestDir(t)
	os.WriteFile(filepath.Join(dir, "marker.txt"), []byte(""), 0644)

	result, err := Bash(map[string]interface{}{"cmd": "ls"}, dir)
	if err != nil {
		t.Fatalf("Bash failed: %v", err)
	}
	if !strings.Contains(result, "marker.txt") {
		t.Errorf("Command should run in the working directory, got: %q", result)
	}
}

func TestBashTimeout(t *testing.T) {
	dir := setupTestDir(t)

	// A command past its deadline is killed and reports the timeout
	// instead of hanging or returning an empty result.
	start := time.Now()
	result := runShell("sleep 5", dir, 200*time.Millisecond)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Command should be killed at the deadline, took %v", elapsed)
	}
	if !strings.Contains(result, "timed out") {
		t.Errorf("Expected timeout notice, got: %q", result)
	}
}

func initGitRepo(t *testing.T, dir string) {
	t.Helper()
	for _, cmd := range []string{
		"git init",
		"git config user.email 'test@test.com'",
		"git config user.name 'Test'",
	} {
		if out := runShell(cmd, dir, shellTimeout); strings.HasPrefix(out, "fatal") {
			t.Fatalf("%s failed: %s", cmd, out)
		}
	}
}

func TestDiff(t *testing.T) {
	dir := setupTestDir(t)
	initGitRepo(t, dir)

	os.WriteFile(filepath.Join(dir, "file.txt"), []byte("original\n"), 0644)
	runShell("git add file.txt && git commit -m init", dir, shellTimeout)

	result, err := Diff(map[string]interface{}{}, dir)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if result != "(empty)" {
		t.Errorf("Expected no diff for clean tree, got: %q", result)
	}

	os.WriteFile(filepath.Join(dir, "file.txt"), []byte("modified\n"), 0644)

	result, err = Diff(map[string]interface{}{"path": "file.txt"}, dir)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if !strings.Contains(result, "-original") || !strings.Contains(result, "+modified") {
		t.Errorf("Expected unified diff output, got: %q", result)
	}
}

func TestUndo(t *testing.T) {
	dir := setupTestDir(t)
	initGitRepo(t, dir)

	file := filepath.Join(dir, "file.txt")
	os.WriteFile(file, []byte("original\n"), 0644)
	runShell("git add file.txt && git commit -m init", dir, shellTimeout)

	// Clean file: informational result, nothing mutated.
	result, err := Undo(map[string]interface{}{"path": "file.txt"}, dir)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !strings.Contains(result, "no uncommitted changes") {
		t.Errorf("Expected no-changes notice, got: %q", result)
	}

	// Dirty file: local edits are discarded.
	os.WriteFile(file, []byte("modified\n"), 0644)
	result, err = Undo(map[string]interface{}{"path": "file.txt"}, dir)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !strings.Contains(result, "restored") {
		t.Errorf("Unexpected result: %q", result)
	}
	data, _ := os.ReadFile(file)
	if string(data) != "original\n" {
		t.Errorf("File should be restored to the committed version, got: %q", string(data))
	}
}

func TestUndoOutsideRepo(t *testing.T) {
	dir := setupTestDir(t)
	os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0644)

	if _, err := Undo(map[string]interface{}{"path": "file.txt"}, dir); err == nil {
		t.Error("Expected error outside a git repository")
	}
}
