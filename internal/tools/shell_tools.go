package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// shellTimeout bounds every bash invocation so a runaway command cannot
// hang the agent loop.
const shellTimeout = 30 * time.Second

func Bash(params map[string]interface{}, workingDir string) (string, error) {
	command, ok := params["cmd"].(string)
	if !ok {
		return "", fmt.Errorf("cmd parameter is required")
	}
	return runShell(command, workingDir, shellTimeout), nil
}

// runShell executes a command through the shell with a hard timeout. On
// success it returns trimmed stdout; on any failure (non-zero exit, timeout,
// spawn error) it returns whatever output was captured so the model can see
// what went wrong. Empty output becomes the "(empty)" token either way.
func runShell(command, workingDir string, timeout time.Duration) string {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	out := strings.TrimSpace(stdout.String())
	if err != nil {
		combined := strings.TrimSpace(stdout.String() + stderr.String())
		if ctx.Err() == context.DeadlineExceeded {
			combined = strings.TrimSpace(combined + fmt.Sprintf("\ncommand timed out after %v", timeout))
		}
		if combined == "" {
			return "(empty)"
		}
		return combined
	}
	if out == "" {
		return "(empty)"
	}
	return out
}

func Diff(params map[string]interface{}, workingDir string) (string, error) {
	command := "git diff"
	if path, ok := params["path"].(string); ok && path != "" {
		command = fmt.Sprintf("git diff -- %q", path)
	}
	return Bash(map[string]interface{}{"cmd": command}, workingDir)
}

func Undo(params map[string]interface{}, workingDir string) (string, error) {
	path, ok := params["path"].(string)
	if !ok {
		return "", fmt.Errorf("path parameter is required")
	}

	status := exec.Command("git", "status", "--porcelain", "--", path)
	status.Dir = workingDir
	var stdout, stderr bytes.Buffer
	status.Stdout = &stdout
	status.Stderr = &stderr
	if err := status.Run(); err != nil {
		return "", fmt.Errorf("git status failed: %w\n%s", err, stderr.String())
	}

	if strings.TrimSpace(stdout.String()) == "" {
		return fmt.Sprintf("no uncommitted changes for %s", path), nil
	}

	checkout := exec.Command("git", "checkout", "--", path)
	checkout.Dir = workingDir
	stderr.Reset()
	checkout.Stderr = &stderr
	if err := checkout.Run(); err != nil {
		return "", fmt.Errorf("git checkout failed: %w\n%s", err, stderr.String())
	}
	return fmt.Sprintf("restored %s from the last commit", path), nil
}
