package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ScriptExecutor runs external build steps such as the npm install that
// produces node_modules
type ScriptExecutor struct {
	defaultTimeout time.Duration
}

// NewScriptExecutor creates a new script executor
func NewScriptExecutor() *ScriptExecutor {
	return &ScriptExecutor{
		defaultTimeout: 10 * time.Minute,
	}
}

// ExecuteScriptConfig contains configuration for executing a shell script.
type ExecuteScriptConfig struct {
	Script      string
	WorkingDir  string
	Env         map[string]string
	Timeout     time.Duration
	Description string
}

// ExecuteResult contains the result of script execution
type ExecuteResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// RunNPMInstall runs the external JavaScript build step in sourceDir
func (se *ScriptExecutor) RunNPMInstall(ctx context.Context, sourceDir string, timeout time.Duration) *ExecuteResult {
	return se.ExecuteScript(ctx, ExecuteScriptConfig{
		Script:      "npm install",
		WorkingDir:  sourceDir,
		Timeout:     timeout,
		Description: "npm install",
	})
}

// ExecuteScript runs a shell script with the given configuration
func (se *ScriptExecutor) ExecuteScript(ctx context.Context, config ExecuteScriptConfig) *ExecuteResult {
	startTime := time.Now()
	result := &ExecuteResult{}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = se.defaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Use /bin/sh for maximum compatibility
	//nolint:gosec // G204: Script execution is intentional and user-initiated
	cmd := exec.CommandContext(execCtx, "/bin/sh", "-c", config.Script)

	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}

	env := os.Environ()
	for key, value := range config.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if config.Description != "" {
		fmt.Fprintf(os.Stderr, "Executing: %s\n", config.Description)
	}

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Error = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		if execCtx.Err() == context.DeadlineExceeded {
			result.Error = fmt.Errorf("script timed out after %v", timeout)
		}
		return result
	}

	result.Success = true
	return result
}
