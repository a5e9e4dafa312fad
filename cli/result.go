package cli

import "errors"

// CommandError signals a command failure with a specific exit code.
// Commands return it after printing their own diagnostics, so main only has
// to exit.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// CommandResult is the outcome of running a command.
type CommandResult struct {
	// ExitCode is returned to the OS. 0 means success.
	ExitCode int

	// Err is set for failures that have not been reported to the user yet.
	Err error
}

// Success returns a CommandResult indicating successful execution.
func Success() CommandResult {
	return CommandResult{ExitCode: 0}
}

// Failure returns a CommandResult indicating failure with the given error.
func Failure(err error) CommandResult {
	return CommandResult{ExitCode: 1, Err: err}
}

// ResultOf maps the error returned by a command to a CommandResult. A
// CommandError carries its own exit code and has already been reported.
func ResultOf(err error) CommandResult {
	if err == nil {
		return Success()
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return CommandResult{ExitCode: cmdErr.ExitCode()}
	}

	return Failure(err)
}
