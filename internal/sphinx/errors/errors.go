// Package errors provides sentinel errors for conf.py generation and the
// Sphinx and Doxygen subprocesses.
package errors

import "errors"

var (
	// ErrCommandNotFound indicates an executable was not found on PATH.
	ErrCommandNotFound = errors.New("command not found")

	// ErrCommandFailed indicates a subprocess exited with a non-zero status.
	ErrCommandFailed = errors.New("command failed")

	// ErrSphinxFailed indicates the Sphinx build did not succeed.
	ErrSphinxFailed = errors.New("sphinx build failed")

	// ErrConfRender indicates the conf.py template could not be rendered.
	ErrConfRender = errors.New("conf.py render failed")

	// ErrConfWrite indicates the generated conf.py could not be written.
	ErrConfWrite = errors.New("conf.py write failed")

	// ErrGitignoreUpdate indicates .gitignore could not be read or appended to.
	ErrGitignoreUpdate = errors.New(".gitignore update failed")
)
