// Package errors provides the classified error type docwiki commands return.
//
// Packages keep plain sentinel errors (see internal/wiki/errors); the CLI
// wraps them in a ClassifiedError so CLIErrorAdapter can pick an exit code
// and decide how much detail to print.
//
//	err := errors.WrapError(cause, errors.CategoryCommand, "sphinx build failed").
//		WithContext("command", "python3 -m sphinx").
//		Build()
package errors
