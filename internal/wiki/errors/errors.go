// Package errors provides sentinel errors for wiki post-processing.
// Callers wrap them with context and classify with errors.Is.
package errors

import "errors"

var (
	// ErrOutputDirNotFound indicates the directory to post-process does not exist.
	ErrOutputDirNotFound = errors.New("output directory not found")

	// ErrNotADirectory indicates the post-processing target exists but is a file.
	ErrNotADirectory = errors.New("output path is not a directory")

	// ErrTreeWalkFailed indicates traversal of the generated document tree failed.
	ErrTreeWalkFailed = errors.New("document tree walk failed")

	// ErrDocumentProcessing indicates cleanup or link rewriting failed for one or more documents.
	ErrDocumentProcessing = errors.New("document processing failed")

	// ErrNavigationWrite indicates writing the sidebar or footer document failed.
	ErrNavigationWrite = errors.New("navigation document write failed")

	// ErrLandingPromotion indicates renaming the root document to the landing page failed.
	ErrLandingPromotion = errors.New("landing page promotion failed")
)
