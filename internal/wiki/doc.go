// Package wiki post-processes Sphinx Markdown builder output into a tree that
// a flat-namespace wiki (GitHub Wiki) can host.
//
// Processing runs in a fixed order over one output directory:
//
//	flatten -> promote landing page -> cleanup + rewrite links -> verify links -> sidebar -> footer
//
// Flattening moves every retained document to the root and records a PageMap
// from the original relative path to the flat page name. Link rewriting and
// navigation generation consume that map. All filesystem access goes through a
// billy.Filesystem rooted at the output directory, so the pipeline can run
// against an in-memory tree in tests.
package wiki
