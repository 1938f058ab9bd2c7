// Package errors provides the classified error primitives used across bookbuilder.
//
// A build distinguishes two kinds of problems. Authoring-structure defects (an
// unknown directive, a malformed code argument, a page missing from the table
// of contents) are returned as fatal ClassifiedError values and abort the build
// pass. Code/prose drift (undefined, reused or unused sections) is never an
// error value; it is rendered into the page instead.
//
// Example usage:
//
//	err := errors.DirectiveError("unknown directive").
//		WithContext("command", cmd).
//		Build().
//		AtLine(page, lineNo)
package errors
