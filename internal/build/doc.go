// Package build runs build passes over the whole book.
//
// A pass walks the pages in TOC order. A page is rebuilt only when its
// chapter source, the book's code or a template changed after its HTML was
// last written. Every page is interpreted, rendered to HTML with goldmark,
// executed against its template and written to the output directory.
//
// Builds never overlap: the CLI, the dev server and the watcher all go
// through one Builder, which serializes passes.
package build
