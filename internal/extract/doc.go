// Package extract splits source text into top-level function and class
// blocks. Python goes through tree-sitter, Go through go/parser. Every block
// is a verbatim line range of the input.
package extract
