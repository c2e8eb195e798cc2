package model

import (
	"fmt"
	"strings"
)

// Language selects the parser used to split source into blocks
type Language string

const (
	LanguagePython Language = "python"
	LanguageGo     Language = "go"
)

// String returns the string representation of Language
func (l Language) String() string {
	return string(l)
}

// CommentPrefix returns the line comment marker for the language
func (l Language) CommentPrefix() string {
	if l == LanguageGo {
		return "//"
	}
	return "#"
}

// Languages returns all supported languages in display order
func Languages() []Language {
	return []Language{LanguagePython, LanguageGo}
}

// BlockKind describes what kind of definition a block holds
type BlockKind string

const (
	BlockKindFunction BlockKind = "function"
	BlockKindMethod   BlockKind = "method"
	BlockKindClass    BlockKind = "class"
	BlockKindType     BlockKind = "type"
)

// CodeBlock is one top-level function or class definition. StartLine and
// EndLine are 1-based and inclusive; Text is exactly those source lines
// joined with "\n".
type CodeBlock struct {
	Kind      BlockKind
	Name      string
	StartLine int
	EndLine   int
	Text      string
}

// LineCount returns the number of source lines covered by the block
func (b CodeBlock) LineCount() int {
	if b.EndLine < b.StartLine {
		return 0
	}
	return b.EndLine - b.StartLine + 1
}

// Label returns a short human readable block description, e.g. "function main (L3-L9)"
func (b CodeBlock) Label() string {
	name := b.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("%s %s (L%d-L%d)", b.Kind, name, b.StartLine, b.EndLine)
}

// CommentResult pairs a block with the comment generated for it
type CommentResult struct {
	Block   CodeBlock
	Comment string
}

// Format returns the text appended to the comment panel for this result
func (r CommentResult) Format() string {
	var b strings.Builder
	b.WriteString("Code Block:\n")
	b.WriteString(r.Block.Text)
	b.WriteString("\n\nComment:\n")
	b.WriteString(r.Comment)
	b.WriteString("\n\n")
	return b.String()
}
