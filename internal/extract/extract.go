package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ytget/codesage/internal/model"
)

// ErrParse is returned when the source is not syntactically valid
var ErrParse = errors.New("failed to parse code")

// Extractor splits source into top-level blocks
type Extractor interface {
	Extract(ctx context.Context, source string) ([]model.CodeBlock, error)
}

// New returns the extractor for the given language
func New(lang model.Language) (Extractor, error) {
	switch lang {
	case model.LanguagePython:
		return &PythonExtractor{}, nil
	case model.LanguageGo:
		return &GoExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported language: %q", lang)
	}
}

// Extract is a shortcut for New(lang) followed by Extract
func Extract(ctx context.Context, lang model.Language, source string) ([]model.CodeBlock, error) {
	ex, err := New(lang)
	if err != nil {
		return nil, err
	}
	return ex.Extract(ctx, source)
}

// DetectLanguage picks a language from the file extension, defaulting to Python
func DetectLanguage(path string) model.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return model.LanguageGo
	default:
		return model.LanguagePython
	}
}

// normalize converts CRLF line endings so that byte offsets and line
// numbers agree with splitLines.
func normalize(source string) string {
	return strings.ReplaceAll(source, "\r\n", "\n")
}

func splitLines(source string) []string {
	return strings.Split(source, "\n")
}

// sliceLines returns lines start..end (1-based, inclusive) joined by "\n".
// Out of range bounds are clamped.
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

func newBlock(lines []string, kind model.BlockKind, name string, start, end int) model.CodeBlock {
	return model.CodeBlock{
		Kind:      kind,
		Name:      name,
		StartLine: start,
		EndLine:   end,
		Text:      sliceLines(lines, start, end),
	}
}
