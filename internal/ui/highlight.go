package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/ytget/codesage/internal/model"
)

// HighlightSegments tokenizes source with chroma and returns monospace rich
// text segments colored by token class. Concatenating the segment texts
// yields source unchanged.
func HighlightSegments(lang model.Language, source string) []widget.RichTextSegment {
	lexer := lexers.Get(string(lang))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iter, err := lexer.Tokenise(nil, source)
	if err != nil {
		return []widget.RichTextSegment{codeSegment(source, theme.ColorNameForeground)}
	}

	var segments []widget.RichTextSegment
	for tok := iter(); tok != chroma.EOF; tok = iter() {
		if tok.Value == "" {
			continue
		}
		segments = append(segments, codeSegment(tok.Value, tokenColor(tok.Type)))
	}
	return segments
}

func codeSegment(text string, color fyne.ThemeColorName) *widget.TextSegment {
	return &widget.TextSegment{
		Text: text,
		Style: widget.RichTextStyle{
			ColorName: color,
			Inline:    true,
			TextStyle: fyne.TextStyle{Monospace: true},
		},
	}
}

// tokenColor maps a chroma token type to a theme color name
func tokenColor(tt chroma.TokenType) fyne.ThemeColorName {
	switch {
	case tt.InCategory(chroma.Comment):
		return ColorNameCodeComment
	case tt.InCategory(chroma.Keyword):
		return ColorNameCodeKeyword
	case tt.InSubCategory(chroma.LiteralString):
		return ColorNameCodeString
	case tt.InSubCategory(chroma.LiteralNumber):
		return ColorNameCodeNumber
	case tt == chroma.NameFunction, tt == chroma.NameClass, tt == chroma.NameDecorator:
		return ColorNameCodeName
	default:
		return theme.ColorNameForeground
	}
}
