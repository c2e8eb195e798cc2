// Package annotate writes generated comments back into source code.
package annotate

import (
	"sort"
	"strings"

	"github.com/ytget/codesage/internal/model"
)

// insertion is a comment placed above a zero-based source line
type insertion struct {
	line  int
	lines []string
}

// Prepend returns source with each comment inserted directly above its
// block, using the block's indentation and the language's line comment
// prefix. Blocks whose text can no longer be found are skipped, as are
// empty comments. Line endings are normalized to "\n".
func Prepend(lang model.Language, source string, results []model.CommentResult) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	lines := strings.Split(source, "\n")
	prefix := lang.CommentPrefix()

	// taken maps a claimed line to the StartLine of the block that claimed it
	taken := make(map[int]int)
	byLine := make(map[int]int)
	var inserts []insertion
	for _, r := range results {
		comment := strings.TrimSpace(r.Comment)
		if comment == "" {
			continue
		}
		at := locate(lines, r.Block, taken)
		if at < 0 {
			continue
		}
		taken[at] = r.Block.StartLine
		commented := commentLines(comment, indentOf(lines[at]), prefix)
		// blocks sharing a line (func a() {}; func b() {}) share one comment
		if i, ok := byLine[at]; ok {
			inserts[i].lines = append(inserts[i].lines, commented...)
			continue
		}
		byLine[at] = len(inserts)
		inserts = append(inserts, insertion{line: at, lines: commented})
	}

	// bottom-up so earlier line numbers stay valid
	sort.Slice(inserts, func(i, j int) bool { return inserts[i].line > inserts[j].line })
	for _, ins := range inserts {
		tail := append(ins.lines, lines[ins.line:]...)
		lines = append(lines[:ins.line:ins.line], tail...)
	}
	return strings.Join(lines, "\n")
}

// locate finds the first line of block in lines. The recorded start line
// is tried first, and may be shared with another block recorded on the same
// line. Otherwise the whole source is scanned for an unclaimed match.
func locate(lines []string, block model.CodeBlock, taken map[int]int) int {
	text := strings.ReplaceAll(block.Text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return -1
	}
	want := strings.Split(text, "\n")

	if at := block.StartLine - 1; at >= 0 && matchAt(lines, want, at) {
		if claimant, ok := taken[at]; !ok || claimant == block.StartLine {
			return at
		}
	}
	for at := range lines {
		if _, ok := taken[at]; !ok && matchAt(lines, want, at) {
			return at
		}
	}
	return -1
}

func matchAt(lines, want []string, at int) bool {
	if at+len(want) > len(lines) {
		return false
	}
	for i, w := range want {
		if lines[at+i] != w {
			return false
		}
	}
	return true
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func commentLines(comment, indent, prefix string) []string {
	parts := strings.Split(comment, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimRight(p, " \t\r")
		if p == "" {
			out = append(out, indent+prefix)
			continue
		}
		out = append(out, indent+prefix+" "+p)
	}
	return out
}
