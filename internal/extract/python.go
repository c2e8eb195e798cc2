package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/ytget/codesage/internal/model"
)

// Tree-sitter node types for Python definitions
const (
	nodeFunctionDefinition  = "function_definition"
	nodeClassDefinition     = "class_definition"
	nodeDecoratedDefinition = "decorated_definition"
)

// Tree-sitter node types used by the structure check
const (
	nodeModule         = "module"
	nodeBlock          = "block"
	nodeComment        = "comment"
	nodePrintStatement = "print_statement"
	nodeExecStatement  = "exec_statement"
)

// PythonExtractor extracts top-level def, async def and class statements.
// Decorators are part of the block they decorate.
type PythonExtractor struct{}

// Extract parses source and returns one block per top-level definition
func (p *PythonExtractor) Extract(ctx context.Context, source string) ([]model.CodeBlock, error) {
	source = normalize(source)
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	src := []byte(source)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrParse, firstErrorLocation(root))
	}
	if err := checkStructure(root); err != nil {
		return nil, err
	}

	lines := splitLines(source)
	var blocks []model.CodeBlock
	count := int(root.NamedChildCount())
	for i := 0; i < count; i++ {
		node := root.NamedChild(i)
		kind, name, ok := pythonDefinition(node, src)
		if !ok {
			continue
		}
		start, end := nodeLines(node)
		blocks = append(blocks, newBlock(lines, kind, name, start, end))
	}
	return blocks, nil
}

// pythonDefinition classifies a module-level node
func pythonDefinition(node *sitter.Node, src []byte) (model.BlockKind, string, bool) {
	switch node.Type() {
	case nodeFunctionDefinition:
		return model.BlockKindFunction, nodeName(node, src), true
	case nodeClassDefinition:
		return model.BlockKindClass, nodeName(node, src), true
	case nodeDecoratedDefinition:
		def := node.ChildByFieldName("definition")
		if def == nil {
			return "", "", false
		}
		return pythonDefinition(def, src)
	default:
		return "", "", false
	}
}

func nodeName(node *sitter.Node, src []byte) string {
	name := node.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return name.Content(src)
}

// checkStructure rejects trees the grammar accepts but Python does not:
// misaligned statements, bodies that are not indented, and Python 2
// print/exec statements.
func checkStructure(node *sitter.Node) error {
	switch node.Type() {
	case nodePrintStatement, nodeExecStatement:
		return structureError(node, "Python 2 statement")
	case nodeModule:
		if err := checkAligned(node); err != nil {
			return err
		}
	case nodeBlock:
		if err := checkIndented(node); err != nil {
			return err
		}
		if err := checkAligned(node); err != nil {
			return err
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if err := checkStructure(node.NamedChild(i)); err != nil {
			return err
		}
	}
	return nil
}

// checkAligned requires every statement that starts a line to start in the
// same column. Statements after a semicolon and statements on the header
// row of an inline body are skipped.
func checkAligned(node *sitter.Node) error {
	header := headerRow(node)
	column := -1
	prevEnd := -1
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeComment {
			continue
		}
		start := child.StartPoint()
		sameRow := int(start.Row) == prevEnd || int(start.Row) == header
		_, end := nodeLines(child)
		prevEnd = end - 1
		if sameRow {
			continue
		}
		if column < 0 {
			column = int(start.Column)
			continue
		}
		if int(start.Column) > column {
			return structureError(child, "unexpected indent")
		}
		if int(start.Column) < column {
			return structureError(child, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

// checkIndented requires a block to hold a statement and, unless it sits on
// its header row, to be indented deeper than the statement that owns it
func checkIndented(block *sitter.Node) error {
	first := firstStatement(block)
	if first == nil {
		return structureError(block, "expected an indented block")
	}
	if int(first.StartPoint().Row) == headerRow(block) {
		return nil
	}
	owner := block.Parent()
	if owner != nil && first.StartPoint().Column <= owner.StartPoint().Column {
		return structureError(first, "expected an indented block")
	}
	return nil
}

// headerRow is the row of the colon that opens block, or -1 for a module
func headerRow(node *sitter.Node) int {
	if node.Type() != nodeBlock {
		return -1
	}
	prev := node.PrevSibling()
	if prev == nil {
		return -1
	}
	return int(prev.EndPoint().Row)
}

func firstStatement(block *sitter.Node) *sitter.Node {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if child.Type() != nodeComment {
			return child
		}
	}
	return nil
}

func structureError(node *sitter.Node, msg string) error {
	p := node.StartPoint()
	return fmt.Errorf("%w: %s at line %d, column %d", ErrParse, msg, p.Row+1, p.Column+1)
}

// nodeLines converts a node span to 1-based inclusive line numbers. A span
// ending at column 0 stops on the previous line.
func nodeLines(node *sitter.Node) (int, int) {
	start := node.StartPoint()
	end := node.EndPoint()
	endRow := end.Row
	if end.Column == 0 && endRow > start.Row {
		endRow--
	}
	return int(start.Row) + 1, int(endRow) + 1
}

// firstErrorLocation walks the tree for the first ERROR or missing node
func firstErrorLocation(node *sitter.Node) string {
	if node.IsError() || node.IsMissing() {
		p := node.StartPoint()
		return fmt.Sprintf("syntax error at line %d, column %d", p.Row+1, p.Column+1)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.HasError() {
			return firstErrorLocation(child)
		}
	}
	return "syntax error"
}
