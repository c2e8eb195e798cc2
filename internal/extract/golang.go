package extract

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/ytget/codesage/internal/model"
)

// syntheticPackage is prepended to snippets that have no package clause
const syntheticPackage = "package snippet\n"

// GoExtractor extracts top-level func declarations (including methods) and
// type declarations. Doc comments are not part of a block.
type GoExtractor struct{}

// Extract parses source and returns one block per top-level declaration
func (g *GoExtractor) Extract(ctx context.Context, source string) ([]model.CodeBlock, error) {
	source = normalize(source)
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	offset := 0
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, parser.ParseComments)
	if err != nil {
		if hasPackageClause(source) {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		// Editors often hold a bare snippet; retry with a package clause
		// and shift the reported lines back.
		offset = 1
		file, err = parser.ParseFile(fset, "", syntheticPackage+source, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, shiftErrors(err, offset))
		}
	}

	lines := splitLines(source)
	var blocks []model.CodeBlock
	for _, decl := range file.Decls {
		kind, name, ok := goDeclaration(decl)
		if !ok {
			continue
		}
		start := fset.Position(decl.Pos()).Line - offset
		end := fset.Position(decl.End()).Line - offset
		blocks = append(blocks, newBlock(lines, kind, name, start, end))
	}
	return blocks, nil
}

func hasPackageClause(source string) bool {
	_, err := parser.ParseFile(token.NewFileSet(), "", source, parser.PackageClauseOnly)
	return err == nil
}

// shiftErrors moves reported positions up by lines
func shiftErrors(err error, lines int) error {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return err
	}
	shifted := make(scanner.ErrorList, 0, len(list))
	for _, e := range list {
		moved := *e
		moved.Pos.Line -= lines
		shifted = append(shifted, &moved)
	}
	return shifted
}

func goDeclaration(decl ast.Decl) (model.BlockKind, string, bool) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		if d.Recv != nil && len(d.Recv.List) > 0 {
			return model.BlockKindMethod, receiverName(d.Recv.List[0].Type) + "." + d.Name.Name, true
		}
		return model.BlockKindFunction, d.Name.Name, true
	case *ast.GenDecl:
		if d.Tok != token.TYPE || len(d.Specs) == 0 {
			return "", "", false
		}
		spec, ok := d.Specs[0].(*ast.TypeSpec)
		if !ok {
			return model.BlockKindType, "", true
		}
		return model.BlockKindType, spec.Name.Name, true
	default:
		return "", "", false
	}
}

// receiverName unwraps pointer and generic receivers down to the type name
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}
