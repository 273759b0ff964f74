package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/odvcencio/annotation-checker/pkg/lang"
)

// LegacyStatementTypes are Python 2 statements the grammar still accepts.
var LegacyStatementTypes = map[string]string{
	"print_statement": "print statement is not valid Python 3",
	"exec_statement":  "exec statement is not valid Python 3",
}

// NonStatementTypes are named children of a block or module that do not take
// part in indentation.
var NonStatementTypes = map[string]bool{
	"comment":           true,
	"line_continuation": true,
}

const (
	reasonIndentedBlock = "expected an indented block"
	reasonIndent        = "unexpected indent"
	reasonUnindent      = "unindent does not match any outer indentation level"
)

// structureError finds source the grammar parses without ERROR nodes but the
// Python compiler rejects: legacy statements and broken indentation.
func structureError(path string, root *sitter.Node) error {
	node, reason := invalidNode(root, 0)
	if node == nil {
		return nil
	}
	point := node.StartPoint()
	return &lang.ParseError{
		Path:   path,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Reason: reason,
	}
}

func invalidNode(node *sitter.Node, depth int) (*sitter.Node, string) {
	if node == nil || depth > maxWalkDepth {
		return nil, ""
	}

	if reason, ok := LegacyStatementTypes[node.Type()]; ok {
		return node, reason
	}
	switch node.Type() {
	case "module":
		if bad := misaligned(node, 0); bad != nil {
			return bad, reasonIndent
		}
	case "block":
		if bad, reason := blockError(node); bad != nil {
			return bad, reason
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if bad, reason := invalidNode(node.NamedChild(i), depth+1); bad != nil {
			return bad, reason
		}
	}
	return nil, ""
}

func blockError(block *sitter.Node) (*sitter.Node, string) {
	first := firstStatement(block)
	if first == nil {
		return block, reasonIndentedBlock
	}

	// A body on the header's row needs no indentation.
	owner := block.Parent()
	if owner != nil && first.StartPoint().Row > owner.StartPoint().Row &&
		first.StartPoint().Column <= owner.StartPoint().Column {
		return first, reasonIndentedBlock
	}

	if bad := misaligned(block, first.StartPoint().Column); bad != nil {
		return bad, reasonUnindent
	}
	return nil, ""
}

func firstStatement(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if !NonStatementTypes[child.Type()] {
			return child
		}
	}
	return nil
}

// misaligned returns the first statement of node that starts a line at a
// column other than column. Statements following a ";" share their line and
// are not compared.
func misaligned(node *sitter.Node, column uint32) *sitter.Node {
	afterSemicolon := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == ";" {
			afterSemicolon = true
			continue
		}
		if !child.IsNamed() || NonStatementTypes[child.Type()] {
			continue
		}
		if afterSemicolon {
			afterSemicolon = false
			continue
		}
		if child.StartPoint().Column != column {
			return child
		}
	}
	return nil
}
