// Package treesitter implements the lang.Parser interface for Python using tree-sitter.
package treesitter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/odvcencio/annotation-checker/pkg/lang"
	"github.com/odvcencio/annotation-checker/pkg/model"
)

const maxWalkDepth = 1000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser extracts top-level functions and classes from Python sources.
// A tree-sitter parser is created per call, so a Parser is safe for concurrent use.
type Parser struct {
	language *sitter.Language
}

func NewPythonParser() *Parser {
	return &Parser{language: python.GetLanguage()}
}

func (p *Parser) Language() string {
	return "python"
}

// Parse returns the top-level declarations of src in source order. Classes carry
// their methods; nested functions and other statements are not extracted.
func (p *Parser) Parse(path string, src []byte) ([]model.Declaration, error) {
	if !utf8.Valid(src) {
		return nil, &lang.ParseError{Path: path, Reason: "content is not valid UTF-8"}
	}

	src = bytes.TrimPrefix(src, utf8BOM)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, &lang.ParseError{Path: path, Reason: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &lang.ParseError{Path: path, Reason: "empty syntax tree"}
	}
	if root.HasError() {
		return nil, syntaxError(path, root)
	}
	if err := structureError(path, root); err != nil {
		return nil, err
	}

	x := extractor{src: src, comments: collectComments(root, src)}
	declarations := make([]model.Declaration, 0, int(root.NamedChildCount()))
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl, ok := x.declaration(root.NamedChild(i), -1)
		if !ok {
			continue
		}
		declarations = append(declarations, decl)
	}
	return declarations, nil
}

type extractor struct {
	src      []byte
	comments map[int][]comment
}

type comment struct {
	text string
	// ownLine is false for a comment trailing code on the same line.
	ownLine bool
}

// declaration converts a module or class body statement. outerRow is the row of an
// enclosing decorated_definition, or -1.
func (x extractor) declaration(node *sitter.Node, outerRow int) (model.Declaration, bool) {
	if node == nil || !DeclarationNodeTypes[node.Type()] {
		return model.Declaration{}, false
	}

	switch node.Type() {
	case "decorated_definition":
		return x.declaration(node.ChildByFieldName("definition"), int(node.StartPoint().Row))
	case "function_definition":
		return x.function(node, outerRow), true
	case "class_definition":
		return x.class(node, outerRow), true
	}
	return model.Declaration{}, false
}

func (x extractor) function(node *sitter.Node, outerRow int) model.Declaration {
	decl := model.Declaration{
		Kind:            model.KindFunction,
		Name:            x.text(node.ChildByFieldName("name")),
		Line:            int(node.StartPoint().Row) + 1,
		Parameters:      x.parameters(node.ChildByFieldName("parameters")),
		ReturnAnnotated: node.ChildByFieldName("return_type") != nil,
	}
	if node.ChildCount() > 0 && node.Child(0).Type() == "async" {
		decl.Async = true
	}
	decl.Comments = x.adjacentComments(node, outerRow)
	return decl
}

func (x extractor) class(node *sitter.Node, outerRow int) model.Declaration {
	decl := model.Declaration{
		Kind: model.KindClass,
		Name: x.text(node.ChildByFieldName("name")),
		Line: int(node.StartPoint().Row) + 1,
	}
	decl.Comments = x.adjacentComments(node, outerRow)

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member, ok := x.declaration(body.NamedChild(i), -1)
		if !ok || !member.IsFunction() {
			continue
		}
		decl.Methods = append(decl.Methods, member)
	}
	return decl
}

func (x extractor) parameters(node *sitter.Node) []model.Parameter {
	if node == nil {
		return nil
	}

	params := make([]model.Parameter, 0, int(node.NamedChildCount()))
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		nodeType := child.Type()
		switch {
		case SeparatorNodeTypes[nodeType]:
			continue
		case AnnotatedParameterTypes[nodeType]:
			params = append(params, model.Parameter{Name: x.parameterName(child), Annotated: true})
		case PlainParameterTypes[nodeType]:
			params = append(params, model.Parameter{Name: x.parameterName(child), Annotated: false})
		}
	}
	return params
}

func (x extractor) parameterName(node *sitter.Node) string {
	switch node.Type() {
	case "identifier":
		return x.text(node)
	case "default_parameter", "typed_default_parameter":
		if name := node.ChildByFieldName("name"); name != nil {
			return x.text(name)
		}
	case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
		// typed_parameter has no name field; its first named child is the
		// identifier or the splat pattern wrapping it.
		if node.NamedChildCount() > 0 {
			first := node.NamedChild(0)
			if first.Type() == "identifier" {
				return x.text(first)
			}
			if node.Type() == "typed_parameter" {
				return x.parameterName(first)
			}
		}
	}
	return strings.TrimLeft(x.text(node), "*")
}

// adjacentComments gathers the comments attached to a declaration: any comment on
// its decorator or signature lines, plus a comment standing on its own line directly
// above it or directly below the signature when the body starts on a later line.
func (x extractor) adjacentComments(node *sitter.Node, outerRow int) []string {
	if len(x.comments) == 0 {
		return nil
	}

	first := int(node.StartPoint().Row)
	if outerRow >= 0 {
		first = outerRow
	}
	end := headerEndRow(node)
	last := end
	if body := node.ChildByFieldName("body"); body != nil && int(body.StartPoint().Row) > end {
		last = end + 1
	}

	var comments []string
	for row := first - 1; row <= last; row++ {
		attached := row >= first && row <= end
		for _, c := range x.comments[row] {
			if attached || c.ownLine {
				comments = append(comments, c.text)
			}
		}
	}
	return comments
}

func (x extractor) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.Content(x.src))
}

// headerEndRow returns the row of the colon closing a def/class header.
func headerEndRow(node *sitter.Node) int {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == ":" {
			return int(child.StartPoint().Row)
		}
	}
	if body := node.ChildByFieldName("body"); body != nil {
		return int(body.StartPoint().Row)
	}
	return int(node.StartPoint().Row)
}

func collectComments(root *sitter.Node, src []byte) map[int][]comment {
	comments := map[int][]comment{}
	var walk func(node *sitter.Node, depth int)
	walk = func(node *sitter.Node, depth int) {
		if node == nil || depth > maxWalkDepth {
			return
		}
		if CommentNodeTypes[node.Type()] {
			row := int(node.StartPoint().Row)
			comments[row] = append(comments[row], comment{
				text:    node.Content(src),
				ownLine: startsLine(src, int(node.StartByte())),
			})
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i), depth+1)
		}
	}
	walk(root, 0)
	return comments
}

// startsLine reports whether only blanks precede offset on its line.
func startsLine(src []byte, offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch src[i] {
		case ' ', '\t', '\f':
			continue
		case '\n', '\r':
			return true
		default:
			return false
		}
	}
	return true
}

func syntaxError(path string, root *sitter.Node) error {
	node := firstErrorNode(root, 0)
	if node == nil {
		return &lang.ParseError{Path: path}
	}

	reason := "syntax error"
	if node.IsMissing() {
		reason = fmt.Sprintf("missing %q", node.Type())
	}
	point := node.StartPoint()
	return &lang.ParseError{
		Path:   path,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Reason: reason,
	}
}

func firstErrorNode(node *sitter.Node, depth int) *sitter.Node {
	if node == nil || depth > maxWalkDepth {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if found := firstErrorNode(child, depth+1); found != nil {
			return found
		}
	}
	return nil
}
