package treesitter

// Node type groups of the Python grammar, by the role they play in extraction.

// DeclarationNodeTypes lists the node types that can start a checkable declaration.
var DeclarationNodeTypes = map[string]bool{
	"function_definition":  true,
	"class_definition":     true,
	"decorated_definition": true,
}

// AnnotatedParameterTypes lists parameter node types that carry a type annotation.
var AnnotatedParameterTypes = map[string]bool{
	"typed_parameter":         true,
	"typed_default_parameter": true,
}

// PlainParameterTypes lists parameter node types without a type annotation.
var PlainParameterTypes = map[string]bool{
	"identifier":               true,
	"default_parameter":        true,
	"list_splat_pattern":       true, // *args
	"dictionary_splat_pattern": true, // **kwargs
}

// SeparatorNodeTypes lists parameter-list markers that are not parameters.
var SeparatorNodeTypes = map[string]bool{
	"keyword_separator":    true, // bare *
	"positional_separator": true, // /
}

// CommentNodeTypes lists tree-sitter node types that represent comments.
var CommentNodeTypes = map[string]bool{
	"comment": true,
}
