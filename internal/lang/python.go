package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Python is the only language docsgen documents.
var Python = &Language{
	Name:          "python",
	Extensions:    []string{".py"},
	PrivatePrefix: "__",
	lang:          python.GetLanguage(),
}

// IsPrivate reports whether a Python member name is underscore-prefixed.
func IsPrivate(name string) bool {
	return strings.HasPrefix(name, "_")
}

// Identifier returns the text of the first identifier child of node, which
// for class and function definitions is the defined name.
func Identifier(node *sitter.Node, source []byte) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return NodeText(n, source)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return NodeText(child, source)
		}
	}
	return ""
}

// Unwrap returns the definition inside a decorated_definition together with
// its decorator names. Other nodes are returned unchanged.
func Unwrap(node *sitter.Node, source []byte) (*sitter.Node, []string) {
	if node.Type() != "decorated_definition" {
		return node, nil
	}
	var decorators []string
	var def *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "decorator":
			text := strings.TrimPrefix(CollapseWhitespace(NodeText(child, source)), "@")
			if idx := strings.IndexByte(text, '('); idx >= 0 {
				text = text[:idx]
			}
			decorators = append(decorators, text)
		case "class_definition", "function_definition":
			def = child
		}
	}
	if def == nil {
		return node, decorators
	}
	return def, decorators
}

// Docstring returns the raw string literal that opens a block, or "".
func Docstring(block *sitter.Node, source []byte) string {
	if block == nil || block.NamedChildCount() == 0 {
		return ""
	}
	first := block.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return StringContent(NodeText(str, source))
}

// StringContent strips the prefix and quotes from a Python string literal.
func StringContent(raw string) string {
	raw = strings.TrimLeft(raw, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2*len(q) {
			return raw[len(q) : len(raw)-len(q)]
		}
	}
	return raw
}

// LiteralType maps a literal expression node to the name of the runtime type
// it evaluates to, or "" when the type cannot be known without running code.
func LiteralType(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "integer":
		return "int"
	case "float":
		return "float"
	case "string":
		if isBytes(NodeText(node, source)) {
			return "bytes"
		}
		return "str"
	case "concatenated_string":
		if node.NamedChildCount() > 0 {
			return LiteralType(node.NamedChild(0), source)
		}
		return "str"
	case "true", "false":
		return "bool"
	case "none":
		return "NoneType"
	case "list", "list_comprehension":
		return "list"
	case "dictionary", "dictionary_comprehension":
		return "dict"
	case "tuple":
		return "tuple"
	case "set", "set_comprehension":
		return "set"
	case "unary_operator":
		if node.NamedChildCount() > 0 {
			return LiteralType(node.NamedChild(0), source)
		}
	}
	return ""
}

// isBytes reports whether a string literal carries a b prefix.
func isBytes(raw string) bool {
	quote := strings.IndexAny(raw, `'"`)
	return quote > 0 && strings.ContainsAny(raw[:quote], "bB")
}
