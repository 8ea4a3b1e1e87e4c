package typeexpr

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/docsgen/internal/lang"
	"github.com/phobologic/docsgen/internal/model"
)

// Parse reads annotation source text such as "List[Dict[str, int]]",
// "'Widget'" or "int | None" into a raw type expression. The text is parsed
// with the Python grammar as the annotation of "_: <text>".
func Parse(text string) (*model.TypeExpr, error) {
	return parseDepth(text, 0)
}

func parseDepth(text string, depth int) (*model.TypeExpr, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	text = lang.CollapseWhitespace(text)
	if text == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	source := []byte("_: " + text + "\n")
	tree, err := lang.Python.NewParser().ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", text, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parsing %q: invalid annotation", text)
	}
	node := annotationNode(root)
	if node == nil {
		return nil, fmt.Errorf("parsing %q: not a single annotation", text)
	}
	e := fromNode(node, source, false, depth)
	return &e, nil
}

// annotationNode returns the type of the lone "_: T" statement in root.
func annotationNode(root *sitter.Node) *sitter.Node {
	if root.NamedChildCount() != 1 {
		return nil
	}
	stmt := root.NamedChild(0)
	if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
		return nil
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" || assign.ChildByFieldName("right") != nil {
		return nil
	}
	return assign.ChildByFieldName("type")
}

// FromNode converts an annotation node of a Python syntax tree into a raw
// type expression. Expressions with no type meaning, such as the metadata
// call in Annotated[int, Field(gt=0)], are kept as their source text.
func FromNode(node *sitter.Node, source []byte) *model.TypeExpr {
	e := fromNode(node, source, false, 0)
	return &e
}

// fromNode walks one annotation node. Inside Literal[...] string arguments
// are values, not forward references.
func fromNode(node *sitter.Node, source []byte, literal bool, depth int) model.TypeExpr {
	if depth > maxDepth {
		return model.TypeExpr{Kind: model.ExprError, Text: ErrTooDeep.Error()}
	}
	text := lang.CollapseWhitespace(lang.NodeText(node, source))

	switch node.Type() {
	case "type", "parenthesized_expression":
		if node.NamedChildCount() == 1 {
			return fromNode(node.NamedChild(0), source, literal, depth)
		}

	case "string", "concatenated_string":
		if literal {
			break
		}
		ref := lang.StringContent(text)
		if e, err := parseDepth(ref, depth+1); err == nil {
			return *e
		}
		return model.TypeExpr{Kind: model.ExprName, Name: ref}

	case "subscript":
		value := node.ChildByFieldName("value")
		if value == nil {
			break
		}
		name := lang.CollapseWhitespace(lang.NodeText(value, source))
		var args []*sitter.Node
		for i := 1; i < int(node.NamedChildCount()); i++ {
			if c := node.NamedChild(i); c.Type() != "comment" {
				args = append(args, c)
			}
		}
		return generic(name, args, source, depth)

	case "generic_type":
		if node.NamedChildCount() != 2 || node.NamedChild(1).Type() != "type_parameter" {
			break
		}
		name := lang.NodeText(node.NamedChild(0), source)
		params := node.NamedChild(1)
		args := make([]*sitter.Node, 0, params.NamedChildCount())
		for i := 0; i < int(params.NamedChildCount()); i++ {
			args = append(args, params.NamedChild(i))
		}
		return generic(name, args, source, depth)

	case "list":
		// Parameter list of Callable[[int, str], bool].
		e := model.TypeExpr{Kind: model.ExprGeneric}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			e.Args = append(e.Args, fromNode(node.NamedChild(i), source, literal, depth+1))
		}
		return e

	case "binary_operator", "union_type":
		members := unionMembers(node)
		if members == nil {
			break
		}
		e := model.TypeExpr{Kind: model.ExprGeneric, Name: "Union"}
		for _, m := range members {
			e.Args = append(e.Args, fromNode(m, source, literal, depth+1))
		}
		return e
	}

	return model.TypeExpr{Kind: model.ExprName, Name: text}
}

func generic(name string, args []*sitter.Node, source []byte, depth int) model.TypeExpr {
	literal := normalizeName(name) == "Literal"
	e := model.TypeExpr{Kind: model.ExprGeneric, Name: name}
	for _, a := range args {
		e.Args = append(e.Args, fromNode(a, source, literal, depth+1))
	}
	return e
}

// unionMembers flattens a chain of "|" operators into its operands, or
// returns nil when node is some other binary operation.
func unionMembers(node *sitter.Node) []*sitter.Node {
	var left, right *sitter.Node
	switch node.Type() {
	case "binary_operator":
		op := node.ChildByFieldName("operator")
		if op == nil || op.Type() != "|" {
			return nil
		}
		left, right = node.ChildByFieldName("left"), node.ChildByFieldName("right")
	case "union_type":
		if node.NamedChildCount() != 2 {
			return nil
		}
		left, right = node.NamedChild(0), node.NamedChild(1)
	}
	if left == nil || right == nil {
		return nil
	}
	var out []*sitter.Node
	for _, side := range []*sitter.Node{left, right} {
		side = unwrapType(side)
		if m := unionMembers(side); m != nil {
			out = append(out, m...)
			continue
		}
		out = append(out, side)
	}
	return out
}

func unwrapType(node *sitter.Node) *sitter.Node {
	for node.Type() == "type" && node.NamedChildCount() == 1 {
		node = node.NamedChild(0)
	}
	return node
}
