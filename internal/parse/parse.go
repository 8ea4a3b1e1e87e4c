// Package parse loads Python modules statically with tree-sitter, without
// executing any of their code.
package parse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/docsgen/internal/lang"
	"github.com/phobologic/docsgen/internal/model"
	"github.com/phobologic/docsgen/internal/typeexpr"
)

// ErrSyntax is returned for source files that do not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// Static is a loader backend that reads class definitions from source.
// Members are reported in declaration order; inherited members and
// imported names are not visible to it.
type Static struct{}

// Load parses root/rel and returns its top-level class and function
// bindings.
func (Static) Load(ctx context.Context, root, rel string) ([]model.Binding, error) {
	source, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return nil, err
	}
	return ExtractBindings(ctx, lang.Python.NewParser(), source)
}

// ExtractBindings parses a source file and returns its top-level bindings.
// The parser must be created for Python.
func ExtractBindings(ctx context.Context, parser *sitter.Parser, source []byte) ([]model.Binding, error) {
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root)
	}

	var bindings []model.Binding
	for i := 0; i < int(root.NamedChildCount()); i++ {
		def, _ := lang.Unwrap(root.NamedChild(i), source)
		switch def.Type() {
		case "class_definition":
			cls := extractClass(def, source)
			bindings = append(bindings, model.Binding{Name: cls.Name, Kind: model.ClassBinding, Class: cls})
		case "function_definition":
			if name := lang.Identifier(def, source); name != "" {
				bindings = append(bindings, model.Binding{Name: name, Kind: model.FunctionBinding})
			}
		}
	}
	return bindings, nil
}

func syntaxError(root *sitter.Node) error {
	if bad := firstError(root); bad != nil {
		return fmt.Errorf("%w at line %d", ErrSyntax, bad.StartPoint().Row+1)
	}
	return ErrSyntax
}

func firstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

func extractClass(node *sitter.Node, source []byte) *model.Class {
	body := node.ChildByFieldName("body")
	cls := &model.Class{
		Name: lang.Identifier(node, source),
		Doc:  lang.Docstring(body, source),
	}
	if body != nil {
		// A redefined name replaces the earlier definition but keeps its
		// position, as in the class namespace.
		seen := map[string]int{}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			def, decorators := lang.Unwrap(body.NamedChild(i), source)
			if def.Type() != "function_definition" || !isPlainFunction(decorators) {
				continue
			}
			fn := extractFunction(def, decorators, source)
			if fn.Name == "__init__" {
				cls.Init = fn
				continue
			}
			if idx, ok := seen[fn.Name]; ok {
				cls.Methods[idx] = *fn
				continue
			}
			seen[fn.Name] = len(cls.Methods)
			cls.Methods = append(cls.Methods, *fn)
		}
	}
	if cls.Init == nil {
		// Inherited constructor; its parameters are not visible statically.
		cls.Init = &model.Function{Name: "__init__"}
	}
	return cls
}

// isPlainFunction reports whether a decorated method is still a plain
// function when looked up on its class. Class methods and properties are
// not, and overload stubs are replaced by the implementation.
func isPlainFunction(decorators []string) bool {
	for _, d := range decorators {
		switch {
		case d == "classmethod", d == "property", strings.HasSuffix(d, "cached_property"):
			return false
		case d == "overload", strings.HasSuffix(d, ".overload"):
			return false
		case strings.HasSuffix(d, ".setter"), strings.HasSuffix(d, ".getter"), strings.HasSuffix(d, ".deleter"):
			return false
		}
	}
	return true
}

func extractFunction(node *sitter.Node, decorators []string, source []byte) *model.Function {
	fn := &model.Function{
		Name: lang.Identifier(node, source),
		Doc:  lang.Docstring(node.ChildByFieldName("body"), source),
	}
	for _, d := range decorators {
		if d == "staticmethod" {
			fn.Static = true
		}
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = extractParams(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = typeexpr.FromNode(ret, source)
	}
	return fn
}

func extractParams(node *sitter.Node, source []byte) []model.Param {
	var params []model.Param
	keywordOnly := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "keyword_separator", "*":
			keywordOnly = true
			continue
		case "positional_separator", "/":
			for j := range params {
				params[j].Kind = model.PositionalOnly
			}
			continue
		}
		if !child.IsNamed() {
			continue
		}

		p, ok := extractParam(child, source)
		if !ok {
			continue
		}
		switch {
		case p.Kind == model.VarPositional:
			keywordOnly = true
		case p.Kind == model.Positional && keywordOnly:
			p.Kind = model.KeywordOnly
		}
		params = append(params, p)
	}
	return params
}

func extractParam(node *sitter.Node, source []byte) (model.Param, bool) {
	p := model.Param{Kind: model.Positional}

	switch node.Type() {
	case "identifier":
		p.Name = lang.NodeText(node, source)
	case "list_splat_pattern", "dictionary_splat_pattern":
		p.Name, p.Kind = splat(node, source)
	case "typed_parameter":
		for j := 0; j < int(node.NamedChildCount()); j++ {
			c := node.NamedChild(j)
			switch c.Type() {
			case "identifier":
				p.Name = lang.NodeText(c, source)
			case "list_splat_pattern", "dictionary_splat_pattern":
				p.Name, p.Kind = splat(c, source)
			}
			if p.Name != "" {
				break
			}
		}
		if t := node.ChildByFieldName("type"); t != nil {
			p.Annotation = typeexpr.FromNode(t, source)
		}
	case "default_parameter", "typed_default_parameter":
		if n := node.ChildByFieldName("name"); n != nil {
			p.Name = lang.NodeText(n, source)
		}
		if t := node.ChildByFieldName("type"); t != nil {
			p.Annotation = typeexpr.FromNode(t, source)
		}
		if v := node.ChildByFieldName("value"); v != nil {
			p.HasDefault = true
			p.DefaultType = lang.LiteralType(v, source)
		}
	default:
		return p, false
	}
	return p, p.Name != ""
}

func splat(node *sitter.Node, source []byte) (string, model.ParamKind) {
	kind := model.VarPositional
	if node.Type() == "dictionary_splat_pattern" {
		kind = model.VarKeyword
	}
	return strings.TrimLeft(lang.NodeText(node, source), "*"), kind
}
