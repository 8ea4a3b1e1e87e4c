// Package signature describes the parameters of a constructor or method.
package signature

import (
	"strings"

	"github.com/phobologic/docsgen/internal/docstring"
	"github.com/phobologic/docsgen/internal/model"
	"github.com/phobologic/docsgen/internal/typeexpr"
)

const (
	// NoArguments is rendered for callables without parameters.
	NoArguments = "This function has no arguments."
	// UnknownType marks a parameter with neither annotation nor default.
	UnknownType = "unknown"
)

// Param is a parameter descriptor ready for rendering.
type Param struct {
	Name        string
	Type        string
	Description string
	// Resolved is the normalized annotation, or the default's type.
	Resolved typeexpr.Type
}

// Parameters returns the declared parameters of fn in declaration order,
// without the implicit receiver.
func Parameters(fn *model.Function) []model.Param {
	if fn == nil {
		return nil
	}
	params := fn.Params
	if fn.HasReceiver() {
		params = params[1:]
	}
	return params
}

// Extract builds descriptors for every parameter of fn except the receiver.
// Types come from the declared annotation, else from the default value,
// else UnknownType. Descriptions are matched by name against doc.
func Extract(fn *model.Function, doc docstring.Docstring) []Param {
	var out []Param
	for _, p := range Parameters(fn) {
		d := Param{
			Name:        DisplayName(p),
			Description: doc.ParamDescription(p.Name),
		}
		switch {
		case p.Annotation != nil:
			t, err := typeexpr.Resolve(p.Annotation)
			if err != nil {
				d.Type = "Could not analyze type: " + err.Error()
			} else {
				d.Resolved = t
				d.Type = t.String()
			}
		case p.HasDefault && p.DefaultType != "":
			d.Resolved = typeexpr.Type{Kind: typeexpr.Scalar, Name: p.DefaultType}
			d.Type = p.DefaultType
		}
		if d.Type == "" {
			d.Type = UnknownType
		}
		out = append(out, d)
	}
	return out
}

// Render formats descriptors one per line as "name: type description".
func Render(params []Param) string {
	if len(params) == 0 {
		return NoArguments
	}
	lines := make([]string, len(params))
	for i, p := range params {
		lines[i] = strings.TrimRight(p.Name+": "+p.Type+" "+p.Description, " ")
	}
	return strings.Join(lines, "\n")
}

// Names returns the display names of fn's parameters, receiver excluded.
func Names(fn *model.Function) []string {
	params := Parameters(fn)
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = DisplayName(p)
	}
	return names
}

// DisplayName prefixes variadic parameters with * or **.
func DisplayName(p model.Param) string {
	switch p.Kind {
	case model.VarPositional:
		return "*" + p.Name
	case model.VarKeyword:
		return "**" + p.Name
	default:
		return p.Name
	}
}
