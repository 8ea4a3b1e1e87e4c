// Package typeexpr normalizes type annotations into display strings.
//
// Loaders report annotations as raw model.TypeExpr trees. Resolve turns a
// tree into a Type, a small tagged variant that knows nothing about where
// the annotation came from, and Type.String renders it:
//
//	typing.List[typing.Dict[str, int]]  ->  list[dict[str, int]]
//	Optional[int], int | None           ->  Optional[int]
package typeexpr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phobologic/docsgen/internal/model"
)

const (
	// NoReturnType is shown when a callable declares no return type.
	NoReturnType = "No return type specified"

	maxDepth = 64
)

// Kind tags the variant of a Type.
type Kind int

const (
	Unknown Kind = iota
	Scalar
	Container
)

// Type is a resolved type: a scalar name, a container with resolved type
// arguments, or unknown.
type Type struct {
	Kind Kind
	Name string
	Args []Type
}

// String renders the type as Name or Name[arg, arg, ...].
func (t Type) String() string {
	switch t.Kind {
	case Scalar:
		return t.Name
	case Container:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return t.Name + "[" + strings.Join(args, ", ") + "]"
	default:
		return ""
	}
}

// ErrTooDeep is returned for annotations nested beyond any sensible depth.
var ErrTooDeep = errors.New("type nesting too deep")

// Resolve normalizes a raw annotation. A nil expression resolves to Unknown.
func Resolve(e *model.TypeExpr) (Type, error) {
	return resolve(e, 0)
}

func resolve(e *model.TypeExpr, depth int) (Type, error) {
	if e == nil {
		return Type{Kind: Unknown}, nil
	}
	if depth > maxDepth {
		return Type{}, ErrTooDeep
	}

	switch e.Kind {
	case model.ExprName:
		if e.Name == "" {
			return Type{}, errors.New("unnamed type")
		}
		return Type{Kind: Scalar, Name: normalizeName(e.Name)}, nil

	case model.ExprGeneric:
		args := make([]Type, 0, len(e.Args))
		for i := range e.Args {
			a, err := resolve(&e.Args[i], depth+1)
			if err != nil {
				return Type{}, err
			}
			args = append(args, a)
		}
		name := normalizeName(e.Name)
		if name == "Union" {
			return union(args), nil
		}
		return Type{Kind: Container, Name: name, Args: args}, nil

	case model.ExprText:
		parsed, err := Parse(e.Text)
		if err != nil {
			return Type{}, err
		}
		return resolve(parsed, depth+1)

	case model.ExprError:
		if e.Text == "" {
			return Type{}, errors.New("unknown introspection error")
		}
		return Type{}, errors.New(e.Text)

	default:
		return Type{}, fmt.Errorf("unsupported type expression kind %q", e.Kind)
	}
}

// union folds a None member into Optional[...].
func union(args []Type) Type {
	var rest []Type
	optional := false
	for _, a := range args {
		if a.Kind == Scalar && a.Name == "None" {
			optional = true
			continue
		}
		rest = append(rest, a)
	}
	if !optional || len(rest) == 0 {
		return Type{Kind: Container, Name: "Union", Args: args}
	}
	inner := rest[0]
	if len(rest) > 1 {
		inner = Type{Kind: Container, Name: "Union", Args: rest}
	}
	return Type{Kind: Container, Name: "Optional", Args: []Type{inner}}
}

var qualifiers = []string{
	"typing_extensions.",
	"typing.",
	"collections.abc.",
	"collections.",
	"builtins.",
	"types.",
}

var aliases = map[string]string{
	"List":        "list",
	"Dict":        "dict",
	"Tuple":       "tuple",
	"Set":         "set",
	"FrozenSet":   "frozenset",
	"Type":        "type",
	"DefaultDict": "defaultdict",
	"Deque":       "deque",
	"NoneType":    "None",
	"UnionType":   "Union",
}

func normalizeName(name string) string {
	for _, q := range qualifiers {
		if strings.HasPrefix(name, q) {
			name = strings.TrimPrefix(name, q)
			break
		}
	}
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

// Resolved returns the display string of e, or an error when it cannot be
// resolved. Unknown types render as "".
func Resolved(e *model.TypeExpr) (string, error) {
	t, err := Resolve(e)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// Describe renders a return annotation, degrading to NoReturnType when it is
// absent and to a descriptive failure string when it cannot be resolved.
func Describe(e *model.TypeExpr) string {
	if e == nil {
		return NoReturnType
	}
	s, err := Resolved(e)
	if err != nil {
		return "Could not analyze return type: " + err.Error()
	}
	if s == "" {
		return NoReturnType
	}
	return s
}
