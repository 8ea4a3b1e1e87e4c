package probe

import (
	"fmt"

	"github.com/phobologic/docsgen/internal/typeexpr"
)

// Filler picks the Python literal passed for a parameter of type t.
type Filler interface {
	Fill(t typeexpr.Type) string
}

// ConstantFiller passes 1 for every parameter regardless of its type.
type ConstantFiller struct{}

// Fill implements Filler.
func (ConstantFiller) Fill(typeexpr.Type) string { return "1" }

// TypedFiller passes a literal matching the declared type when one is
// obvious, and 1 otherwise.
type TypedFiller struct{}

var typedLiterals = map[string]string{
	"int":       "1",
	"float":     "1.0",
	"complex":   "1j",
	"str":       "'1'",
	"bool":      "True",
	"bytes":     "b'1'",
	"bytearray": "b'1'",
	"None":      "None",
	"list":      "[]",
	"Sequence":  "[]",
	"Iterable":  "[]",
	"dict":      "{}",
	"Mapping":   "{}",
	"tuple":     "()",
	"set":       "set()",
	"frozenset": "frozenset()",
}

// Fill implements Filler.
func (f TypedFiller) Fill(t typeexpr.Type) string {
	switch t.Kind {
	case typeexpr.Scalar:
		if lit, ok := typedLiterals[t.Name]; ok {
			return lit
		}
	case typeexpr.Container:
		switch t.Name {
		case "Optional", "Union", "Annotated":
			if len(t.Args) > 0 {
				return f.Fill(t.Args[0])
			}
		case "Literal":
			if len(t.Args) > 0 && t.Args[0].Kind == typeexpr.Scalar {
				return t.Args[0].Name
			}
		}
		if lit, ok := typedLiterals[t.Name]; ok {
			return lit
		}
	}
	return "1"
}

// Fillers maps configuration names to fillers.
var Fillers = map[string]Filler{
	"constant": ConstantFiller{},
	"typed":    TypedFiller{},
}

// FillerByName returns the named filler.
func FillerByName(name string) (Filler, error) {
	f, ok := Fillers[name]
	if !ok {
		return nil, fmt.Errorf("unknown filler %q", name)
	}
	return f, nil
}
