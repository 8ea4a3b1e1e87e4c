// Package model defines core data structures for docsgen.
package model

// ExprKind tags the shape of a type expression as reported by a loader.
type ExprKind string

const (
	// ExprName is a plain named type such as int or Widget.
	ExprName ExprKind = "name"
	// ExprGeneric is a parametrized type: Name[Args...]. An empty Name is a
	// bare bracketed argument list, as in the parameters of Callable.
	ExprGeneric ExprKind = "generic"
	// ExprText is unparsed annotation source, e.g. a string forward reference.
	ExprText ExprKind = "text"
	// ExprError records that the loader could not introspect the type.
	ExprError ExprKind = "error"
)

// TypeExpr is a raw, unnormalized type annotation.
type TypeExpr struct {
	Kind ExprKind   `json:"kind"`
	Name string     `json:"name,omitempty"`
	Args []TypeExpr `json:"args,omitempty"`
	Text string     `json:"text,omitempty"`
}

// ParamKind mirrors the calling convention of a declared parameter.
type ParamKind string

const (
	PositionalOnly ParamKind = "positional_only"
	Positional     ParamKind = "positional_or_keyword"
	VarPositional  ParamKind = "var_positional"
	KeywordOnly    ParamKind = "keyword_only"
	VarKeyword     ParamKind = "var_keyword"
)

// Param is one declared parameter of a callable.
type Param struct {
	Name        string    `json:"name"`
	Kind        ParamKind `json:"kind"`
	Annotation  *TypeExpr `json:"annotation,omitempty"`
	HasDefault  bool      `json:"has_default,omitempty"`
	DefaultType string    `json:"default_type,omitempty"`
}

// Function is a constructor or method of a class.
type Function struct {
	Name string `json:"name"`
	Doc  string `json:"doc"`
	// Params lists every declared parameter, including the receiver.
	Params  []Param   `json:"params"`
	Returns *TypeExpr `json:"returns,omitempty"`
	// Static is set for functions that take no implicit receiver.
	Static bool `json:"static,omitempty"`
}

// HasReceiver reports whether the first declared parameter is the implicit
// receiver.
func (f *Function) HasReceiver() bool {
	if f.Static || len(f.Params) == 0 {
		return false
	}
	k := f.Params[0].Kind
	return k == Positional || k == PositionalOnly
}

// Class is a class definition discovered in a module namespace.
type Class struct {
	Name string `json:"name"`
	Doc  string `json:"doc"`
	// Init is nil when no constructor signature is observable.
	Init    *Function  `json:"init,omitempty"`
	Methods []Function `json:"methods"`
}

// BindingKind classifies a top-level namespace binding.
type BindingKind string

const (
	ClassBinding    BindingKind = "class"
	FunctionBinding BindingKind = "function"
	OtherBinding    BindingKind = "other"
)

// Binding is one top-level name in a module namespace.
type Binding struct {
	Name  string      `json:"name"`
	Kind  BindingKind `json:"kind"`
	Class *Class      `json:"class,omitempty"`
}

// Module is a loaded source file.
type Module struct {
	// Name is the dotted module path relative to the scan root.
	Name string
	// Root is the scan root the module was loaded from.
	Root string
	// Path is the file path relative to Root.
	Path string
	// Bindings are the top-level names in namespace order.
	Bindings []Binding
}

// Sample is the recursive shape of a value returned by a live probe.
type Sample struct {
	Type      string   `json:"type"`
	Container bool     `json:"container,omitempty"`
	Items     []Sample `json:"items,omitempty"`
}
