package parse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/phobologic/docsgen/internal/lang"
	"github.com/phobologic/docsgen/internal/model"
	"github.com/phobologic/docsgen/internal/typeexpr"
)

func extract(t *testing.T, source string) []model.Binding {
	t.Helper()
	bindings, err := ExtractBindings(context.Background(), lang.Python.NewParser(), []byte(source))
	if err != nil {
		t.Fatalf("ExtractBindings: %v", err)
	}
	return bindings
}

func onlyClass(t *testing.T, source string) *model.Class {
	t.Helper()
	bindings := extract(t, source)
	var classes []*model.Class
	for _, b := range bindings {
		if b.Kind == model.ClassBinding {
			classes = append(classes, b.Class)
		}
	}
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d: %+v", len(classes), bindings)
	}
	return classes[0]
}

// typeText renders an extracted annotation, or "" when there is none.
func typeText(t *testing.T, e *model.TypeExpr) string {
	t.Helper()
	if e == nil {
		return ""
	}
	s, err := typeexpr.Resolved(e)
	if err != nil {
		t.Fatalf("resolving %+v: %v", e, err)
	}
	return s
}

func TestExtractClass(t *testing.T) {
	t.Parallel()

	cls := onlyClass(t, `class Widget:
    """A resizable widget."""

    def __init__(self, size: int):
        self.size = size

    def grow(self, amount: int) -> int:
        """Grow by amount."""
        return self.size + amount

    def _hidden(self):
        pass
`)
	if cls.Name != "Widget" {
		t.Errorf("name = %q, want Widget", cls.Name)
	}
	if cls.Doc != "A resizable widget." {
		t.Errorf("doc = %q", cls.Doc)
	}
	if cls.Init == nil || len(cls.Init.Params) != 2 {
		t.Fatalf("init = %+v, want 2 params", cls.Init)
	}
	if got := cls.Init.Params[1]; got.Name != "size" || typeText(t, got.Annotation) != "int" {
		t.Errorf("init param = %+v", got)
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(cls.Methods))
	}
	grow := cls.Methods[0]
	if grow.Name != "grow" {
		t.Errorf("first method = %q, want grow", grow.Name)
	}
	if grow.Doc != "Grow by amount." {
		t.Errorf("doc = %q", grow.Doc)
	}
	if typeText(t, grow.Returns) != "int" {
		t.Errorf("returns = %+v", grow.Returns)
	}
	if !grow.HasReceiver() {
		t.Error("grow should have a receiver")
	}
	if cls.Methods[1].Name != "_hidden" {
		t.Errorf("second method = %q, want _hidden", cls.Methods[1].Name)
	}
}

func TestExtractInheritedConstructor(t *testing.T) {
	t.Parallel()

	cls := onlyClass(t, "class Empty:\n    pass\n")
	if cls.Init == nil {
		t.Fatal("expected a constructor")
	}
	if len(cls.Init.Params) != 0 {
		t.Errorf("params = %+v, want none", cls.Init.Params)
	}
}

func TestExtractDecorators(t *testing.T) {
	t.Parallel()

	cls := onlyClass(t, `@dataclass
class Config:
    @staticmethod
    def parse(text: str) -> "Config":
        pass

    @classmethod
    def default(cls):
        pass

    @property
    def name(self):
        pass

    @name.setter
    def name(self, value):
        pass

    @functools.lru_cache(maxsize=2)
    def cached(self):
        pass
`)
	if cls.Name != "Config" {
		t.Errorf("name = %q, want Config", cls.Name)
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected parse and cached, got %+v", cls.Methods)
	}
	parse := cls.Methods[0]
	if parse.Name != "parse" || !parse.Static {
		t.Errorf("parse = %+v, want static", parse)
	}
	if parse.HasReceiver() {
		t.Error("static method should not have a receiver")
	}
	if typeText(t, parse.Returns) != "Config" {
		t.Errorf("returns = %+v", parse.Returns)
	}
	if cls.Methods[1].Name != "cached" || cls.Methods[1].Static {
		t.Errorf("cached = %+v", cls.Methods[1])
	}
}

func TestExtractParameterKinds(t *testing.T) {
	t.Parallel()

	cls := onlyClass(t, `class K:
    def f(self, a, /, b: int = 2, *args: str, c=1.5, d: "x.Y" = None, **kwargs):
        pass

    def g(self, *, key="k"):
        pass
`)
	f := cls.Methods[0]
	want := []struct {
		name        string
		kind        model.ParamKind
		annotation  string
		defaultType string
	}{
		{"self", model.PositionalOnly, "", ""},
		{"a", model.PositionalOnly, "", ""},
		{"b", model.Positional, "int", "int"},
		{"args", model.VarPositional, "str", ""},
		{"c", model.KeywordOnly, "", "float"},
		{"d", model.KeywordOnly, "x.Y", "NoneType"},
		{"kwargs", model.VarKeyword, "", ""},
	}
	if len(f.Params) != len(want) {
		t.Fatalf("got %d params, want %d: %+v", len(f.Params), len(want), f.Params)
	}
	for i, w := range want {
		p := f.Params[i]
		if p.Name != w.name || p.Kind != w.kind {
			t.Errorf("param %d = %s/%s, want %s/%s", i, p.Name, p.Kind, w.name, w.kind)
		}
		if ann := typeText(t, p.Annotation); ann != w.annotation {
			t.Errorf("param %s annotation = %q, want %q", p.Name, ann, w.annotation)
		}
		if p.DefaultType != w.defaultType {
			t.Errorf("param %s default type = %q, want %q", p.Name, p.DefaultType, w.defaultType)
		}
	}
	if !f.HasReceiver() {
		t.Error("positional-only self is still a receiver")
	}

	g := cls.Methods[1]
	if len(g.Params) != 2 || g.Params[1].Name != "key" || g.Params[1].Kind != model.KeywordOnly {
		t.Errorf("g params = %+v", g.Params)
	}
	if g.Params[1].DefaultType != "str" {
		t.Errorf("key default type = %q, want str", g.Params[1].DefaultType)
	}
}

func TestExtractAnnotationsVerbatim(t *testing.T) {
	t.Parallel()

	cls := onlyClass(t, `class M:
    def m(self, n: Annotated[int, Field(gt=0)], s: Literal[b'x'], o: "Optional[Widget]" = None) -> Annotated[int, Field(gt=0)]:
        pass

    def u(self, v: int | str | None, cb: Callable[..., typing.List[int]]) -> dict[str, list[int]]:
        pass
`)
	m, u := cls.Methods[0], cls.Methods[1]
	tests := []struct {
		got  *model.TypeExpr
		want string
	}{
		{m.Params[1].Annotation, "Annotated[int, Field(gt=0)]"},
		{m.Params[2].Annotation, "Literal[b'x']"},
		{m.Params[3].Annotation, "Optional[Widget]"},
		{m.Returns, "Annotated[int, Field(gt=0)]"},
		{u.Params[1].Annotation, "Optional[Union[int, str]]"},
		{u.Params[2].Annotation, "Callable[..., list[int]]"},
		{u.Returns, "dict[str, list[int]]"},
	}
	for _, tt := range tests {
		if got := typeText(t, tt.got); got != tt.want {
			t.Errorf("annotation = %q, want %q", got, tt.want)
		}
	}
}

func TestExtractRedefinedMethods(t *testing.T) {
	t.Parallel()

	cls := onlyClass(t, `class C:
    def m(self, n):
        pass

    def other(self):
        pass

    @typing.overload
    def conv(self, x: int) -> int: ...

    @overload
    def conv(self, x: str) -> str: ...

    def conv(self, x):
        return x

    def m(self, q: int):
        pass
`)
	var names []string
	for _, fn := range cls.Methods {
		names = append(names, fn.Name)
	}
	want := []string{"m", "other", "conv"}
	if len(names) != len(want) {
		t.Fatalf("methods = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("method %d = %s, want %s", i, names[i], want[i])
		}
	}
	if m := cls.Methods[0]; len(m.Params) != 2 || m.Params[1].Name != "q" {
		t.Errorf("m = %+v, want the last definition", m.Params)
	}
	if conv := cls.Methods[2]; conv.Returns != nil {
		t.Errorf("conv returns = %+v, want the unannotated implementation", conv.Returns)
	}
}

func TestExtractDefaultLiteralTypes(t *testing.T) {
	t.Parallel()

	cls := onlyClass(t, `class D:
    def f(self, a=b'', b=B"x", c=rb'\d', d='', e=-1, f=(), g=b'a' b'b', h=compute()):
        pass
`)
	want := map[string]string{
		"a": "bytes", "b": "bytes", "c": "bytes", "d": "str",
		"e": "int", "f": "tuple", "g": "bytes", "h": "",
	}
	for _, p := range cls.Methods[0].Params[1:] {
		if p.DefaultType != want[p.Name] {
			t.Errorf("param %s default type = %q, want %q", p.Name, p.DefaultType, want[p.Name])
		}
	}
}

func TestExtractModuleLevel(t *testing.T) {
	t.Parallel()

	bindings := extract(t, `import os

VERSION = "1"

def helper():
    pass

class A:
    pass

class B(A):
    pass
`)
	var names []string
	for _, b := range bindings {
		names = append(names, b.Name+":"+string(b.Kind))
	}
	want := []string{"helper:function", "A:class", "B:class"}
	if len(names) != len(want) {
		t.Fatalf("bindings = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("binding %d = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestExtractEmpty(t *testing.T) {
	t.Parallel()

	if bindings := extract(t, ""); len(bindings) != 0 {
		t.Errorf("expected no bindings for empty source, got %d", len(bindings))
	}
}

func TestExtractSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := ExtractBindings(context.Background(), lang.Python.NewParser(), []byte("class Broken(:\n    pass\n"))
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("err = %v, want ErrSyntax", err)
	}
}

func TestStaticLoad(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pkg"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "pkg", "mod.py"), []byte("class Thing:\n    def run(self):\n        pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	bindings, err := Static{}.Load(context.Background(), root, filepath.Join("pkg", "mod.py"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bindings) != 1 || bindings[0].Class == nil || bindings[0].Class.Name != "Thing" {
		t.Fatalf("bindings = %+v", bindings)
	}

	if _, err := (Static{}).Load(context.Background(), root, "missing.py"); err == nil {
		t.Error("expected error for missing file")
	}
}
