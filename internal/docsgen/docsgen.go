// Package docsgen generates the Markdown reference of a Python library.
package docsgen

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/phobologic/docsgen/internal/classify"
	"github.com/phobologic/docsgen/internal/docstring"
	"github.com/phobologic/docsgen/internal/lang"
	"github.com/phobologic/docsgen/internal/loader"
	"github.com/phobologic/docsgen/internal/model"
	"github.com/phobologic/docsgen/internal/probe"
	"github.com/phobologic/docsgen/internal/report"
	"github.com/phobologic/docsgen/internal/signature"
	"github.com/phobologic/docsgen/internal/typeexpr"
)

// OutputPath returns the document path for lib inside dir.
func OutputPath(dir, lib string) string {
	return filepath.Join(dir, lib+"_documentation.md")
}

// Stats summarizes one run.
type Stats struct {
	Modules       int
	FailedModules int
	Classes       int
	Methods       int
	Samples       int
}

// Generator wires the pipeline stages together. Sampler may be nil, in
// which case every return block uses the declared type.
type Generator struct {
	Loader     *loader.Loader
	Classifier *classify.Classifier
	Sampler    *probe.Sampler
	Warn       func(format string, args ...any)
}

// Generate documents every class found under root into outPath. Modules and
// members that cannot be loaded, sampled or described degrade to fallback
// text; only failures to write the document abort the run.
func (g *Generator) Generate(ctx context.Context, lib, root, outPath string) (Stats, error) {
	var stats Stats

	results, err := g.Loader.Load(ctx, root)
	if err != nil {
		return stats, err
	}
	mods := loader.Loaded(results)
	stats.Modules = len(mods)
	stats.FailedModules = loader.Failed(results)

	w := report.NewWriter(outPath)
	if err := w.Begin(lib); err != nil {
		return stats, err
	}

	classifier := g.Classifier
	if classifier == nil {
		classifier = classify.New(classify.DefaultIgnore...)
	}

	for _, mod := range mods {
		for _, cls := range classifier.Classes(mod) {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			n, err := g.writeClass(ctx, w, mod, cls, &stats)
			if err != nil {
				return stats, fmt.Errorf("documenting %s.%s: %w", mod.Name, cls.Name, err)
			}
			stats.Classes++
			stats.Methods += n
		}
	}
	if stats.Classes == 0 && g.Warn != nil {
		g.Warn("no classes found under %s", root)
	}
	return stats, nil
}

// writeClass appends the section of one class and returns the number of
// methods documented.
func (g *Generator) writeClass(ctx context.Context, w *report.Writer, mod *model.Module, cls *model.Class, stats *Stats) (int, error) {
	if err := w.Append(report.ClassSection(cls.Name, docstring.Parse(cls.Doc).Short)); err != nil {
		return 0, err
	}

	var initArgs []string
	if cls.Init != nil {
		initArgs = signature.Names(cls.Init)
		args := signature.Render(signature.Extract(cls.Init, docstring.Parse(cls.Init.Doc)))
		example := report.Example(cls.Name, "__init__", initArgs, nil)
		if err := w.Append(report.ConstructorSection(cls.Name, args, example)); err != nil {
			return 0, err
		}
	}

	n := 0
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		if lang.IsPrivate(fn.Name) {
			continue
		}
		doc := docstring.Parse(fn.Doc)

		returns := typeexpr.Describe(fn.Returns)
		sample, ok := g.Sampler.Sample(ctx, mod, cls, fn)
		if ok {
			stats.Samples++
		}

		section := report.MethodSection(report.Method{
			Class:       cls.Name,
			Name:        fn.Name,
			Description: doc.Short,
			Args:        signature.Render(signature.Extract(fn, doc)),
			Returns:     report.RenderValue(sample, returns),
			ReturnsDesc: doc.ReturnsDescription(),
			Example:     report.Example(cls.Name, fn.Name, initArgs, signature.Names(fn)),
		})
		if err := w.Append(section); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
