// Package classify selects the class bindings of a loaded module.
package classify

import "github.com/phobologic/docsgen/internal/model"

// DefaultIgnore is the set of class names skipped unless configured
// otherwise: the generic placeholder re-exported by most typed modules.
var DefaultIgnore = []string{"Any"}

// Classifier picks class definitions out of a module namespace.
type Classifier struct {
	ignore map[string]struct{}
}

// New returns a Classifier that skips the given class names.
func New(ignore ...string) *Classifier {
	set := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		set[name] = struct{}{}
	}
	return &Classifier{ignore: set}
}

// Ignored reports whether name is on the ignore list.
func (c *Classifier) Ignored(name string) bool {
	_, ok := c.ignore[name]
	return ok
}

// Classes returns the class bindings of mod in namespace order, excluding
// ignored names. Nested classes are not visited.
func (c *Classifier) Classes(mod *model.Module) []*model.Class {
	if mod == nil {
		return nil
	}
	var out []*model.Class
	for i := range mod.Bindings {
		b := &mod.Bindings[i]
		if b.Kind != model.ClassBinding || b.Class == nil || c.Ignored(b.Name) {
			continue
		}
		out = append(out, b.Class)
	}
	return out
}
