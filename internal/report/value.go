package report

import (
	"strings"

	"github.com/phobologic/docsgen/internal/model"
)

// RenderValue renders the shape of a sampled value. Containers nest one
// element per line, four spaces deeper per level; scalars render as their
// type name. A nil sample renders fallback unchanged.
func RenderValue(s *model.Sample, fallback string) string {
	if s == nil {
		return fallback
	}
	return renderValue(s, 0)
}

func renderValue(s *model.Sample, indent int) string {
	if !s.Container {
		return s.Type
	}
	if len(s.Items) == 0 {
		return s.Type + "[]"
	}
	pad := strings.Repeat(" ", indent)
	items := make([]string, len(s.Items))
	for i := range s.Items {
		items[i] = pad + "    " + renderValue(&s.Items[i], indent+4)
	}
	return s.Type + "[\n" + strings.Join(items, ",\n") + "\n" + pad + "]"
}
