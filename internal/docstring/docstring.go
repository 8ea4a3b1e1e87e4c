// Package docstring parses Python documentation comments into a short
// description, per-parameter descriptions and a return description.
//
// ReST (":param x:"), Epydoc ("@param x:"), Google ("Args:") and NumPy
// ("Parameters" underlined with dashes) layouts are recognized. Anything
// else is treated as free text.
package docstring

import (
	"regexp"
	"strings"
)

// Param documents one parameter.
type Param struct {
	Name        string
	Description string
}

// Returns documents the return value.
type Returns struct {
	Description string
}

// Docstring is the structured form of a documentation comment.
type Docstring struct {
	Short   string
	Params  []Param
	Returns *Returns
}

// ParamDescription returns the description of the named parameter, or "".
// Variadic markers are ignored on both sides, so "*args" matches "args".
func (d Docstring) ParamDescription(name string) string {
	name = strings.TrimLeft(name, "*")
	for _, p := range d.Params {
		if strings.TrimLeft(p.Name, "*") == name {
			return p.Description
		}
	}
	return ""
}

// ReturnsDescription returns the return description, or "".
func (d Docstring) ReturnsDescription() string {
	if d.Returns == nil {
		return ""
	}
	return d.Returns.Description
}

var (
	restMetaRe    = regexp.MustCompile(`^:(param|parameter|arg|argument|key|keyword|type|returns?|rtype|raises?|except|exception|yields?)\b`)
	epyMetaRe     = regexp.MustCompile(`^@(param|type|return|returns|rtype|raise|raises)\b`)
	googleHeadRe  = regexp.MustCompile(`^(Args|Arguments|Parameters|Params|Keyword Args|Keyword Arguments|Other Parameters|Returns|Return|Yields|Yield|Raises|Exceptions|Examples?|Notes?|Attributes|See Also|Warns?|Warnings?|Todo)\s*:\s*$`)
	numpyUnderRe  = regexp.MustCompile(`^-{3,}\s*$`)
	metaFieldRe   = regexp.MustCompile(`^[:@](\w+)((?:\s+[^:]+?)?)\s*:\s?(.*)$`)
	googleParamRe = regexp.MustCompile(`^(\*{0,2}\w+)\s*(?:\(([^)]*)\))?\s*:\s*(.*)$`)
	typedPrefixRe = regexp.MustCompile(`^([\w.]+(?:\[.*\])?)\s*:\s+(.*)$`)
)

// Parse converts a raw documentation comment into a Docstring. Parse never
// fails: unrecognized layouts yield only the descriptions.
func Parse(raw string) Docstring {
	text := Clean(raw)
	if text == "" {
		return Docstring{}
	}
	lines := strings.Split(text, "\n")

	metaStart := len(lines)
	style := styleFree
	for i := range lines {
		if s := detect(lines, i); s != styleFree {
			metaStart, style = i, s
			break
		}
	}

	var d Docstring
	d.Short = describe(lines[:metaStart])

	switch style {
	case styleField:
		parseFields(&d, lines[metaStart:])
	case styleGoogle:
		parseGoogle(&d, lines[metaStart:])
	case styleNumpy:
		parseNumpy(&d, lines[metaStart:])
	}
	return d
}

type style int

const (
	styleFree style = iota
	styleField
	styleGoogle
	styleNumpy
)

func detect(lines []string, i int) style {
	line := lines[i]
	switch {
	case restMetaRe.MatchString(line), epyMetaRe.MatchString(line):
		return styleField
	case googleHeadRe.MatchString(line):
		return styleGoogle
	case i+1 < len(lines) && strings.TrimSpace(line) != "" && numpyUnderRe.MatchString(lines[i+1]):
		return styleNumpy
	}
	return styleFree
}

// describe returns the first line of the free-text head.
func describe(lines []string) string {
	head := strings.TrimSpace(strings.Join(lines, "\n"))
	short, _, _ := strings.Cut(head, "\n")
	return strings.TrimSpace(short)
}

// parseFields handles ReST and Epydoc field lists. A typed field such as
// ":param int limit:" names the parameter by its last word.
func parseFields(d *Docstring, lines []string) {
	for _, entry := range joinContinuations(lines) {
		m := metaFieldRe.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		key := m[1]
		args := strings.Fields(m[2])
		body := strings.TrimSpace(m[3])

		switch key {
		case "param", "parameter", "arg", "argument", "key", "keyword":
			if len(args) == 0 {
				continue
			}
			d.Params = append(d.Params, Param{Name: args[len(args)-1], Description: body})
		case "return", "returns":
			d.Returns = &Returns{Description: body}
		}
	}
}

// joinContinuations folds indented continuation lines into the field line
// they belong to.
func joinContinuations(lines []string) []string {
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(out) > 0 {
			out[len(out)-1] += " " + trimmed
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// parseGoogle handles "Args:" / "Returns:" sections.
func parseGoogle(d *Docstring, lines []string) {
	for _, sec := range sections(lines, func(i int) (string, bool) {
		m := googleHeadRe.FindStringSubmatch(lines[i])
		if m == nil {
			return "", false
		}
		return m[1], true
	}, 1) {
		entries := joinContinuations(dedent(sec.body))
		switch sec.title {
		case "Args", "Arguments", "Parameters", "Params", "Keyword Args", "Keyword Arguments", "Other Parameters":
			for _, e := range entries {
				m := googleParamRe.FindStringSubmatch(e)
				if m == nil {
					continue
				}
				d.Params = append(d.Params, Param{Name: m[1], Description: m[3]})
			}
		case "Returns", "Return", "Yields", "Yield":
			if d.Returns != nil || len(entries) == 0 {
				continue
			}
			body := strings.Join(entries, " ")
			if m := typedPrefixRe.FindStringSubmatch(body); m != nil {
				body = m[2]
			}
			d.Returns = &Returns{Description: body}
		}
	}
}

// parseNumpy handles sections whose title is underlined with dashes.
func parseNumpy(d *Docstring, lines []string) {
	for _, sec := range sections(lines, func(i int) (string, bool) {
		if i+1 < len(lines) && strings.TrimSpace(lines[i]) != "" && numpyUnderRe.MatchString(lines[i+1]) {
			return strings.TrimSpace(lines[i]), true
		}
		return "", false
	}, 2) {
		items := numpyItems(sec.body)
		switch sec.title {
		case "Parameters", "Other Parameters", "Keyword Arguments":
			for _, it := range items {
				name, _, _ := strings.Cut(it.head, ":")
				d.Params = append(d.Params, Param{Name: strings.TrimSpace(name), Description: it.body})
			}
		case "Returns", "Yields":
			if d.Returns != nil || len(items) == 0 {
				continue
			}
			d.Returns = &Returns{Description: items[0].body}
		}
	}
}

type numpyItem struct {
	head string
	body string
}

func numpyItems(lines []string) []numpyItem {
	var items []numpyItem
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		if !indented || len(items) == 0 {
			items = append(items, numpyItem{head: trimmed})
			continue
		}
		last := &items[len(items)-1]
		if last.body == "" {
			last.body = trimmed
		} else {
			last.body += " " + trimmed
		}
	}
	return items
}

type section struct {
	title string
	body  []string
}

// sections splits lines at every header recognized by isHeader; width is the
// number of lines a header occupies.
func sections(lines []string, isHeader func(int) (string, bool), width int) []section {
	var out []section
	for i := 0; i < len(lines); i++ {
		if title, ok := isHeader(i); ok {
			out = append(out, section{title: title})
			i += width - 1
			continue
		}
		if len(out) > 0 {
			out[len(out)-1].body = append(out[len(out)-1].body, lines[i])
		}
	}
	return out
}

// dedent removes the common leading indentation of non-blank lines.
func dedent(lines []string) []string {
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := indentOf(line); minIndent == -1 || n < minIndent {
			minIndent = n
		}
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= minIndent && minIndent > 0 {
			out[i] = line[minIndent:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return out
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// Clean normalizes docstring indentation the way Python's inspect.cleandoc
// does: tabs are expanded, the first line is stripped, the common indentation
// of the remaining lines is removed, and blank edges are dropped.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\t", "        ")
	lines := strings.Split(raw, "\n")
	lines[0] = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		rest := dedent(lines[1:])
		for i := range rest {
			rest[i] = strings.TrimRight(rest[i], " ")
		}
		copy(lines[1:], rest)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
