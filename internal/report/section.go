package report

import (
	"fmt"
	"strings"
)

// NoDescription is shown for methods without a short description.
const NoDescription = "No method description provided."

// Header returns the document header with an import example for lib.
func Header(lib string) string {
	return "# Documentation\n\n" +
		"## Example to load the library\n\n```python\nfrom " + lib + " import *\n```\n\n"
}

// ClassSection returns the heading of a class section. summary is the short
// description from the class docstring and may be empty.
func ClassSection(class, summary string) string {
	s := fmt.Sprintf("\n## `%s` (class)\n---\n", class)
	if summary = strings.TrimSpace(summary); summary != "" {
		s += summary + "\n"
	}
	return s
}

// ConstructorSection documents the constructor of class.
func ConstructorSection(class, args, example string) string {
	return fmt.Sprintf("\n### `%s.__init__` (method)\n", class) +
		fmt.Sprintf("**Description**: Constructor for %s\n\n", class) +
		fmt.Sprintf("**Arguments**:\n```txt\n%s\n```\n\n", args) +
		fmt.Sprintf("**Example for use**:\n```python\n%s\n```\n\n---\n", example)
}

// Method holds the rendered parts of a method subsection.
type Method struct {
	Class       string
	Name        string
	Description string
	Args        string
	Returns     string
	ReturnsDesc string
	Example     string
}

// MethodSection documents one method.
func MethodSection(m Method) string {
	desc := m.Description
	if desc == "" {
		desc = NoDescription
	}
	return fmt.Sprintf("\n### `%s.%s` (method)\n", m.Class, m.Name) +
		fmt.Sprintf("**Description**: %s\n\n", desc) +
		fmt.Sprintf("**Arguments**:\n```txt\n%s\n```\n\n", m.Args) +
		fmt.Sprintf("**Returns**:\n```txt\n%s\n```\n**Returns Description**:\n%s\n\n", m.Returns, m.ReturnsDesc) +
		fmt.Sprintf("**Example for use**:\n```python\n%s\n```\n\n---\n", m.Example)
}
