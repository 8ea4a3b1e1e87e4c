// Package lang describes the source language docsgen documents and provides
// tree-sitter helpers for walking its syntax trees.
package lang

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	// PrivatePrefix marks file names that are never documented.
	PrivatePrefix string
	lang          *sitter.Language
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Parsers are not safe for concurrent use.
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// IsSource reports whether a file name carries one of the language's
// extensions.
func (l *Language) IsSource(name string) bool {
	for _, ext := range l.Extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}

// IsEligible reports whether a file name should be loaded: it must be a
// source file and must not start with the private marker.
func (l *Language) IsEligible(name string) bool {
	return l.IsSource(name) && !strings.HasPrefix(name, l.PrivatePrefix)
}

// TrimExtension removes the language extension from a file name.
func (l *Language) TrimExtension(name string) string {
	for _, ext := range l.Extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
