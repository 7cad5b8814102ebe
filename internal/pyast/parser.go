// Package pyast provides tree-sitter based analysis of Python source:
// declaration extraction, decorator normalization, import extraction, and
// symbol reference location.
package pyast

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax indicates the source could not be parsed into a usable tree.
var ErrSyntax = errors.New("syntax error")

// Parser wraps tree-sitter for Python parsing.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new Python parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Module holds a parsed Python source file.
type Module struct {
	Root   *sitter.Node
	Source []byte
}

// Parse parses Python source and returns the module tree. Sources that
// contain syntax errors are rejected so callers never rewrite or analyze
// files the parser only partially understood.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Module, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, ErrSyntax
	}

	return &Module{Root: root, Source: source}, nil
}

// Text returns the source text covered by a node.
func (m *Module) Text(n *sitter.Node) string {
	return n.Content(m.Source)
}

// walk visits n and, when visit returns true, its children in document order.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}
