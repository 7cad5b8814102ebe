package pyast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Kind distinguishes module-level functions from class methods.
type Kind string

const (
	// KindFunction is a module-level function definition
	KindFunction Kind = "function"
	// KindMethod is a function defined inside a class body
	KindMethod Kind = "method"
)

// Declaration is a named function or method definition with its source span.
// Lines are 0-based; EndLine is the last line of the body, inclusive.
type Declaration struct {
	Name       string
	Kind       Kind
	Decorators []string // normalized "@..." strings; unrepresentable shapes omitted

	// StartLine is the line of the def keyword. DecoratorStartLine is the
	// first line of the leading decorator block, equal to StartLine when
	// the declaration has no decorators.
	StartLine          int
	DecoratorStartLine int
	EndLine            int

	// NameLine/NameColumn locate the identifier token of the definition,
	// for rename edits. NameLine is 1-based, NameColumn 0-based.
	NameLine   int
	NameColumn int

	node *sitter.Node
}

// Node returns the underlying function_definition node.
func (d *Declaration) Node() *sitter.Node { return d.node }

// Class is a class definition together with its scope node.
type Class struct {
	Name string

	node *sitter.Node
}

// ModuleFunctions returns the module-level function declarations in
// source order.
func ModuleFunctions(m *Module) []*Declaration {
	return declarationsInScope(m, m.Root, KindFunction)
}

// Classes returns the module-level class definitions in source order.
func Classes(m *Module) []*Class {
	var classes []*Class
	for i := 0; i < int(m.Root.NamedChildCount()); i++ {
		child := m.Root.NamedChild(i)
		node := child
		if child.Type() == "decorated_definition" {
			node = child.ChildByFieldName("definition")
		}
		if node == nil || node.Type() != "class_definition" {
			continue
		}
		name := node.ChildByFieldName("name")
		if name == nil {
			continue
		}
		classes = append(classes, &Class{Name: m.Text(name), node: node})
	}
	return classes
}

// Methods returns the method declarations of a class in source order.
func Methods(m *Module, class *Class) []*Declaration {
	body := class.node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	return declarationsInScope(m, body, KindMethod)
}

func declarationsInScope(m *Module, scope *sitter.Node, kind Kind) []*Declaration {
	var decls []*Declaration

	for i := 0; i < int(scope.NamedChildCount()); i++ {
		child := scope.NamedChild(i)

		fn := child
		decoratorStart := -1
		var decorators []string

		if child.Type() == "decorated_definition" {
			fn = child.ChildByFieldName("definition")
			decoratorStart = int(child.StartPoint().Row)
			decorators = decoratorStrings(m, child)
		}
		if fn == nil || fn.Type() != "function_definition" {
			continue
		}

		name := fn.ChildByFieldName("name")
		if name == nil {
			continue
		}

		startLine := int(fn.StartPoint().Row)
		if decoratorStart < 0 {
			decoratorStart = startLine
		}

		decls = append(decls, &Declaration{
			Name:               m.Text(name),
			Kind:               kind,
			Decorators:         decorators,
			StartLine:          startLine,
			DecoratorStartLine: decoratorStart,
			EndLine:            int(fn.EndPoint().Row),
			NameLine:           int(name.StartPoint().Row) + 1,
			NameColumn:         int(name.StartPoint().Column),
			node:               fn,
		})
	}

	return decls
}

// decoratorStrings normalizes the decorators of a decorated_definition to
// "@name", "@obj.attr" or "@obj.attr()" forms. Decorator expressions
// outside that closed set normalize to nothing and never match patterns.
func decoratorStrings(m *Module, decorated *sitter.Node) []string {
	var out []string
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		expr := child.NamedChild(0)
		if expr == nil {
			continue
		}
		if s := decoratorToString(m, expr); s != "" {
			out = append(out, "@"+s)
		}
	}
	return out
}

func decoratorToString(m *Module, node *sitter.Node) string {
	switch node.Type() {
	case "identifier":
		return m.Text(node)
	case "attribute":
		obj := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return ""
		}
		base := decoratorToString(m, obj)
		if base == "" {
			return ""
		}
		return base + "." + m.Text(attr)
	case "call":
		fn := node.ChildByFieldName("function")
		if fn == nil {
			return ""
		}
		base := decoratorToString(m, fn)
		if base == "" {
			return ""
		}
		return base + "()"
	}
	return ""
}

// HasDeclaration reports whether any function or method in the module is
// defined with the given name.
func HasDeclaration(m *Module, name string) bool {
	found := false
	walk(m.Root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() == "function_definition" {
			if id := n.ChildByFieldName("name"); id != nil && m.Text(id) == name {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
