package pyast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ReferenceContext classifies how a symbol occurrence is used.
type ReferenceContext string

const (
	// ContextCall is a direct call: name(...)
	ContextCall ReferenceContext = "call"
	// ContextDecorator is a decorator application: @name
	ContextDecorator ReferenceContext = "decorator"
	// ContextAssignment is a bare name inside an assignment statement
	ContextAssignment ReferenceContext = "assignment"
	// ContextReference is any other bare name read
	ContextReference ReferenceContext = "reference"
)

// Reference is a located occurrence of a symbol within a module.
// Line is 1-based, Column 0-based, both pointing at the symbol token.
type Reference struct {
	Line    int
	Column  int
	Context ReferenceContext
}

// FindReferences locates all references to a symbol within the module:
// direct calls, decorator applications, and bare name reads. The
// declaration site itself is excluded, and identifiers consumed as a
// call target or decorator are never double-counted as bare reads.
func FindReferences(m *Module, name string) []Reference {
	var refs []Reference

	// Identifier nodes (by start byte) already recorded with a more
	// specific context
	consumed := map[uint32]bool{}

	walk(m.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "call":
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Type() == "identifier" && m.Text(fn) == name {
				refs = append(refs, Reference{
					Line:    int(fn.StartPoint().Row) + 1,
					Column:  int(fn.StartPoint().Column),
					Context: ContextCall,
				})
				consumed[fn.StartByte()] = true
			}

		case "decorator":
			expr := n.NamedChild(0)
			if expr != nil && expr.Type() == "identifier" && m.Text(expr) == name {
				refs = append(refs, Reference{
					Line:    int(expr.StartPoint().Row) + 1,
					Column:  int(expr.StartPoint().Column),
					Context: ContextDecorator,
				})
				consumed[expr.StartByte()] = true
			}

		case "identifier":
			if m.Text(n) != name || consumed[n.StartByte()] || !isBareRead(n) {
				return true
			}
			context := ContextReference
			if parent := n.Parent(); parent != nil && parent.Type() == "assignment" {
				context = ContextAssignment
			}
			refs = append(refs, Reference{
				Line:    int(n.StartPoint().Row) + 1,
				Column:  int(n.StartPoint().Column),
				Context: context,
			})
		}
		return true
	})

	return refs
}

// isBareRead filters out identifier occurrences that are not name reads:
// definition names, attribute members, keyword-argument names, and
// parameter names.
func isBareRead(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return true
	}

	switch parent.Type() {
	case "function_definition", "class_definition":
		if field := parent.ChildByFieldName("name"); field != nil && field.StartByte() == n.StartByte() {
			return false
		}
	case "attribute":
		if field := parent.ChildByFieldName("attribute"); field != nil && field.StartByte() == n.StartByte() {
			return false
		}
	case "keyword_argument":
		if field := parent.ChildByFieldName("name"); field != nil && field.StartByte() == n.StartByte() {
			return false
		}
	case "parameters", "default_parameter", "typed_parameter", "typed_default_parameter":
		return false
	}

	return true
}
