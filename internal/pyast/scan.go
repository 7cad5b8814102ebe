package pyast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// dynamicDispatchNames are built-ins that can reach a symbol through a
// string at runtime, making mechanical renames unsound.
var dynamicDispatchNames = map[string]struct{}{
	"getattr":    {},
	"hasattr":    {},
	"setattr":    {},
	"delattr":    {},
	"eval":       {},
	"exec":       {},
	"vars":       {},
	"__import__": {},
}

// dynamicDispatchAttrs are method names that reach attributes by string.
var dynamicDispatchAttrs = map[string]struct{}{
	"__getattribute__": {},
	"__getattr__":      {},
	"__setattr__":      {},
	"__delattr__":      {},
}

// HasDynamicDispatch reports whether the module contains reflective or
// dynamic-evaluation idioms that could reference symbols by string.
func HasDynamicDispatch(m *Module) bool {
	found := false
	walk(m.Root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return true
		}
		switch fn.Type() {
		case "identifier":
			if _, ok := dynamicDispatchNames[m.Text(fn)]; ok {
				found = true
			}
		case "attribute":
			if attr := fn.ChildByFieldName("attribute"); attr != nil {
				if _, ok := dynamicDispatchAttrs[m.Text(attr)]; ok {
					found = true
				}
			}
		}
		return !found
	})
	return found
}

// HasStringLiteralContaining reports whether any string literal in the
// module contains the given name, a possible reflective or templated
// reference.
func HasStringLiteralContaining(m *Module, name string) bool {
	if name == "" {
		return false
	}
	found := false
	walk(m.Root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() == "string" && strings.Contains(m.Text(n), name) {
			found = true
			return false
		}
		return true
	})
	return found
}
