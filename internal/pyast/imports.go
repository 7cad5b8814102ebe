package pyast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ImportedSymbol is a symbol bound from another module, either through
// "from module import symbol" or through "alias.symbol" attribute access.
type ImportedSymbol struct {
	Module string
	Name   string
}

// Imports captures the import surface of a module.
type Imports struct {
	// Modules holds directly imported module names.
	Modules map[string]struct{}
	// Symbols holds "from module import symbol" bindings.
	Symbols []ImportedSymbol
	// AttributeAccesses holds alias.symbol expressions where the alias
	// resolves to an imported module.
	AttributeAccesses []ImportedSymbol
}

// ExtractImports collects module imports, from-imports, and attribute
// accesses through imported aliases.
func ExtractImports(m *Module) Imports {
	imports := Imports{Modules: map[string]struct{}{}}

	// Aliases in scope, mapped to the module they resolve to
	aliases := map[string]string{}

	walk(m.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			extractImport(m, n, &imports, aliases)
		case "import_from_statement":
			extractImportFrom(m, n, &imports, aliases)
		}
		return true
	})

	walk(m.Root, func(n *sitter.Node) bool {
		if n.Type() != "attribute" {
			return true
		}
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if obj == nil || attr == nil || obj.Type() != "identifier" {
			return true
		}
		if module, ok := aliases[m.Text(obj)]; ok {
			imports.AttributeAccesses = append(imports.AttributeAccesses, ImportedSymbol{
				Module: module,
				Name:   m.Text(attr),
			})
		}
		return true
	})

	return imports
}

// extractImport handles "import module [as alias]" statements.
func extractImport(m *Module, n *sitter.Node, imports *Imports, aliases map[string]string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			module := m.Text(child)
			imports.Modules[module] = struct{}{}
			aliases[module] = module
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil || alias == nil {
				continue
			}
			module := m.Text(name)
			imports.Modules[module] = struct{}{}
			aliases[m.Text(alias)] = module
		}
	}
}

// extractImportFrom handles "from module import symbol [as alias]"
// statements. Purely relative imports ("from . import x") carry no module
// name and are skipped.
func extractImportFrom(m *Module, n *sitter.Node, imports *Imports, aliases map[string]string) {
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}

	module := ""
	switch moduleNode.Type() {
	case "dotted_name":
		module = m.Text(moduleNode)
	case "relative_import":
		for i := 0; i < int(moduleNode.NamedChildCount()); i++ {
			if c := moduleNode.NamedChild(i); c.Type() == "dotted_name" {
				module = m.Text(c)
				break
			}
		}
	}
	if module == "" {
		return
	}
	imports.Modules[module] = struct{}{}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.StartByte() == moduleNode.StartByte() {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			symbol := m.Text(child)
			imports.Symbols = append(imports.Symbols, ImportedSymbol{Module: module, Name: symbol})
			aliases[symbol] = module
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil || alias == nil {
				continue
			}
			imports.Symbols = append(imports.Symbols, ImportedSymbol{Module: module, Name: m.Text(name)})
			aliases[m.Text(alias)] = module
		}
	}
}
