package depm

import (
	"nsbind/report"
	"sort"
)

// NameKind is the partition of the symbol table a name lives in.  Types and
// terms are kept apart because a type and a callable may share a name.
type NameKind int

// Enumeration of name kinds.
const (
	TermName NameKind = iota
	TypeName
)

func (k NameKind) String() string {
	if k == TypeName {
		return "type"
	}

	return "term"
}

// BindingSource records how a name came to be bound.
type BindingSource int

// Enumeration of binding sources.
const (
	SourceDeclared BindingSource = iota
	SourceImport
	SourceExport
	SourceExternal
)

func (s BindingSource) String() string {
	switch s {
	case SourceImport:
		return "import"
	case SourceExport:
		return "export"
	case SourceExternal:
		return "external"
	default:
		return "declared"
	}
}

// Binding is a single name bound in a namespace or scope.
type Binding struct {
	// The result the name denotes.
	Res Res

	// How the name was bound.
	Source BindingSource

	// The span of the declaration or statement that bound the name.
	Span report.TextSpan

	// Export is the export item the name is bound through, if any.
	Export *ItemID
}

// namespaceSymbols holds the names bound directly in a namespace.
type namespaceSymbols struct {
	terms map[string]*Binding
	types map[string]*Binding
}

func (ns *namespaceSymbols) partition(kind NameKind) map[string]*Binding {
	if kind == TypeName {
		return ns.types
	}

	return ns.terms
}

// SymbolTable is the global symbol table of a compilation: the namespace tree
// together with the names bound in each namespace and the items and export
// items they denote.  A table is created fresh for every compilation.
type SymbolTable struct {
	// Tree is the namespace tree of the compilation.
	Tree *NamespaceTree

	symbols map[NamespaceID]*namespaceSymbols

	items       map[ItemID]*Item
	exports     map[ItemID]*ExportItem
	itemOrder   []ItemID
	exportOrder []ItemID

	assigner ItemAssigner
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Tree:    NewNamespaceTree(),
		symbols: make(map[NamespaceID]*namespaceSymbols),
		items:   make(map[ItemID]*Item),
		exports: make(map[ItemID]*ExportItem),
	}
}

// NewItem allocates and records a new item of the package being compiled.
// The item is not bound to any name.
func (st *SymbolTable) NewItem(name string, ns NamespaceID, kind ItemKind, span report.TextSpan) *Item {
	item := &Item{
		ID:        st.assigner.Next(),
		Name:      name,
		Namespace: ns,
		Kind:      kind,
		Span:      span,
	}

	st.items[item.ID] = item
	st.itemOrder = append(st.itemOrder, item.ID)
	return item
}

// AddExternalItem records an item belonging to a dependency.
func (st *SymbolTable) AddExternalItem(item *Item) {
	if _, ok := st.items[item.ID]; !ok {
		st.items[item.ID] = item
	}
}

// NewExport allocates and records a new export item.
func (st *SymbolTable) NewExport(name string, ns NamespaceID, target Res, span report.TextSpan) *ExportItem {
	export := &ExportItem{
		ID:        st.assigner.Next(),
		Name:      name,
		Namespace: ns,
		Target:    target,
		Span:      span,
	}

	st.exports[export.ID] = export
	st.exportOrder = append(st.exportOrder, export.ID)
	return export
}

// Item returns the item with the given ID.
func (st *SymbolTable) Item(id ItemID) (*Item, bool) {
	item, ok := st.items[id]
	return item, ok
}

// Export returns the export item with the given ID.
func (st *SymbolTable) Export(id ItemID) (*ExportItem, bool) {
	export, ok := st.exports[id]
	return export, ok
}

// Items returns the items of the package being compiled in declaration order.
func (st *SymbolTable) Items() []*Item {
	items := make([]*Item, len(st.itemOrder))
	for i, id := range st.itemOrder {
		items[i] = st.items[id]
	}

	return items
}

// Exports returns the export items in creation order.
func (st *SymbolTable) Exports() []*ExportItem {
	exports := make([]*ExportItem, len(st.exportOrder))
	for i, id := range st.exportOrder {
		exports[i] = st.exports[id]
	}

	return exports
}

// Get looks up a name bound directly in a namespace.
func (st *SymbolTable) Get(ns NamespaceID, kind NameKind, name string) (*Binding, bool) {
	syms, ok := st.symbols[ns]
	if !ok {
		return nil, false
	}

	b, ok := syms.partition(kind)[name]
	return b, ok
}

// Bind binds a name in a namespace, replacing any previous binding.  The
// binder is responsible for applying the collision policy before calling it.
func (st *SymbolTable) Bind(ns NamespaceID, kind NameKind, name string, b *Binding) {
	syms, ok := st.symbols[ns]
	if !ok {
		syms = &namespaceSymbols{
			terms: make(map[string]*Binding),
			types: make(map[string]*Binding),
		}

		st.symbols[ns] = syms
	}

	syms.partition(kind)[name] = b
}

// Names returns the names bound in a namespace partition in sorted order.
func (st *SymbolTable) Names(ns NamespaceID, kind NameKind) []string {
	syms, ok := st.symbols[ns]
	if !ok {
		return nil
	}

	part := syms.partition(kind)
	names := make([]string, 0, len(part))
	for name := range part {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Clone returns a copy of the table that can be extended without affecting
// the original.  Items and bindings are copied so that nothing reachable from
// the clone aliases mutable state of the original.
func (st *SymbolTable) Clone() *SymbolTable {
	clone := &SymbolTable{
		Tree:        st.Tree.Clone(),
		symbols:     make(map[NamespaceID]*namespaceSymbols, len(st.symbols)),
		items:       make(map[ItemID]*Item, len(st.items)),
		exports:     make(map[ItemID]*ExportItem, len(st.exports)),
		itemOrder:   append([]ItemID(nil), st.itemOrder...),
		exportOrder: append([]ItemID(nil), st.exportOrder...),
		assigner:    st.assigner,
	}

	for ns, syms := range st.symbols {
		clone.symbols[ns] = &namespaceSymbols{
			terms: cloneBindings(syms.terms),
			types: cloneBindings(syms.types),
		}
	}

	for id, item := range st.items {
		itemCopy := *item
		clone.items[id] = &itemCopy
	}

	for id, export := range st.exports {
		exportCopy := *export
		clone.exports[id] = &exportCopy
	}

	return clone
}

func cloneBindings(bindings map[string]*Binding) map[string]*Binding {
	clone := make(map[string]*Binding, len(bindings))
	for name, b := range bindings {
		bCopy := *b
		clone[name] = &bCopy
	}

	return clone
}
