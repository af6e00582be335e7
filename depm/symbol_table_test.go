package depm

import (
	"testing"

	"nsbind/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTable_PartitionsAreIndependent(t *testing.T) {
	st := NewSymbolTable()
	ns := st.Tree.Ensure([]string{"A"})

	fn := st.NewItem("Pair", ns, ItemCallable, report.TextSpan{})
	ty := st.NewItem("Pair", ns, ItemType, report.TextSpan{})

	st.Bind(ns, TermName, "Pair", &Binding{Res: ItemRes{ID: fn.ID}})
	st.Bind(ns, TypeName, "Pair", &Binding{Res: ItemRes{ID: ty.ID}})

	term, ok := st.Get(ns, TermName, "Pair")
	require.True(t, ok)
	typ, ok := st.Get(ns, TypeName, "Pair")
	require.True(t, ok)

	assert.Equal(t, ItemRes{ID: fn.ID}, term.Res)
	assert.Equal(t, ItemRes{ID: ty.ID}, typ.Res)
	assert.NotEqual(t, fn.ID, ty.ID)

	_, ok = st.Get(ns, TermName, "Missing")
	assert.False(t, ok)
}

func TestSymbolTable_IDsFollowDeclarationOrder(t *testing.T) {
	st := NewSymbolTable()

	first := st.NewItem("F", RootNamespace, ItemCallable, report.TextSpan{})
	export := st.NewExport("G", RootNamespace, ItemRes{ID: first.ID}, report.TextSpan{})
	second := st.NewItem("H", RootNamespace, ItemCallable, report.TextSpan{})

	assert.Equal(t, ItemID{Index: 0}, first.ID)
	assert.Equal(t, ItemID{Index: 1}, export.ID)
	assert.Equal(t, ItemID{Index: 2}, second.ID)
	assert.True(t, first.ID.IsLocal())

	assert.Equal(t, []*Item{first, second}, st.Items())
	assert.Equal(t, []*ExportItem{export}, st.Exports())

	got, ok := st.Export(export.ID)
	require.True(t, ok)
	assert.Equal(t, ItemRes{ID: first.ID}, got.Target)
}

func TestSymbolTable_ExternalItemsAreNotLocal(t *testing.T) {
	st := NewSymbolTable()
	id := ItemID{Package: 42, Index: 3}

	st.AddExternalItem(&Item{ID: id, Name: "Length", Kind: ItemCallable, Public: true})
	st.AddExternalItem(&Item{ID: id, Name: "Other"})

	item, ok := st.Item(id)
	require.True(t, ok)
	assert.Equal(t, "Length", item.Name)
	assert.False(t, id.IsLocal())
	assert.Empty(t, st.Items())
}

func TestSymbolTable_NamesAreSorted(t *testing.T) {
	st := NewSymbolTable()
	for _, name := range []string{"c", "a", "b"} {
		st.Bind(RootNamespace, TermName, name, &Binding{Res: ErrorRes{}})
	}

	assert.Equal(t, []string{"a", "b", "c"}, st.Names(RootNamespace, TermName))
	assert.Empty(t, st.Names(RootNamespace, TypeName))
}

func TestSymbolTable_CloneIsIndependent(t *testing.T) {
	st := NewSymbolTable()
	ns := st.Tree.Ensure([]string{"A"})
	item := st.NewItem("F", ns, ItemCallable, report.TextSpan{})
	st.Bind(ns, TermName, "F", &Binding{Res: ItemRes{ID: item.ID}})

	clone := st.Clone()
	cloned, _ := clone.Item(item.ID)
	cloned.Public = true

	clone.Bind(ns, TermName, "G", &Binding{Res: ItemRes{ID: item.ID}})
	next := clone.NewItem("H", ns, ItemCallable, report.TextSpan{})

	assert.False(t, item.Public)
	_, ok := st.Get(ns, TermName, "G")
	assert.False(t, ok)
	assert.Len(t, st.Items(), 1)
	assert.Equal(t, ItemID{Index: 1}, next.ID)
}

func TestRes_IsError(t *testing.T) {
	assert.True(t, IsError(ErrorRes{}))
	assert.False(t, IsError(ItemRes{}))
	assert.False(t, IsError(PrimRes{Name: "Int"}))

	assert.Equal(t, "Prim(Int)", PrimRes{Name: "Int"}.String())
	assert.Equal(t, "Namespace(3)", NamespaceRes{ID: 3}.String())
}
