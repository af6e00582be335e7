// Package syntax loads outline documents: TOML files listing the namespaces
// of a package together with their items and statement text.  It stands in
// for a full parser so packages can be bound without one.
package syntax

import (
	"strings"

	"nsbind/ast"
	"nsbind/report"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Loader turns outline documents and interactive cells into ASTs.  Every tree
// produced by one loader shares a single node ID space.
type Loader struct {
	ids *ast.Assigner
}

// NewLoader creates a new loader.
func NewLoader() *Loader {
	return &Loader{ids: ast.NewAssigner(0)}
}

// NewLoaderAt creates a loader whose first node ID is `start`.  Cells
// resolved against an already loaded package use one so their IDs continue
// where the package's stopped.
func NewLoaderAt(start ast.NodeID) *Loader {
	return &Loader{ids: ast.NewAssigner(start)}
}

// NextID returns the first node ID the loader has not handed out.
func (l *Loader) NextID() ast.NodeID {
	return l.ids.Peek()
}

// LoadFile loads the outline file at `path`.  `reprPath` is the path
// recorded in the spans of the nodes it produces.
func (l *Loader) LoadFile(path, reprPath string) (*ast.Package, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading outline %s", reprPath)
	}

	pkg, err := l.fromTree(&outline{file: reprPath}, tree)
	if err != nil {
		return nil, errors.Wrapf(err, "in outline %s", reprPath)
	}

	return pkg, nil
}

// ParseOutline parses outline source text that does not come from a file.
func (l *Loader) ParseOutline(src string) (*ast.Package, error) {
	tree, err := toml.Load(src)
	if err != nil {
		return nil, errors.Wrap(err, "parsing outline")
	}

	return l.fromTree(&outline{}, tree)
}

// ParseCell parses the text of an interactive cell: one or more statements
// per line, separated by `;` within a line.
func (l *Loader) ParseCell(src string) ([]*ast.Stmt, error) {
	var stmts []*ast.Stmt
	for i, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		lineStmts, err := (&outline{}).parseStmts(line, i, 0)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, lineStmts...)
	}

	l.ids.AssignStmts(stmts)
	return stmts, nil
}

// Merge combines the packages loaded from several outline files.
func Merge(pkgs ...*ast.Package) *ast.Package {
	merged := &ast.Package{}
	for _, pkg := range pkgs {
		merged.Namespaces = append(merged.Namespaces, pkg.Namespaces...)
		merged.Stmts = append(merged.Stmts, pkg.Stmts...)
	}

	return merged
}

// -----------------------------------------------------------------------------

// outline holds the state of converting a single outline document.
type outline struct {
	file string
}

func (l *Loader) fromTree(o *outline, tree *toml.Tree) (*ast.Package, error) {
	pkg := &ast.Package{}

	stmtSrcs, err := getStrings(tree, "stmts")
	if err != nil {
		return nil, err
	}

	line, col := keyPosition(tree, "stmts")
	for _, src := range stmtSrcs {
		stmts, err := o.parseStmts(src, line, col)
		if err != nil {
			return nil, err
		}

		pkg.Stmts = append(pkg.Stmts, stmts...)
	}

	nsTrees, err := getTrees(tree, "namespace")
	if err != nil {
		return nil, err
	}

	for _, nsTree := range nsTrees {
		ns, err := o.namespace(nsTree)
		if err != nil {
			return nil, err
		}

		pkg.Namespaces = append(pkg.Namespaces, ns)
	}

	l.ids.AssignIDs(pkg)
	return pkg, nil
}

func (o *outline) namespace(tree *toml.Tree) (*ast.Namespace, error) {
	name, err := getString(tree, "name")
	if err != nil {
		return nil, err
	} else if name == "" {
		return nil, errors.New("namespace is missing a name")
	}

	line, col := keyPosition(tree, "name")
	p, err := NewParser(o.file, name, line, col)
	if err != nil {
		return nil, err
	}

	path, err := p.ParsePath()
	if err != nil {
		return nil, errors.Wrapf(err, "namespace name `%s`", name)
	}

	decl := &ast.Namespace{Name: path, Span: path.Span}

	if err := o.eachString(tree, "open", func(p *Parser, span report.TextSpan) error {
		open, err := p.ParseOpen()
		if err != nil {
			return err
		}

		decl.Items = append(decl.Items, &ast.Item{Span: open.Path.Span, Kind: open})
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "namespace `%s`", name)
	}

	for _, key := range []string{"import", "export"} {
		export := key == "export"
		if err := o.eachString(tree, key, func(p *Parser, span report.TextSpan) error {
			items, err := p.ParseImportItems()
			if err != nil {
				return err
			}

			decl.Items = append(decl.Items, &ast.Item{
				Span: report.NewSpanOver(items[0].Span, items[len(items)-1].Span),
				Kind: &ast.ImportOrExportDecl{Export: export, Items: items},
			})

			return nil
		}); err != nil {
			return nil, errors.Wrapf(err, "namespace `%s`", name)
		}
	}

	typeTrees, err := getTrees(tree, "type")
	if err != nil {
		return nil, err
	}

	for _, typeTree := range typeTrees {
		item, err := o.typeDecl(typeTree)
		if err != nil {
			return nil, errors.Wrapf(err, "namespace `%s`", name)
		}

		decl.Items = append(decl.Items, item)
	}

	callableTrees, err := getTrees(tree, "callable")
	if err != nil {
		return nil, err
	}

	for _, callableTree := range callableTrees {
		item, err := o.callableDecl(callableTree)
		if err != nil {
			return nil, errors.Wrapf(err, "namespace `%s`", name)
		}

		decl.Items = append(decl.Items, item)
	}

	return decl, nil
}

func (o *outline) typeDecl(tree *toml.Tree) (*ast.Item, error) {
	name, public, err := o.itemHeader(tree)
	if err != nil {
		return nil, err
	}

	decl := &ast.TypeDecl{Name: name}
	if err := o.eachString(tree, "fields", func(p *Parser, span report.TextSpan) error {
		pat, err := p.ParseBinding()
		if err != nil {
			return err
		}

		bind, ok := pat.Kind.(*ast.BindPat)
		if !ok {
			return errors.New("fields must be of the form `name: Type`")
		}

		decl.Fields = append(decl.Fields, &ast.FieldDecl{Name: bind.Name, Ty: bind.Ty})
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "type `%s`", name.Name)
	}

	return &ast.Item{Span: name.Span, Public: public, Kind: decl}, nil
}

var specNames = map[string]ast.SpecKind{
	"body":   ast.SpecBody,
	"adj":    ast.SpecAdj,
	"ctl":    ast.SpecCtl,
	"ctladj": ast.SpecCtlAdj,
}

func (o *outline) callableDecl(tree *toml.Tree) (*ast.Item, error) {
	name, public, err := o.itemHeader(tree)
	if err != nil {
		return nil, err
	}

	decl := &ast.CallableDecl{Name: name}

	kind, err := getString(tree, "kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "", "function":
	case "operation":
		decl.Kind = ast.Operation
	default:
		return nil, errors.Errorf("callable `%s` has unknown kind `%s`", name.Name, kind)
	}

	specs, err := getStrings(tree, "specs")
	if err != nil {
		return nil, err
	}

	for _, spec := range specs {
		sk, ok := specNames[spec]
		if !ok {
			return nil, errors.Errorf("callable `%s` has unknown specialization `%s`", name.Name, spec)
		}

		decl.Specs = append(decl.Specs, sk)
	}

	if err := o.eachString(tree, "generics", func(p *Parser, span report.TextSpan) error {
		path, err := p.ParsePath()
		if err != nil {
			return err
		}

		decl.Generics = append(decl.Generics, path.Name())
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "callable `%s`", name.Name)
	}

	if err := o.eachString(tree, "params", func(p *Parser, span report.TextSpan) error {
		pat, err := p.ParseBinding()
		if err != nil {
			return err
		}

		decl.Input = append(decl.Input, pat)
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "callable `%s`", name.Name)
	}

	if err := o.eachString(tree, "output", func(p *Parser, span report.TextSpan) error {
		decl.Output, err = p.ParseTy()
		return err
	}); err != nil {
		return nil, errors.Wrapf(err, "callable `%s`", name.Name)
	}

	if tree.Has("body") {
		line, col := keyPosition(tree, "body")
		decl.Body = &ast.Block{Span: report.TextSpan{StartLine: line, StartCol: col, EndLine: line, EndCol: col + 3, File: o.file}}

		if err := o.eachString(tree, "body", func(p *Parser, span report.TextSpan) error {
			stmts, err := p.ParseStmts()
			if err != nil {
				return err
			}

			decl.Body.Stmts = append(decl.Body.Stmts, stmts...)
			return nil
		}); err != nil {
			return nil, errors.Wrapf(err, "callable `%s`", name.Name)
		}
	}

	return &ast.Item{Span: name.Span, Public: public, Kind: decl}, nil
}

// itemHeader reads the name and visibility shared by all item tables.
func (o *outline) itemHeader(tree *toml.Tree) (*ast.Ident, bool, error) {
	name, err := getString(tree, "name")
	if err != nil {
		return nil, false, err
	} else if name == "" {
		return nil, false, errors.New("item is missing a name")
	}

	line, col := keyPosition(tree, "name")
	p, err := NewParser(o.file, name, line, col)
	if err != nil {
		return nil, false, err
	}

	path, err := p.ParsePath()
	if err != nil || len(path.Segments) != 1 {
		return nil, false, errors.Errorf("invalid item name `%s`", name)
	}

	public, err := getBool(tree, "public")
	if err != nil {
		return nil, false, err
	}

	return path.Segments[0], public, nil
}

// -----------------------------------------------------------------------------

func (o *outline) parseStmts(src string, line, col int) ([]*ast.Stmt, error) {
	p, err := NewParser(o.file, src, line, col)
	if err != nil {
		return nil, err
	}

	return p.ParseStmts()
}

// eachString calls f with a parser for every string of a key holding either a
// string or a list of strings.
func (o *outline) eachString(tree *toml.Tree, key string, f func(p *Parser, span report.TextSpan) error) error {
	var srcs []string
	if s, ok := tree.Get(key).(string); ok {
		srcs = []string{s}
	} else {
		var err error
		if srcs, err = getStrings(tree, key); err != nil {
			return err
		}
	}

	line, col := keyPosition(tree, key)
	span := report.TextSpan{StartLine: line, StartCol: col, EndLine: line, EndCol: col + len(key) - 1, File: o.file}

	for _, src := range srcs {
		p, err := NewParser(o.file, src, line, col)
		if err != nil {
			return err
		}

		if err := f(p, span); err != nil {
			return errors.Wrapf(err, "`%s`", src)
		}
	}

	return nil
}

// keyPosition returns the zero-indexed position of a key.
func keyPosition(tree *toml.Tree, key string) (int, int) {
	pos := tree.GetPosition(key)
	if pos.Invalid() {
		return 0, 0
	}

	return pos.Line - 1, pos.Col - 1
}

func getString(tree *toml.Tree, key string) (string, error) {
	v := tree.Get(key)
	if v == nil {
		return "", nil
	}

	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("`%s` must be a string", key)
	}

	return s, nil
}

func getBool(tree *toml.Tree, key string) (bool, error) {
	v := tree.Get(key)
	if v == nil {
		return false, nil
	}

	b, ok := v.(bool)
	if !ok {
		return false, errors.Errorf("`%s` must be a boolean", key)
	}

	return b, nil
}

func getStrings(tree *toml.Tree, key string) ([]string, error) {
	switch v := tree.Get(key).(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []interface{}:
		strs := make([]string, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, errors.Errorf("`%s` must be a list of strings", key)
			}

			strs[i] = s
		}

		return strs, nil
	default:
		return nil, errors.Errorf("`%s` must be a list of strings", key)
	}
}

func getTrees(tree *toml.Tree, key string) ([]*toml.Tree, error) {
	switch v := tree.Get(key).(type) {
	case nil:
		return nil, nil
	case []*toml.Tree:
		return v, nil
	case *toml.Tree:
		return []*toml.Tree{v}, nil
	default:
		return nil, errors.Errorf("`%s` must be an array of tables", key)
	}
}
