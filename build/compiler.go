// Package build drives the binding of a package and all of its dependencies.
package build

import (
	"context"
	"path/filepath"
	"sync"

	"nsbind/ast"
	"nsbind/depm"
	"nsbind/iface"
	"nsbind/mods"
	"nsbind/report"
	"nsbind/resolve"
	"nsbind/syntax"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Unit is a single package of the dependency graph together with the outcome
// of binding it.
type Unit struct {
	// Package is the loaded manifest of the package.
	Package *mods.Package

	// Result is the outcome of binding the package.  It is nil until the
	// unit has been bound.
	Result *resolve.Result

	// Interface is the public surface of the package.  It is published once
	// the package has bound without errors and is never modified after.
	Interface *depm.Interface

	// nextID is the first node ID not used by the package's trees.
	nextID ast.NodeID

	// dependsOn lists the units this unit depends on in mount order.
	dependsOn []*unitDep
}

// unitDep is a dependency of a unit.  Exactly one of `unit` and `iface` is
// set: prebuilt interfaces need no binding.
type unitDep struct {
	alias string
	unit  *Unit
	iface *depm.Interface
}

// Compiler is the data structure responsible for maintaining the state of a
// single build: the graph of packages reachable from the root package and the
// interfaces they publish.
type Compiler struct {
	// root is the unit of the package being built
	root *Unit

	// units is the graph of all the units in the build organized by package
	// root directory
	units map[string]*Unit

	// ifaces caches the prebuilt interfaces loaded so far by path
	ifaces map[string]*depm.Interface

	// m guards the publication of interfaces between batches
	m sync.Mutex
}

// NewCompiler creates a new compiler for a given root package.
func NewCompiler(rootPkg *mods.Package) *Compiler {
	root := &Unit{Package: rootPkg}

	return &Compiler{
		root:   root,
		units:  map[string]*Unit{rootPkg.Root: root},
		ifaces: make(map[string]*depm.Interface),
	}
}

// Root returns the unit of the root package.
func (c *Compiler) Root() *Unit {
	return c.root
}

// Analyze loads the dependency graph of the root package and binds every
// package in it.  Packages whose dependencies have all been bound are bound
// concurrently.  The returned error indicates a problem loading the graph;
// problems in the packages themselves are reported as the diagnostics of the
// units.  The boolean indicates whether every package bound without errors.
func (c *Compiler) Analyze(ctx context.Context) (bool, error) {
	if err := c.loadDependencies(c.root, nil); err != nil {
		return false, err
	}

	for _, batch := range c.createResolutionBatches(c.root) {
		// each batch is bound concurrently: the units of a batch only depend
		// on the interfaces of earlier batches which are never modified
		g, gctx := errgroup.WithContext(ctx)

		for _, unit := range batch {
			unit := unit
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				return c.bindUnit(unit)
			})
		}

		if err := g.Wait(); err != nil {
			return false, err
		}

		// dependent packages would fail to mount the interfaces of a batch
		// that failed to bind
		for _, unit := range batch {
			if len(unit.Result.Errors()) > 0 {
				return false, nil
			}
		}
	}

	return true, nil
}

// Units returns every unit of the build that has been bound in the order it
// was bound.
func (c *Compiler) Units() []*Unit {
	var units []*Unit
	for _, batch := range c.createResolutionBatches(c.root) {
		for _, unit := range batch {
			if unit.Result != nil {
				units = append(units, unit)
			}
		}
	}

	return units
}

// Diagnostics returns the diagnostics of every bound unit.
func (c *Compiler) Diagnostics() []*report.Diagnostic {
	var diags []*report.Diagnostic
	for _, unit := range c.Units() {
		diags = append(diags, unit.Result.Diagnostics...)
	}

	return diags
}

// -----------------------------------------------------------------------------

// loadDependencies loads the manifests and interfaces of the dependencies of
// a unit recursively.  `chain` lists the roots of the packages currently being
// loaded and is used to detect import cycles.
func (c *Compiler) loadDependencies(unit *Unit, chain []string) error {
	chain = append(chain, unit.Package.Root)

	for _, dep := range unit.Package.Dependencies {
		if dep.Interface != "" {
			depIface, err := c.loadInterface(dep.Interface)
			if err != nil {
				return errors.Wrapf(err, "dependency `%s` of package `%s`", dep.Alias, unit.Package.Name)
			}

			unit.dependsOn = append(unit.dependsOn, &unitDep{alias: dep.Alias, iface: depIface})
			continue
		}

		for _, root := range chain {
			if root == dep.Path {
				return errors.Errorf("package `%s` is part of an import cycle", unit.Package.Name)
			}
		}

		depUnit, ok := c.units[dep.Path]
		if !ok {
			depPkg, err := mods.LoadPackage(dep.Path)
			if err != nil {
				return errors.Wrapf(err, "dependency `%s` of package `%s`", dep.Alias, unit.Package.Name)
			}

			depUnit = &Unit{Package: depPkg}
			c.units[dep.Path] = depUnit

			if err := c.loadDependencies(depUnit, chain); err != nil {
				return err
			}
		}

		unit.dependsOn = append(unit.dependsOn, &unitDep{alias: dep.Alias, unit: depUnit})
	}

	return nil
}

// loadInterface loads a prebuilt interface, checking that it was written for
// a compatible language.
func (c *Compiler) loadInterface(path string) (*depm.Interface, error) {
	if depIface, ok := c.ifaces[path]; ok {
		return depIface, nil
	}

	depIface, err := iface.LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.ifaces[path] = depIface
	return depIface, nil
}

// createResolutionBatches creates a list of batches of units which can be
// bound concurrently.  The batches at the front should be bound first.  A unit
// shared by several dependents is placed only in the earliest batch it is
// needed by.
func (c *Compiler) createResolutionBatches(root *Unit) [][]*Unit {
	depths := make(map[*Unit]int)
	var order []*Unit

	var visit func(unit *Unit, depth int)
	visit = func(unit *Unit, depth int) {
		prev, ok := depths[unit]
		if ok && prev >= depth {
			return
		} else if !ok {
			order = append(order, unit)
		}

		depths[unit] = depth
		for _, dep := range unit.dependsOn {
			if dep.unit != nil {
				visit(dep.unit, depth+1)
			}
		}
	}

	visit(root, 0)

	maxDepth := 0
	for _, depth := range depths {
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	batches := make([][]*Unit, maxDepth+1)
	for _, unit := range order {
		i := maxDepth - depths[unit]
		batches[i] = append(batches[i], unit)
	}

	return batches
}

// bindUnit loads the sources of a unit and binds them against the published
// interfaces of its dependencies.
func (c *Compiler) bindUnit(unit *Unit) error {
	pkg := unit.Package
	loader := syntax.NewLoader()

	var trees []*ast.Package
	for _, src := range pkg.Sources {
		reprPath, err := filepath.Rel(pkg.Root, src)
		if err != nil {
			reprPath = src
		}

		tree, err := loader.LoadFile(src, reprPath)
		if err != nil {
			return errors.Wrapf(err, "package `%s`", pkg.Name)
		}

		trees = append(trees, tree)
	}

	c.m.Lock()
	deps := make([]*depm.Dependency, len(unit.dependsOn))
	for i, dep := range unit.dependsOn {
		depIface := dep.iface
		if dep.unit != nil {
			depIface = dep.unit.Interface
		}

		deps[i] = &depm.Dependency{Alias: dep.alias, Interface: depIface}
	}
	c.m.Unlock()

	result := resolve.Bind(syntax.Merge(trees...), deps, resolve.Options{Entry: pkg.Entry})
	unit.Result = result
	unit.nextID = loader.NextID()

	if len(result.Errors()) > 0 {
		return nil
	}

	pkgIface := iface.Project(result, pkg.Name)
	if pkg.Interface != "" {
		if err := iface.WriteFile(pkg.Interface, pkgIface); err != nil {
			return errors.Wrapf(err, "package `%s`", pkg.Name)
		}
	}

	c.m.Lock()
	unit.Interface = pkgIface
	c.m.Unlock()

	return nil
}
